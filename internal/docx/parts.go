package docx

import (
	"encoding/xml"
	"strconv"
	"time"
)

// Package part names.
const (
	partContentTypes = "[Content_Types].xml"
	partRootRels     = "_rels/.rels"
	partDocument     = "word/document.xml"
	partDocumentRels = "word/_rels/document.xml.rels"
	partStyles       = "word/styles.xml"
	partNumbering    = "word/numbering.xml"
	partSettings     = "word/settings.xml"
	partCore         = "docProps/core.xml"
	mediaDir         = "word/media/"
)

const (
	nsContentTypes = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsPackageRels  = "http://schemas.openxmlformats.org/package/2006/relationships"
	nsCoreProps    = "http://schemas.openxmlformats.org/package/2006/metadata/core-properties"
	nsDC           = "http://purl.org/dc/elements/1.1/"
	nsDCTerms      = "http://purl.org/dc/terms/"
	nsXSI          = "http://www.w3.org/2001/XMLSchema-instance"

	relOfficeDocument = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps      = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relStyles         = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles"
	relNumbering      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/numbering"
	relSettings       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"
	relImage          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"

	ctRels      = "application/vnd.openxmlformats-package.relationships+xml"
	ctXML       = "application/xml"
	ctDocument  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	ctStyles    = "application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"
	ctNumbering = "application/vnd.openxmlformats-officedocument.wordprocessingml.numbering+xml"
	ctSettings  = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"
	ctCore      = "application/vnd.openxmlformats-package.core-properties+xml"
)

// contentTypesXML represents [Content_Types].xml.
type contentTypesXML struct {
	XMLName   xml.Name      `xml:"Types"`
	Xmlns     string        `xml:"xmlns,attr"`
	Defaults  []defaultXML  `xml:"Default"`
	Overrides []overrideXML `xml:"Override"`
}

type defaultXML struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

type overrideXML struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// relationshipsXML represents _rels/*.rels files.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Xmlns         string            `xml:"xmlns,attr"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID     string `xml:"Id,attr"`
	Type   string `xml:"Type,attr"`
	Target string `xml:"Target,attr"`
}

func contentTypes(media []mediaPart) contentTypesXML {
	ct := contentTypesXML{
		Xmlns: nsContentTypes,
		Defaults: []defaultXML{
			{Extension: "rels", ContentType: ctRels},
			{Extension: "xml", ContentType: ctXML},
		},
		Overrides: []overrideXML{
			{PartName: "/" + partDocument, ContentType: ctDocument},
			{PartName: "/" + partStyles, ContentType: ctStyles},
			{PartName: "/" + partNumbering, ContentType: ctNumbering},
			{PartName: "/" + partSettings, ContentType: ctSettings},
			{PartName: "/" + partCore, ContentType: ctCore},
		},
	}
	seen := map[string]bool{}
	for _, m := range media {
		ext := m.Format.extension()
		if seen[ext] {
			continue
		}
		seen[ext] = true
		ct.Defaults = append(ct.Defaults, defaultXML{Extension: ext, ContentType: m.Format.contentType()})
	}
	return ct
}

func rootRels() relationshipsXML {
	return relationshipsXML{
		Xmlns: nsPackageRels,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relOfficeDocument, Target: partDocument},
			{ID: "rId2", Type: relCoreProps, Target: partCore},
		},
	}
}

func documentRels(media []mediaPart) relationshipsXML {
	rels := relationshipsXML{
		Xmlns: nsPackageRels,
		Relationships: []relationshipXML{
			{ID: "rId1", Type: relStyles, Target: "styles.xml"},
			{ID: "rId2", Type: relNumbering, Target: "numbering.xml"},
			{ID: "rId3", Type: relSettings, Target: "settings.xml"},
		},
	}
	for _, m := range media {
		rels.Relationships = append(rels.Relationships, relationshipXML{
			ID: m.RelID, Type: relImage, Target: "media/" + m.Name,
		})
	}
	return rels
}

// stylesXML represents word/styles.xml.
type stylesXML struct {
	XMLName  xml.Name       `xml:"w:styles"`
	W        string         `xml:"xmlns:w,attr"`
	Defaults docDefaultsXML `xml:"w:docDefaults"`
	Styles   []styleXML     `xml:"w:style"`
}

type docDefaultsXML struct {
	RPr rPrXML `xml:"w:rPrDefault>w:rPr"`
	PPr pPrXML `xml:"w:pPrDefault>w:pPr"`
}

type styleXML struct {
	Type    string    `xml:"w:type,attr"`
	Default string    `xml:"w:default,attr,omitempty"`
	ID      string    `xml:"w:styleId,attr"`
	Name    valXML    `xml:"w:name"`
	BasedOn *valXML   `xml:"w:basedOn,omitempty"`
	Next    *valXML   `xml:"w:next,omitempty"`
	QFormat *emptyXML `xml:"w:qFormat,omitempty"`
	PPr     *pPrXML   `xml:"w:pPr,omitempty"`
	RPr     *rPrXML   `xml:"w:rPr,omitempty"`
}

func styles(d *Document) stylesXML {
	defaults := docDefaultsXML{
		RPr: rPrXML{},
		PPr: pPrXML{Spacing: &spacingXML{After: 0, Line: 240, LineRule: "auto"}},
	}
	if d.Font != (Font{}) {
		defaults.RPr.Fonts = &fontsXML{
			ASCII: d.Font.ASCII, HAnsi: d.Font.ASCII, EastAsia: d.Font.EastAsia, CS: d.Font.ASCII,
		}
	}
	if d.FontSize > 0 {
		sz := strconv.Itoa(d.FontSize)
		defaults.RPr.Sz = &valXML{Val: sz}
		defaults.RPr.SzCs = &valXML{Val: sz}
	}

	out := stylesXML{
		W:        nsW,
		Defaults: defaults,
		Styles: []styleXML{{
			Type: "paragraph", Default: "1", ID: "Normal",
			Name: valXML{Val: "Normal"}, QFormat: &emptyXML{},
		}},
	}
	for _, s := range d.Styles {
		out.Styles = append(out.Styles, styleFor(s))
	}
	return out
}

func styleFor(s Style) styleXML {
	out := styleXML{
		Type:    "paragraph",
		ID:      s.ID,
		Name:    valXML{Val: s.Name},
		BasedOn: &valXML{Val: "Normal"},
		Next:    &valXML{Val: "Normal"},
		QFormat: &emptyXML{},
	}
	pr := pPrXML{Spacing: spacingFor(s.Spacing)}
	if s.KeepNext {
		pr.KeepNext = &emptyXML{}
	}
	if s.OutlineLevel >= 0 {
		pr.OutlineLvl = &valXML{Val: strconv.Itoa(s.OutlineLevel)}
	}
	if pr != (pPrXML{}) {
		out.PPr = &pr
	}
	if rpr := runProps(&Run{Bold: s.Bold, Size: s.Size, Color: s.Color}); rpr != nil {
		out.RPr = rpr
	}
	return out
}

// numberingXML represents word/numbering.xml.
type numberingXML struct {
	XMLName  xml.Name         `xml:"w:numbering"`
	W        string           `xml:"xmlns:w,attr"`
	Abstract []abstractNumXML `xml:"w:abstractNum"`
	Nums     []numXML         `xml:"w:num"`
}

type abstractNumXML struct {
	ID        int      `xml:"w:abstractNumId,attr"`
	MultiType valXML   `xml:"w:multiLevelType"`
	Levels    []lvlXML `xml:"w:lvl"`
}

type lvlXML struct {
	ILvl    int    `xml:"w:ilvl,attr"`
	Start   valXML `xml:"w:start"`
	NumFmt  valXML `xml:"w:numFmt"`
	LvlText valXML `xml:"w:lvlText"`
	LvlJc   valXML `xml:"w:lvlJc"`
	PPr     pPrXML `xml:"w:pPr"`
}

type numXML struct {
	ID       int             `xml:"w:numId,attr"`
	Abstract valXML          `xml:"w:abstractNumId"`
	Override *lvlOverrideXML `xml:"w:lvlOverride,omitempty"`
}

type lvlOverrideXML struct {
	ILvl  int    `xml:"w:ilvl,attr"`
	Start valXML `xml:"w:startOverride"`
}

// Abstract numbering definitions.
const (
	abstractBullet  = 0
	abstractDecimal = 1
	listLevels      = 9
)

var (
	bulletGlyphs   = []string{"•", "◦", "▪"}
	decimalFormats = []string{"decimal", "lowerLetter", "lowerRoman"}
)

func numbering(lists []ListFormat) numberingXML {
	out := numberingXML{W: nsW}
	bullet := abstractNumXML{ID: abstractBullet, MultiType: valXML{Val: "hybridMultilevel"}}
	decimal := abstractNumXML{ID: abstractDecimal, MultiType: valXML{Val: "hybridMultilevel"}}
	for l := 0; l < listLevels; l++ {
		ind := &indXML{Left: 720 * (l + 1), Hanging: 360}
		bullet.Levels = append(bullet.Levels, lvlXML{
			ILvl:    l,
			Start:   valXML{Val: "1"},
			NumFmt:  valXML{Val: "bullet"},
			LvlText: valXML{Val: bulletGlyphs[l%len(bulletGlyphs)]},
			LvlJc:   valXML{Val: "left"},
			PPr:     pPrXML{Ind: ind},
		})
		decimal.Levels = append(decimal.Levels, lvlXML{
			ILvl:    l,
			Start:   valXML{Val: "1"},
			NumFmt:  valXML{Val: decimalFormats[l%len(decimalFormats)]},
			LvlText: valXML{Val: "%" + strconv.Itoa(l+1) + "."},
			LvlJc:   valXML{Val: "left"},
			PPr:     pPrXML{Ind: ind},
		})
	}
	out.Abstract = []abstractNumXML{bullet, decimal}

	for i, f := range lists {
		abstract := abstractBullet
		if f == ListDecimal {
			abstract = abstractDecimal
		}
		out.Nums = append(out.Nums, numXML{
			ID:       i + 1,
			Abstract: valXML{Val: strconv.Itoa(abstract)},
			Override: &lvlOverrideXML{ILvl: 0, Start: valXML{Val: "1"}},
		})
	}
	return out
}

// settingsXML represents word/settings.xml.
type settingsXML struct {
	XMLName      xml.Name `xml:"w:settings"`
	W            string   `xml:"xmlns:w,attr"`
	TabStop      valXML   `xml:"w:defaultTabStop"`
	UpdateFields *valXML  `xml:"w:updateFields,omitempty"`
}

func settings(d *Document) settingsXML {
	s := settingsXML{W: nsW, TabStop: valXML{Val: "720"}}
	if d.UpdateFields {
		s.UpdateFields = &valXML{Val: "true"}
	}
	return s
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName     xml.Name `xml:"cp:coreProperties"`
	CP          string   `xml:"xmlns:cp,attr"`
	DC          string   `xml:"xmlns:dc,attr"`
	DCTerms     string   `xml:"xmlns:dcterms,attr"`
	XSI         string   `xml:"xmlns:xsi,attr"`
	Title       string   `xml:"dc:title,omitempty"`
	Subject     string   `xml:"dc:subject,omitempty"`
	Creator     string   `xml:"dc:creator,omitempty"`
	Keywords    string   `xml:"cp:keywords,omitempty"`
	Description string   `xml:"dc:description,omitempty"`
	Created     *w3cdtf  `xml:"dcterms:created,omitempty"`
	Modified    *w3cdtf  `xml:"dcterms:modified,omitempty"`
}

type w3cdtf struct {
	Type  string `xml:"xsi:type,attr"`
	Value string `xml:",chardata"`
}

func newW3CDTF(t time.Time) *w3cdtf {
	if t.IsZero() {
		return nil
	}
	return &w3cdtf{Type: "dcterms:W3CDTF", Value: t.UTC().Format(time.RFC3339)}
}

func coreProperties(c CoreProperties) corePropertiesXML {
	return corePropertiesXML{
		CP:          nsCoreProps,
		DC:          nsDC,
		DCTerms:     nsDCTerms,
		XSI:         nsXSI,
		Title:       c.Title,
		Subject:     c.Subject,
		Creator:     c.Creator,
		Keywords:    c.Keywords,
		Description: c.Description,
		Created:     newW3CDTF(c.Created),
		Modified:    newW3CDTF(c.Modified),
	}
}
