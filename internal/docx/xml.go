package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// XML namespaces.
const (
	nsW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	nsA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsPic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
)

// Element names carry their prefix literally; the namespaces are declared
// once on the root element.

type documentXML struct {
	XMLName xml.Name `xml:"w:document"`
	W       string   `xml:"xmlns:w,attr"`
	R       string   `xml:"xmlns:r,attr"`
	WP      string   `xml:"xmlns:wp,attr"`
	A       string   `xml:"xmlns:a,attr"`
	Pic     string   `xml:"xmlns:pic,attr"`
	Body    bodyXML  `xml:"w:body"`
}

// bodyXML holds paragraphXML and tableXML values in document order.
type bodyXML struct {
	Items  []any
	SectPr sectPrXML `xml:"w:sectPr"`
}

type sectPrXML struct {
	PgSz  pgSzXML  `xml:"w:pgSz"`
	PgMar pgMarXML `xml:"w:pgMar"`
}

type pgSzXML struct {
	W int `xml:"w:w,attr"`
	H int `xml:"w:h,attr"`
}

type pgMarXML struct {
	Top    int `xml:"w:top,attr"`
	Right  int `xml:"w:right,attr"`
	Bottom int `xml:"w:bottom,attr"`
	Left   int `xml:"w:left,attr"`
	Header int `xml:"w:header,attr"`
	Footer int `xml:"w:footer,attr"`
	Gutter int `xml:"w:gutter,attr"`
}

type valXML struct {
	Val string `xml:"w:val,attr"`
}

type emptyXML struct{}

type paragraphXML struct {
	XMLName xml.Name `xml:"w:p"`
	PPr     *pPrXML  `xml:"w:pPr,omitempty"`
	Runs    []runXML `xml:"w:r"`
}

type pPrXML struct {
	Style      *valXML     `xml:"w:pStyle,omitempty"`
	KeepNext   *emptyXML   `xml:"w:keepNext,omitempty"`
	NumPr      *numPrXML   `xml:"w:numPr,omitempty"`
	PBdr       *bordersXML `xml:"w:pBdr,omitempty"`
	Shd        *shdXML     `xml:"w:shd,omitempty"`
	Spacing    *spacingXML `xml:"w:spacing,omitempty"`
	Ind        *indXML     `xml:"w:ind,omitempty"`
	Jc         *valXML     `xml:"w:jc,omitempty"`
	OutlineLvl *valXML     `xml:"w:outlineLvl,omitempty"`
}

type numPrXML struct {
	ILvl  valXML `xml:"w:ilvl"`
	NumID valXML `xml:"w:numId"`
}

type bordersXML struct {
	Top     *borderXML `xml:"w:top,omitempty"`
	Left    *borderXML `xml:"w:left,omitempty"`
	Bottom  *borderXML `xml:"w:bottom,omitempty"`
	Right   *borderXML `xml:"w:right,omitempty"`
	InsideH *borderXML `xml:"w:insideH,omitempty"`
	InsideV *borderXML `xml:"w:insideV,omitempty"`
}

type borderXML struct {
	Val   string `xml:"w:val,attr"`
	Sz    int    `xml:"w:sz,attr"`
	Space int    `xml:"w:space,attr"`
	Color string `xml:"w:color,attr,omitempty"`
}

type shdXML struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr"`
	Fill  string `xml:"w:fill,attr"`
}

type spacingXML struct {
	Before   int    `xml:"w:before,attr"`
	After    int    `xml:"w:after,attr"`
	Line     int    `xml:"w:line,attr,omitempty"`
	LineRule string `xml:"w:lineRule,attr,omitempty"`
}

type indXML struct {
	Left      int `xml:"w:left,attr,omitempty"`
	Right     int `xml:"w:right,attr,omitempty"`
	FirstLine int `xml:"w:firstLine,attr,omitempty"`
	Hanging   int `xml:"w:hanging,attr,omitempty"`
}

// runXML holds textXML, breakXML, drawingXML, fldCharXML and instrTextXML
// values in order.
type runXML struct {
	XMLName xml.Name `xml:"w:r"`
	RPr     *rPrXML  `xml:"w:rPr,omitempty"`
	Items   []any
}

type rPrXML struct {
	Fonts  *fontsXML     `xml:"w:rFonts,omitempty"`
	B      *emptyXML     `xml:"w:b,omitempty"`
	I      *emptyXML     `xml:"w:i,omitempty"`
	Strike *emptyXML     `xml:"w:strike,omitempty"`
	Color  *valXML       `xml:"w:color,omitempty"`
	Sz     *valXML       `xml:"w:sz,omitempty"`
	SzCs   *valXML       `xml:"w:szCs,omitempty"`
	U      *underlineXML `xml:"w:u,omitempty"`
	Shd    *shdXML       `xml:"w:shd,omitempty"`
}

type fontsXML struct {
	ASCII    string `xml:"w:ascii,attr,omitempty"`
	HAnsi    string `xml:"w:hAnsi,attr,omitempty"`
	EastAsia string `xml:"w:eastAsia,attr,omitempty"`
	CS       string `xml:"w:cs,attr,omitempty"`
}

type underlineXML struct {
	Val   string `xml:"w:val,attr"`
	Color string `xml:"w:color,attr,omitempty"`
}

type textXML struct {
	XMLName xml.Name `xml:"w:t"`
	Space   string   `xml:"xml:space,attr,omitempty"`
	Value   string   `xml:",chardata"`
}

type breakXML struct {
	XMLName xml.Name `xml:"w:br"`
}

type fldCharXML struct {
	XMLName xml.Name `xml:"w:fldChar"`
	Type    string   `xml:"w:fldCharType,attr"`
	Dirty   string   `xml:"w:dirty,attr,omitempty"`
}

type instrTextXML struct {
	XMLName xml.Name `xml:"w:instrText"`
	Space   string   `xml:"xml:space,attr"`
	Value   string   `xml:",chardata"`
}

type drawingXML struct {
	XMLName xml.Name  `xml:"w:drawing"`
	Inline  inlineXML `xml:"wp:inline"`
}

type inlineXML struct {
	DistT        int               `xml:"distT,attr"`
	DistB        int               `xml:"distB,attr"`
	DistL        int               `xml:"distL,attr"`
	DistR        int               `xml:"distR,attr"`
	Extent       extentXML         `xml:"wp:extent"`
	EffectExtent effectExtentXML   `xml:"wp:effectExtent"`
	DocPr        docPrXML          `xml:"wp:docPr"`
	FramePr      graphicFramePrXML `xml:"wp:cNvGraphicFramePr"`
	Graphic      graphicXML        `xml:"a:graphic"`
}

type extentXML struct {
	CX int64 `xml:"cx,attr"`
	CY int64 `xml:"cy,attr"`
}

type effectExtentXML struct {
	L int `xml:"l,attr"`
	T int `xml:"t,attr"`
	R int `xml:"r,attr"`
	B int `xml:"b,attr"`
}

type docPrXML struct {
	ID    int    `xml:"id,attr"`
	Name  string `xml:"name,attr"`
	Descr string `xml:"descr,attr,omitempty"`
}

type graphicFramePrXML struct {
	Locks graphicFrameLocksXML `xml:"a:graphicFrameLocks"`
}

type graphicFrameLocksXML struct {
	NoChangeAspect int `xml:"noChangeAspect,attr"`
}

type graphicXML struct {
	Data graphicDataXML `xml:"a:graphicData"`
}

type graphicDataXML struct {
	URI string `xml:"uri,attr"`
	Pic picXML `xml:"pic:pic"`
}

type picXML struct {
	NvPicPr  nvPicPrXML  `xml:"pic:nvPicPr"`
	BlipFill blipFillXML `xml:"pic:blipFill"`
	SpPr     spPrXML     `xml:"pic:spPr"`
}

type nvPicPrXML struct {
	CNvPr    docPrXML `xml:"pic:cNvPr"`
	CNvPicPr emptyXML `xml:"pic:cNvPicPr"`
}

type blipFillXML struct {
	Blip    blipXML    `xml:"a:blip"`
	Stretch stretchXML `xml:"a:stretch"`
}

type blipXML struct {
	Embed string `xml:"r:embed,attr"`
}

type stretchXML struct {
	FillRect emptyXML `xml:"a:fillRect"`
}

type spPrXML struct {
	Xfrm     xfrmXML     `xml:"a:xfrm"`
	PrstGeom prstGeomXML `xml:"a:prstGeom"`
}

type xfrmXML struct {
	Off offXML    `xml:"a:off"`
	Ext extentXML `xml:"a:ext"`
}

type offXML struct {
	X int `xml:"x,attr"`
	Y int `xml:"y,attr"`
}

type prstGeomXML struct {
	Prst  string   `xml:"prst,attr"`
	AvLst emptyXML `xml:"a:avLst"`
}

type tableXML struct {
	XMLName xml.Name   `xml:"w:tbl"`
	TblPr   tblPrXML   `xml:"w:tblPr"`
	Grid    tblGridXML `xml:"w:tblGrid"`
	Rows    []rowXML   `xml:"w:tr"`
}

type tblPrXML struct {
	W       widthXML    `xml:"w:tblW"`
	Jc      *valXML     `xml:"w:jc,omitempty"`
	Borders *bordersXML `xml:"w:tblBorders,omitempty"`
	Layout  *layoutXML  `xml:"w:tblLayout,omitempty"`
	CellMar *cellMarXML `xml:"w:tblCellMar,omitempty"`
}

type widthXML struct {
	W    int    `xml:"w:w,attr"`
	Type string `xml:"w:type,attr"`
}

type layoutXML struct {
	Type string `xml:"w:type,attr"`
}

type cellMarXML struct {
	Top    widthXML `xml:"w:top"`
	Left   widthXML `xml:"w:left"`
	Bottom widthXML `xml:"w:bottom"`
	Right  widthXML `xml:"w:right"`
}

type tblGridXML struct {
	Cols []gridColXML `xml:"w:gridCol"`
}

type gridColXML struct {
	W int `xml:"w:w,attr"`
}

type rowXML struct {
	TrPr  *trPrXML  `xml:"w:trPr,omitempty"`
	Cells []cellXML `xml:"w:tc"`
}

type trPrXML struct {
	CantSplit *emptyXML `xml:"w:cantSplit,omitempty"`
	Header    *emptyXML `xml:"w:tblHeader,omitempty"`
}

type cellXML struct {
	TcPr       *tcPrXML       `xml:"w:tcPr,omitempty"`
	Paragraphs []paragraphXML `xml:"w:p"`
}

type tcPrXML struct {
	W       *widthXML   `xml:"w:tcW,omitempty"`
	Borders *bordersXML `xml:"w:tcBorders,omitempty"`
	Shd     *shdXML     `xml:"w:shd,omitempty"`
	VAlign  *valXML     `xml:"w:vAlign,omitempty"`
}

// mediaPart is an image stored under word/media.
type mediaPart struct {
	Name   string
	RelID  string
	Data   []byte
	Format ImageFormat
}

// firstMediaRel is the first relationship number free for images; the
// lower ones are taken by styles, numbering and settings.
const firstMediaRel = 4

// encoder converts the object graph to XML values, collecting media.
type encoder struct {
	media   []mediaPart
	drawing int
}

func (e *encoder) document(d *Document) documentXML {
	items := make([]any, 0, len(d.body))
	for _, n := range d.body {
		switch n := n.(type) {
		case *Paragraph:
			items = append(items, e.paragraph(n))
		case *Table:
			items = append(items, e.table(n))
		}
	}
	return documentXML{
		W: nsW, R: nsR, WP: nsWP, A: nsA, Pic: nsPic,
		Body: bodyXML{
			Items: items,
			SectPr: sectPrXML{
				PgSz: pgSzXML{W: d.Page.Width, H: d.Page.Height},
				PgMar: pgMarXML{
					Top:    d.Page.MarginTop,
					Right:  d.Page.MarginRight,
					Bottom: d.Page.MarginBottom,
					Left:   d.Page.MarginLeft,
					Header: 720,
					Footer: 720,
				},
			},
		},
	}
}

func (e *encoder) paragraph(p *Paragraph) paragraphXML {
	out := paragraphXML{PPr: paragraphProps(p)}
	for _, child := range p.Children {
		switch c := child.(type) {
		case *Run:
			out.Runs = append(out.Runs, runFor(c))
		case *Image:
			out.Runs = append(out.Runs, e.image(c))
		case *Field:
			out.Runs = append(out.Runs, fieldRuns(c)...)
		}
	}
	return out
}

func paragraphProps(p *Paragraph) *pPrXML {
	pr := pPrXML{
		PBdr:    bordersFor(p.Borders),
		Shd:     shadingFor(p.Shading),
		Spacing: spacingFor(p.Spacing),
	}
	if p.Style != "" {
		pr.Style = &valXML{Val: p.Style}
	}
	if p.KeepNext {
		pr.KeepNext = &emptyXML{}
	}
	if p.Numbering != nil {
		pr.NumPr = &numPrXML{
			ILvl:  valXML{Val: strconv.Itoa(p.Numbering.Level)},
			NumID: valXML{Val: strconv.Itoa(p.Numbering.ID)},
		}
	}
	if p.Indent != nil {
		pr.Ind = &indXML{
			Left:      p.Indent.Left,
			Right:     p.Indent.Right,
			FirstLine: p.Indent.FirstLine,
			Hanging:   p.Indent.Hanging,
		}
	}
	if p.Align != AlignNone {
		pr.Jc = &valXML{Val: string(p.Align)}
	}
	if pr == (pPrXML{}) {
		return nil
	}
	return &pr
}

func spacingFor(s *Spacing) *spacingXML {
	if s == nil {
		return nil
	}
	out := &spacingXML{Before: s.Before, After: s.After, Line: s.Line}
	if s.Line > 0 {
		out.LineRule = "auto"
	}
	return out
}

func shadingFor(s *Shading) *shdXML {
	if s == nil || s.Fill == "" {
		return nil
	}
	return &shdXML{Val: "clear", Color: "auto", Fill: s.Fill}
}

func borderFor(b *Border) *borderXML {
	if b == nil {
		return nil
	}
	style := b.Style
	if style == "" {
		style = BorderSingle
	}
	return &borderXML{Val: string(style), Sz: b.Size, Space: b.Space, Color: b.Color}
}

func bordersFor(b *Borders) *bordersXML {
	if b == nil {
		return nil
	}
	return &bordersXML{
		Top:     borderFor(b.Top),
		Left:    borderFor(b.Left),
		Bottom:  borderFor(b.Bottom),
		Right:   borderFor(b.Right),
		InsideH: borderFor(b.InsideH),
		InsideV: borderFor(b.InsideV),
	}
}

func runProps(r *Run) *rPrXML {
	pr := rPrXML{Shd: shadingFor(r.Shading)}
	if r.Font != nil {
		pr.Fonts = &fontsXML{
			ASCII:    r.Font.ASCII,
			HAnsi:    r.Font.ASCII,
			EastAsia: r.Font.EastAsia,
			CS:       r.Font.ASCII,
		}
	}
	if r.Bold {
		pr.B = &emptyXML{}
	}
	if r.Italic {
		pr.I = &emptyXML{}
	}
	if r.Strike {
		pr.Strike = &emptyXML{}
	}
	if r.Color != "" {
		pr.Color = &valXML{Val: r.Color}
	}
	if r.Size > 0 {
		sz := strconv.Itoa(r.Size)
		pr.Sz = &valXML{Val: sz}
		pr.SzCs = &valXML{Val: sz}
	}
	if r.Underline != nil {
		style := r.Underline.Style
		if style == "" {
			style = "single"
		}
		pr.U = &underlineXML{Val: style, Color: r.Underline.Color}
	}
	if pr == (rPrXML{}) {
		return nil
	}
	return &pr
}

func runFor(r *Run) runXML {
	out := runXML{RPr: runProps(r)}
	if r.BreakBefore {
		out.Items = append(out.Items, breakXML{})
	}
	if r.Text == "" {
		return out
	}
	for i, line := range strings.Split(r.Text, "\n") {
		if i > 0 {
			out.Items = append(out.Items, breakXML{})
		}
		if line != "" {
			out.Items = append(out.Items, textXML{Space: "preserve", Value: line})
		}
	}
	return out
}

func fieldRuns(f *Field) []runXML {
	var props *rPrXML
	if f.Style != nil {
		props = runProps(f.Style)
	}
	result := runXML{RPr: props}
	if f.Result != "" {
		result = runFor(&Run{Text: f.Result})
		result.RPr = props
	}
	return []runXML{
		{RPr: props, Items: []any{fldCharXML{Type: "begin", Dirty: "true"}}},
		{RPr: props, Items: []any{instrTextXML{Space: "preserve", Value: " " + f.Instruction + " "}}},
		{RPr: props, Items: []any{fldCharXML{Type: "separate"}}},
		result,
		{RPr: props, Items: []any{fldCharXML{Type: "end"}}},
	}
}

func (e *encoder) image(img *Image) runXML {
	e.drawing++
	n := len(e.media) + 1
	part := mediaPart{
		Name:   fmt.Sprintf("image%d.%s", n, img.Format.extension()),
		RelID:  fmt.Sprintf("rId%d", firstMediaRel+len(e.media)),
		Data:   img.Data,
		Format: img.Format,
	}
	e.media = append(e.media, part)

	name := img.Name
	if name == "" {
		name = fmt.Sprintf("Picture %d", e.drawing)
	}
	ext := extentXML{CX: img.Width, CY: img.Height}
	return runXML{Items: []any{drawingXML{Inline: inlineXML{
		Extent:  ext,
		DocPr:   docPrXML{ID: e.drawing, Name: name, Descr: img.Description},
		FramePr: graphicFramePrXML{Locks: graphicFrameLocksXML{NoChangeAspect: 1}},
		Graphic: graphicXML{Data: graphicDataXML{
			URI: nsPic,
			Pic: picXML{
				NvPicPr:  nvPicPrXML{CNvPr: docPrXML{ID: 0, Name: part.Name}},
				BlipFill: blipFillXML{Blip: blipXML{Embed: part.RelID}},
				SpPr: spPrXML{
					Xfrm:     xfrmXML{Ext: ext},
					PrstGeom: prstGeomXML{Prst: "rect"},
				},
			},
		}},
	}}}}
}

func (e *encoder) table(t *Table) tableXML {
	out := tableXML{TblPr: tblPrXML{
		W:       widthXML{W: t.Width, Type: "pct"},
		Borders: bordersFor(t.Borders),
		Layout:  &layoutXML{Type: "fixed"},
	}}
	if t.Width == 0 {
		out.TblPr.W = widthXML{W: 0, Type: "auto"}
	}
	if t.Align != AlignNone {
		out.TblPr.Jc = &valXML{Val: string(t.Align)}
	}
	if t.CellMargin > 0 {
		m := widthXML{W: t.CellMargin, Type: "dxa"}
		out.TblPr.CellMar = &cellMarXML{Top: m, Left: m, Bottom: m, Right: m}
	}
	for _, w := range t.Columns {
		out.Grid.Cols = append(out.Grid.Cols, gridColXML{W: w})
	}

	for _, r := range t.Rows {
		row := rowXML{}
		if r.Header || r.CantSplit {
			row.TrPr = &trPrXML{}
			if r.CantSplit {
				row.TrPr.CantSplit = &emptyXML{}
			}
			if r.Header {
				row.TrPr.Header = &emptyXML{}
			}
		}
		for _, c := range r.Cells {
			row.Cells = append(row.Cells, e.cell(c))
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func (e *encoder) cell(c *Cell) cellXML {
	pr := tcPrXML{Borders: bordersFor(c.Borders), Shd: shadingFor(c.Shading)}
	if c.Width > 0 {
		pr.W = &widthXML{W: c.Width, Type: "dxa"}
	}
	if c.VAlign != "" {
		pr.VAlign = &valXML{Val: c.VAlign}
	}
	out := cellXML{}
	if pr != (tcPrXML{}) {
		out.TcPr = &pr
	}
	for _, p := range c.Paragraphs {
		out.Paragraphs = append(out.Paragraphs, e.paragraph(p))
	}
	if len(out.Paragraphs) == 0 {
		out.Paragraphs = []paragraphXML{{}}
	}
	return out
}

func (f ImageFormat) extension() string {
	if f == FormatJPEG {
		return "jpeg"
	}
	if f == "" {
		return "png"
	}
	return string(f)
}

func (f ImageFormat) contentType() string {
	return "image/" + f.extension()
}
