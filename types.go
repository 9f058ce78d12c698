package md2docx

import (
	"fmt"
	"sort"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
)

// Block is one structurally typed unit of parsed content.
type Block = block.Block

// Kind identifies the variant of a Block.
type Kind = block.Kind

// Metadata holds the key/value pairs read from front matter.
type Metadata = block.DocumentMetadata

// Page size presets.
const (
	PageBook = "book"
	PageA4   = "a4"
	PageA5   = "a5"
	PageB5   = "b5"
)

// Page dimension bounds in centimeters. The lower bound leaves about 5 cm
// of text width inside the fixed one-inch margins.
const (
	MinPageCm = 10.0
	MaxPageCm = 100.0
)

var pagePresets = map[string]PageSettings{
	PageBook: {WidthCm: 17, HeightCm: 23},
	PageA4:   {WidthCm: 21, HeightCm: 29.7},
	PageA5:   {WidthCm: 14.8, HeightCm: 21},
	PageB5:   {WidthCm: 17.6, HeightCm: 25},
}

// PageSettings is the physical page size.
type PageSettings struct {
	WidthCm  float64
	HeightCm float64
}

// DefaultPageSettings returns the book preset, 17 x 23 cm.
func DefaultPageSettings() *PageSettings {
	p := pagePresets[PageBook]
	return &p
}

// PageSettingsFor returns the preset called name (case-insensitive).
func PageSettingsFor(name string) (*PageSettings, error) {
	p, ok := pagePresets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown preset %q (want %s)", ErrInvalidPageSize, name, strings.Join(PageSizes(), ", "))
	}
	return &p, nil
}

// PageSizes lists the preset names in sorted order.
func PageSizes() []string {
	names := make([]string, 0, len(pagePresets))
	for name := range pagePresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks both dimensions lie within MinPageCm..MaxPageCm.
// Returns nil if p is nil (nil means use defaults).
func (p *PageSettings) Validate() error {
	if p == nil {
		return nil
	}
	for _, d := range []struct {
		name  string
		value float64
	}{{"width", p.WidthCm}, {"height", p.HeightCm}} {
		if d.value < MinPageCm || d.value > MaxPageCm {
			return fmt.Errorf("%w: %s %.2fcm (must be between %.0f and %.0f)", ErrInvalidPageSize, d.name, d.value, MinPageCm, MaxPageCm)
		}
	}
	return nil
}

// Input contains conversion parameters.
type Input struct {
	Markdown string        // Markdown content (required)
	Page     *PageSettings // Page settings (optional, nil = book)

	// ShowLineNumbers is the default for code blocks whose fence does not
	// choose; nil means shown.
	ShowLineNumbers *bool

	// Images maps the identifiers used in ![alt](id) to image bytes.
	Images map[string][]byte

	// CleanCJK tidies spacing and punctuation in CJK prose.
	CleanCJK bool

	Layout Layout
}

// Layout tunes captions and image limits. Zero fields keep the defaults:
// "Figure" captions, "Contents" TOC title, images at most 13 x 20 cm.
type Layout struct {
	FigureLabel      string
	TOCTitle         string
	MaxImageWidthCm  float64
	MaxImageHeightCm float64
}

// GenerateConfig is the layout of one Generate call. Zero dimensions
// select the book preset.
type GenerateConfig struct {
	WidthCm         float64
	HeightCm        float64
	ShowLineNumbers *bool
	Images          map[string][]byte
	Metadata        Metadata
	CleanCJK        bool
	Layout          Layout
}

// validate checks the page size and the image registry.
func (g GenerateConfig) validate() error {
	if g.WidthCm != 0 || g.HeightCm != 0 {
		page := &PageSettings{WidthCm: g.WidthCm, HeightCm: g.HeightCm}
		if err := page.Validate(); err != nil {
			return err
		}
	}
	return validateImages(g.Images)
}

func validateImages(images map[string][]byte) error {
	for id, data := range images {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%w: empty identifier", ErrInvalidImageRegistry)
		}
		if len(data) == 0 {
			return fmt.Errorf("%w: %q has no data", ErrInvalidImageRegistry, id)
		}
	}
	return nil
}

// ParseResult is the outcome of Parse.
type ParseResult struct {
	Blocks   []Block
	Metadata Metadata

	// Warnings are non-fatal problems such as malformed front matter.
	Warnings []error
}

// ConvertResult is the outcome of Convert.
type ConvertResult struct {
	DOCX     []byte
	Blocks   []Block
	Metadata Metadata
	Warnings []error
}
