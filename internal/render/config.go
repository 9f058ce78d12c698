package render

import (
	"time"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
)

// Layout defaults.
const (
	DefaultWidthCm          = 17.0
	DefaultHeightCm         = 23.0
	DefaultMaxImageWidthCm  = 13.0
	DefaultMaxImageHeightCm = 20.0
	FullPageImageHeightCm   = 18.0
	DefaultFigureLabel      = "Figure"
	DefaultTOCTitle         = "Contents"
	DefaultTOCPlaceholder   = "Right-click to update the table of contents."

	// FullPageToken in an image's alt text selects the full-page height
	// limit. The token is removed from the caption.
	FullPageToken = "full-page"
)

// Config is the layout of one generation call. It is read-only to the
// builders; running counters live in State.
type Config struct {
	WidthCm  float64
	HeightCm float64

	// ShowLineNumbers is the default for code blocks that do not choose;
	// nil means shown.
	ShowLineNumbers *bool

	// Images maps the identifiers used in ![alt](id) to image bytes.
	Images map[string][]byte

	Metadata block.DocumentMetadata

	MaxImageWidthCm  float64
	MaxImageHeightCm float64

	FigureLabel    string
	TOCTitle       string
	TOCPlaceholder string

	// CleanCJK tidies spacing and punctuation in CJK text.
	CleanCJK bool

	// Now stamps the created and modified core properties; zero omits them.
	Now time.Time
}

// withDefaults returns c with zero fields set to the defaults.
func (c Config) withDefaults() Config {
	if c.WidthCm <= 0 {
		c.WidthCm = DefaultWidthCm
	}
	if c.HeightCm <= 0 {
		c.HeightCm = DefaultHeightCm
	}
	if c.MaxImageWidthCm <= 0 {
		c.MaxImageWidthCm = DefaultMaxImageWidthCm
	}
	if c.MaxImageHeightCm <= 0 {
		c.MaxImageHeightCm = DefaultMaxImageHeightCm
	}
	if c.FigureLabel == "" {
		c.FigureLabel = DefaultFigureLabel
	}
	if c.TOCTitle == "" {
		c.TOCTitle = DefaultTOCTitle
	}
	if c.TOCPlaceholder == "" {
		c.TOCPlaceholder = DefaultTOCPlaceholder
	}
	return c
}

// lineNumbers resolves the line number policy for a code block.
func (c Config) lineNumbers(b block.Block) bool {
	if b.Meta.LineNumbers != nil {
		return *b.Meta.LineNumbers
	}
	if c.ShowLineNumbers != nil {
		return *c.ShowLineNumbers
	}
	return true
}

// State holds the monotonic counters of one generation call.
type State struct {
	// Figures is the number of captioned images emitted so far.
	Figures int

	// lists maps list formats to the numbering instance of the current
	// run of adjacent list blocks; nil outside a run.
	lists map[docx.ListFormat]*listInstance
}

// listInstance is one numbering instance and the shallowest level it
// has been used at.
type listInstance struct {
	id   int
	base int
}

// NextFigure increments and returns the figure number.
func (s *State) NextFigure() int {
	s.Figures++
	return s.Figures
}

// listID returns the numbering instance for format at level in the
// current list run, registering a new one with doc on first use. An item
// shallower than every use of another format closes that format's
// instance: a numbered sub-list under the next bullet starts at one again.
func (s *State) listID(doc *docx.Document, format docx.ListFormat, level int) int {
	if s.lists == nil {
		s.lists = make(map[docx.ListFormat]*listInstance)
	}
	for f, inst := range s.lists {
		if f != format && inst.base > level {
			delete(s.lists, f)
		}
	}
	inst, ok := s.lists[format]
	if !ok {
		inst = &listInstance{id: doc.NewList(format), base: level}
		s.lists[format] = inst
	}
	inst.base = min(inst.base, level)
	return inst.id
}

// endList closes the current list run so the next list restarts at one.
func (s *State) endList() {
	s.lists = nil
}
