package docx

import "time"

// Page is the section geometry in twips.
type Page struct {
	Width        int
	Height       int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	MarginLeft   int
}

// NewPage returns a page of the given size in centimeters with one-inch
// margins.
func NewPage(widthCm, heightCm float64) Page {
	return Page{
		Width:        CmToTwips(widthCm),
		Height:       CmToTwips(heightCm),
		MarginTop:    DefaultMargin,
		MarginRight:  DefaultMargin,
		MarginBottom: DefaultMargin,
		MarginLeft:   DefaultMargin,
	}
}

// ContentWidth returns the width between the side margins.
func (p Page) ContentWidth() int {
	w := p.Width - p.MarginLeft - p.MarginRight
	if w < 0 {
		return 0
	}
	return w
}

// CoreProperties populate docProps/core.xml.
type CoreProperties struct {
	Title       string
	Subject     string
	Creator     string
	Keywords    string
	Description string
	Created     time.Time
	Modified    time.Time
}

// Style is a paragraph style written to styles.xml.
type Style struct {
	ID   string
	Name string
	// OutlineLevel is 0-based; negative means none.
	OutlineLevel int
	Bold         bool
	Size         int
	Color        string
	Spacing      *Spacing
	KeepNext     bool
}

// ListFormat selects the numbering definition of a list instance.
type ListFormat int

const (
	ListBullet ListFormat = iota
	ListDecimal
)

// Document is the root of the object graph.
type Document struct {
	Page Page
	Core CoreProperties

	// Font and FontSize are the document defaults (half-points).
	Font     Font
	FontSize int

	Styles []Style

	// UpdateFields asks Word to refresh fields such as TOC on open.
	UpdateFields bool

	body  []Node
	lists []ListFormat
}

// New returns an empty document with the given page geometry.
func New(page Page) *Document {
	return &Document{Page: page}
}

// Append adds nodes to the end of the body.
func (d *Document) Append(nodes ...Node) {
	for _, n := range nodes {
		if n != nil {
			d.body = append(d.body, n)
		}
	}
}

// Body returns the body nodes in order.
func (d *Document) Body() []Node {
	return d.body
}

// NewList registers a list instance whose numbering starts at one and
// returns its numbering ID.
func (d *Document) NewList(format ListFormat) int {
	d.lists = append(d.lists, format)
	return len(d.lists)
}

// Lists returns the registered list instances; index i has ID i+1.
func (d *Document) Lists() []ListFormat {
	return d.lists
}
