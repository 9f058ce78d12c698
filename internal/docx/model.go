package docx

// Node is a body-level element: *Paragraph or *Table.
type Node interface {
	isNode()
}

// Inline is a paragraph child: *Run, *Image or *Field.
type Inline interface {
	isInline()
}

// Align is a paragraph or cell justification.
type Align string

const (
	AlignNone    Align = ""
	AlignLeft    Align = "left"
	AlignCenter  Align = "center"
	AlignRight   Align = "right"
	AlignJustify Align = "both"
)

// BorderStyle is a border line style.
type BorderStyle string

const (
	BorderSingle BorderStyle = "single"
	BorderDashed BorderStyle = "dashed"
	BorderDotted BorderStyle = "dotted"
	BorderNone   BorderStyle = "none"
)

// Border is one edge. Size is in eighths of a point, Space in points.
type Border struct {
	Style BorderStyle
	Size  int
	Space int
	Color string
}

// Borders groups the edges of a paragraph, table or cell.
// InsideH and InsideV apply to tables only.
type Borders struct {
	Top, Left, Bottom, Right *Border
	InsideH, InsideV         *Border
}

// AllSides returns Borders with b on the four outer edges.
func AllSides(b Border) *Borders {
	return &Borders{Top: &b, Left: &b, Bottom: &b, Right: &b}
}

// Grid returns Borders with b on every edge, inside lines included.
func Grid(b Border) *Borders {
	return &Borders{Top: &b, Left: &b, Bottom: &b, Right: &b, InsideH: &b, InsideV: &b}
}

// Shading is a clear-pattern background fill.
type Shading struct {
	Fill string
}

// Spacing is paragraph spacing in twips. Line is in 240ths of a line;
// zero keeps the style default.
type Spacing struct {
	Before int
	After  int
	Line   int
}

// Indent is paragraph indentation in twips. Zero fields are omitted.
type Indent struct {
	Left      int
	Right     int
	FirstLine int
	Hanging   int
}

// NumberingRef attaches a paragraph to a list instance.
type NumberingRef struct {
	ID    int
	Level int
}

// Font names the typefaces for Latin and East Asian text.
type Font struct {
	ASCII    string
	EastAsia string
}

// Underline is a run underline.
type Underline struct {
	Style string
	Color string
}

// Paragraph is a <w:p>.
type Paragraph struct {
	Style     string
	KeepNext  bool
	Numbering *NumberingRef
	Borders   *Borders
	Shading   *Shading
	Spacing   *Spacing
	Indent    *Indent
	Align     Align
	Children  []Inline
}

func (*Paragraph) isNode() {}

// Add appends inlines and returns p.
func (p *Paragraph) Add(children ...Inline) *Paragraph {
	p.Children = append(p.Children, children...)
	return p
}

// Runs returns the *Run children of p in order.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, c := range p.Children {
		if r, ok := c.(*Run); ok {
			runs = append(runs, r)
		}
	}
	return runs
}

// Run is a <w:r> of uniformly formatted text. Newlines in Text become
// line breaks.
type Run struct {
	Text      string
	Bold      bool
	Italic    bool
	Strike    bool
	Underline *Underline
	Color     string
	// Size is in half-points; zero inherits.
	Size    int
	Font    *Font
	Shading *Shading
	// BreakBefore emits a line break ahead of Text.
	BreakBefore bool
}

func (*Run) isInline() {}

// ImageFormat is the media type of embedded image data.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
	FormatGIF  ImageFormat = "gif"
	FormatBMP  ImageFormat = "bmp"
)

// Image is an inline picture. Width and Height are in EMU.
type Image struct {
	Data        []byte
	Format      ImageFormat
	Width       int64
	Height      int64
	Name        string
	Description string
}

func (*Image) isInline() {}

// Field is a complex field such as TOC. Result is shown until the
// consuming application updates the field.
type Field struct {
	Instruction string
	Result      string
	Style       *Run
}

func (*Field) isInline() {}

// Table is a <w:tbl>.
type Table struct {
	// Width is in fiftieths of a percent of the text width.
	Width int
	// Columns are grid widths in twips.
	Columns []int
	Borders *Borders
	// CellMargin is applied to every side of every cell, in twips.
	CellMargin int
	Align      Align
	Rows       []*Row
}

func (*Table) isNode() {}

// Row is a <w:tr>.
type Row struct {
	Header    bool
	CantSplit bool
	Cells     []*Cell
}

// Cell is a <w:tc>. A cell must hold at least one paragraph; Write adds an
// empty one when Paragraphs is empty.
type Cell struct {
	// Width is in twips; zero leaves it to the grid.
	Width      int
	Shading    *Shading
	Borders    *Borders
	VAlign     string
	Paragraphs []*Paragraph
}
