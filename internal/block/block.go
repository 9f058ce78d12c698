// Package block defines the intermediate representation shared by the
// parser and the generation engine.
//
// A document is parsed into an ordered slice of Block values. Blocks are
// never mutated after the parser emits them; the engine reads them in
// source order and renders each one through the builder registered for
// its Kind.
package block

import "fmt"

// Kind identifies the variant of a Block.
type Kind int

// Block kinds. The zero value is Paragraph so that a partially filled
// Block still renders as text.
const (
	Paragraph Kind = iota
	Heading
	Code
	BulletItem
	NumberedItem
	Table
	Rule
	Callout
	Quote
	Chat
	TOC
	Diagram
	Image

	kindCount
)

var kindNames = [...]string{
	Paragraph:    "paragraph",
	Heading:      "heading",
	Code:         "code",
	BulletItem:   "bullet-item",
	NumberedItem: "numbered-item",
	Table:        "table",
	Rule:         "rule",
	Callout:      "callout",
	Quote:        "quote",
	Chat:         "chat",
	TOC:          "toc",
	Diagram:      "diagram",
	Image:        "image",
}

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	if k < 0 || k >= kindCount {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Valid reports whether k is one of the declared kinds.
func (k Kind) Valid() bool {
	return k >= 0 && k < kindCount
}

// IsList reports whether k is a bullet or numbered list item.
func (k Kind) IsList() bool {
	return k == BulletItem || k == NumberedItem
}

// AllKinds returns every declared kind in declaration order.
func AllKinds() []Kind {
	kinds := make([]Kind, 0, kindCount)
	for k := Kind(0); k < kindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// CalloutKind selects the visual treatment of a Callout block.
type CalloutKind int

const (
	CalloutNote CalloutKind = iota
	CalloutTip
	CalloutWarning
)

// String returns the upper-case label used in rendered output.
func (c CalloutKind) String() string {
	switch c {
	case CalloutTip:
		return "TIP"
	case CalloutWarning:
		return "WARNING"
	default:
		return "NOTE"
	}
}

// Alignment is a horizontal alignment for chat bubbles and table columns.
type Alignment int

const (
	AlignDefault Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

// String returns the alignment name.
func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return "default"
	}
}

// Position locates a block in the original input.
// Line is 1-based; Start and End are byte offsets, End exclusive.
type Position struct {
	Line  int
	Start int
	End   int
}

// Metadata carries the optional per-kind fields of a Block.
type Metadata struct {
	// Code blocks.
	Language    string
	LineNumbers *bool // nil means the generation policy decides

	// Images.
	Alt    string
	Title  string
	Source string

	// List items.
	Nesting int
	Task    *bool // nil when the item is not a task

	// Chat messages.
	Role  string
	Align Alignment

	// Tables.
	ColumnAlign []Alignment
}

// Block is one structurally typed unit of document content.
type Block struct {
	Kind    Kind
	Content string

	// Level is the heading depth (1-3). Zero for other kinds.
	Level int

	// Callout is meaningful only when Kind is Callout.
	Callout CalloutKind

	// Rows holds table cells; the first row is the header.
	Rows [][]string

	Meta Metadata

	// Pos is nil unless position tracking was requested.
	Pos *Position
}

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool {
	return &v
}
