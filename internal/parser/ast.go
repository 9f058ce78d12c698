package parser

import (
	"bytes"
	"sort"
	"strconv"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/alnah/go-md2docx/internal/block"
)

// astMarkdown is safe for concurrent use; each Parse call gets its own
// parser context.
var astMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
	),
)

// ParseAST tokenizes text through a goldmark syntax tree.
// Nested lists are flattened depth-first with Meta.Nesting set to the
// depth, so sibling order and depth are both recoverable.
func ParseAST(src string, opts ...Option) []block.Block {
	o := buildOptions(opts)
	source := []byte(Normalize(src))
	doc := astMarkdown.Parser().Parse(text.NewReader(source))

	w := &astWalker{source: source, opts: o}
	if o.positions {
		w.lineStarts = lineStarts(source)
	}
	for n := doc.FirstChild(); n != nil; {
		n = w.node(n)
	}
	return w.blocks
}

type astWalker struct {
	source     []byte
	opts       options
	lineStarts []int
	blocks     []block.Block
}

// node converts n and returns the next sibling to visit.
func (w *astWalker) node(n ast.Node) ast.Node {
	next := n.NextSibling()

	switch n := n.(type) {
	case *ast.Heading:
		content := strings.TrimSpace(w.text(n))
		if n.Level > 3 {
			w.emit(block.Block{Kind: block.Paragraph, Content: content}, n)
			break
		}
		w.emit(block.Block{Kind: block.Heading, Level: n.Level, Content: content}, n)

	case *ast.Paragraph, *ast.TextBlock:
		return w.paragraph(n, next)

	case *ast.FencedCodeBlock:
		var info string
		if n.Info != nil {
			info = string(n.Info.Segment.Value(w.source))
		}
		lang, lineNumbers := parseFenceInfo(info)
		b := block.Block{Kind: block.Code, Content: strings.TrimSuffix(w.text(n), "\n")}
		b.Meta.Language = lang
		b.Meta.LineNumbers = lineNumbers
		if strings.EqualFold(lang, "mermaid") {
			b.Kind = block.Diagram
			b.Meta.LineNumbers = nil
		}
		w.emit(b, n)

	case *ast.CodeBlock:
		w.emit(block.Block{Kind: block.Code, Content: strings.TrimSuffix(w.text(n), "\n")}, n)

	case *ast.Blockquote:
		w.blockquote(n)

	case *ast.List:
		w.list(n, 0)

	case *ast.ThematicBreak:
		w.emit(block.Block{Kind: block.Rule}, n)

	case *east.Table:
		w.table(n)

	case *ast.HTMLBlock:
		if content := strings.TrimSpace(w.text(n)); content != "" {
			w.emit(block.Block{Kind: block.Paragraph, Content: content}, n)
		}

	default:
		w.opts.logger.Debug().Str("node", n.Kind().String()).Msg("skipping unsupported markdown node")
	}
	return next
}

func (w *astWalker) paragraph(n ast.Node, next ast.Node) ast.Node {
	content := strings.TrimSpace(w.text(n))

	if isTOCMarker(content) {
		b := block.Block{Kind: block.TOC}
		if l, ok := next.(*ast.List); ok {
			b.Content = w.outline(l)
			next = l.NextSibling()
		}
		w.emit(b, n)
		return next
	}

	if img, ok := soleImage(n); ok {
		b := block.Block{Kind: block.Image}
		b.Meta.Alt = w.inlineText(img)
		b.Meta.Source = string(img.Destination)
		b.Meta.Title = string(img.Title)
		w.emit(b, n)
		return next
	}

	first, rest, _ := strings.Cut(content, "\n")
	if c, ok := parseChat(first); ok {
		b := block.Block{Kind: block.Chat, Content: strings.TrimSpace(c.content + "\n" + rest)}
		b.Meta.Role = c.role
		b.Meta.Align = c.align
		w.emit(b, n)
		return next
	}

	if content != "" {
		w.emit(block.Block{Kind: block.Paragraph, Content: content}, n)
	}
	return next
}

func (w *astWalker) blockquote(n *ast.Blockquote) {
	var parts []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if l, ok := c.(*ast.List); ok {
			parts = append(parts, w.outline(l))
			continue
		}
		parts = append(parts, strings.TrimSpace(w.text(c)))
	}

	b := block.Block{Kind: block.Quote}
	if len(parts) > 0 {
		if m := alertPattern.FindStringSubmatch(parts[0]); m != nil {
			b.Kind = block.Callout
			b.Callout = calloutKind(m[1])
			parts[0] = strings.TrimSpace(parts[0][len(m[0]):])
		}
	}
	b.Content = strings.TrimSpace(strings.Join(parts, "\n\n"))
	w.emit(b, n)
}

func (w *astWalker) list(l *ast.List, depth int) {
	kind := block.BulletItem
	if l.IsOrdered() {
		kind = block.NumberedItem
	}

	for item := l.FirstChild(); item != nil; item = item.NextSibling() {
		var (
			parts  []string
			nested []*ast.List
		)
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			parts = append(parts, strings.TrimSpace(w.text(c)))
		}

		b := block.Block{Kind: kind, Content: strings.Join(parts, "\n")}
		b.Meta.Nesting = depth
		if box := taskBox(item); box != nil {
			b.Meta.Task = block.BoolPtr(box.IsChecked)
		}
		if m := taskPattern.FindStringSubmatch(b.Content); m != nil {
			if b.Meta.Task == nil {
				b.Meta.Task = block.BoolPtr(m[1] != " ")
			}
			b.Content = m[2]
		}
		w.emit(b, item)

		for _, sub := range nested {
			w.list(sub, depth+1)
		}
	}
}

// outline renders a list back to literal Markdown lines, two spaces of
// indentation per nesting level.
func (w *astWalker) outline(l *ast.List) string {
	saved := w.blocks
	w.blocks = nil
	w.list(l, 0)
	items := w.blocks
	w.blocks = saved

	lines := make([]string, 0, len(items))
	number := 0
	for _, it := range items {
		marker := "- "
		if it.Kind == block.NumberedItem {
			number++
			marker = strconv.Itoa(number) + ". "
		}
		lines = append(lines, strings.Repeat("  ", it.Meta.Nesting)+marker+it.Content)
	}
	return strings.Join(lines, "\n")
}

func (w *astWalker) table(t *east.Table) {
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		var row []string
		for c := r.FirstChild(); c != nil; c = c.NextSibling() {
			cell := strings.TrimSpace(w.text(c))
			row = append(row, strings.ReplaceAll(cell, `\|`, "|"))
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return
	}

	b := block.Block{Kind: block.Table, Rows: rows}
	b.Meta.ColumnAlign = make([]block.Alignment, len(t.Alignments))
	for i, a := range t.Alignments {
		switch a {
		case east.AlignLeft:
			b.Meta.ColumnAlign[i] = block.AlignLeft
		case east.AlignCenter:
			b.Meta.ColumnAlign[i] = block.AlignCenter
		case east.AlignRight:
			b.Meta.ColumnAlign[i] = block.AlignRight
		}
	}
	w.emit(b, t)
}

// text returns the raw source of a block node's lines, falling back to
// the text of its inline children.
func (w *astWalker) text(n ast.Node) string {
	if n.Type() != ast.TypeBlock {
		return w.inlineText(n)
	}
	lines := n.Lines()
	if lines.Len() == 0 {
		var parts []string
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			parts = append(parts, w.text(c))
		}
		return strings.Join(parts, "")
	}
	var buf bytes.Buffer
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(w.source))
	}
	return buf.String()
}

func (w *astWalker) inlineText(n ast.Node) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(w.source))
			if t.SoftLineBreak() || t.HardLineBreak() {
				buf.WriteByte('\n')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func (w *astWalker) emit(b block.Block, n ast.Node) {
	if w.opts.positions {
		if start, stop, ok := w.span(n); ok {
			start = w.lineStartOf(start)
			for stop > start && w.source[stop-1] == '\n' {
				stop--
			}
			b.Pos = &block.Position{
				Line:  w.opts.baseLine + sort.SearchInts(w.lineStarts, start+1),
				Start: w.opts.baseOffset + start,
				End:   w.opts.baseOffset + stop,
			}
		}
	}
	w.blocks = append(w.blocks, b)
}

// span returns the byte range covered by the lines of n and its
// descendant blocks.
func (w *astWalker) span(n ast.Node) (start, stop int, ok bool) {
	if n.Type() != ast.TypeBlock {
		return 0, 0, false
	}
	if lines := n.Lines(); lines.Len() > 0 {
		start, stop, ok = lines.At(0).Start, lines.At(lines.Len()-1).Stop, true
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cs, ce, cok := w.span(c)
		if !cok {
			continue
		}
		if !ok || cs < start {
			start = cs
		}
		if !ok || ce > stop {
			stop = ce
		}
		ok = true
	}
	return start, stop, ok
}

func (w *astWalker) lineStartOf(off int) int {
	i := sort.SearchInts(w.lineStarts, off+1) - 1
	if i < 0 {
		return 0
	}
	return w.lineStarts[i]
}

func lineStarts(source []byte) []int {
	starts := []int{0}
	for i, c := range source {
		if c == '\n' && i+1 < len(source) {
			starts = append(starts, i+1)
		}
	}
	return starts
}

// soleImage reports whether a paragraph holds exactly one image and
// nothing else but whitespace.
func soleImage(n ast.Node) (*ast.Image, bool) {
	var img *ast.Image
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Image:
			if img != nil {
				return nil, false
			}
			img = t
		case *ast.Text:
			if t.Segment.Len() > 0 {
				return nil, false
			}
		default:
			return nil, false
		}
	}
	return img, img != nil
}

func taskBox(item ast.Node) *east.TaskCheckBox {
	first := item.FirstChild()
	if first == nil || first.FirstChild() == nil {
		return nil
	}
	box, _ := first.FirstChild().(*east.TaskCheckBox)
	return box
}
