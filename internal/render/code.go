package render

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
)

// CodeStyle is the chroma style used to colour code blocks.
const CodeStyle = "github"

// lineNumberWidth is the gutter column width in twips.
const lineNumberWidth = 600

var codeStyle = func() *chroma.Style {
	if s := styles.Get(CodeStyle); s != nil {
		return s
	}
	return styles.Fallback
}()

// codeSpan is a run of source text with one colour.
type codeSpan struct {
	text   string
	color  string
	bold   bool
	italic bool
}

// highlight splits source into lines of coloured spans. Unknown languages
// yield one plain span per line.
func highlight(language, source string) [][]codeSpan {
	var lexer chroma.Lexer
	if language != "" {
		lexer = lexers.Get(language)
	}
	if lexer == nil {
		lines := strings.Split(source, "\n")
		out := make([][]codeSpan, len(lines))
		for i, line := range lines {
			if line != "" {
				out[i] = []codeSpan{{text: line}}
			}
		}
		return out
	}

	it, err := chroma.Coalesce(lexer).Tokenise(nil, source)
	if err != nil {
		return highlight("", source)
	}

	var out [][]codeSpan
	for _, tokens := range chroma.SplitTokensIntoLines(it.Tokens()) {
		var line []codeSpan
		for _, tok := range tokens {
			text := strings.TrimRight(tok.Value, "\n")
			if text == "" {
				continue
			}
			entry := codeStyle.Get(tok.Type)
			span := codeSpan{
				text:   text,
				bold:   entry.Bold == chroma.Yes,
				italic: entry.Italic == chroma.Yes,
			}
			if entry.Colour.IsSet() {
				span.color = fmt.Sprintf("%02X%02X%02X", entry.Colour.Red(), entry.Colour.Green(), entry.Colour.Blue())
			}
			line = append(line, span)
		}
		out = append(out, line)
	}

	// Keep the source line count whatever the lexer did with the final
	// newline.
	want := strings.Count(source, "\n") + 1
	if len(out) < want {
		out = append(out, make([][]codeSpan, want-len(out))...)
	}
	return out[:want]
}

func buildCode(_ context.Context, env *Env, b block.Block) []docx.Node {
	t := env.Theme
	numbers := env.Config.lineNumbers(b)
	lines := highlight(b.Meta.Language, b.Content)

	width := env.Doc.Page.ContentWidth()
	columns := []int{width}
	if numbers {
		columns = []int{lineNumberWidth, max(width-lineNumberWidth, lineNumberWidth)}
	}

	base := docx.Run{Font: t.codeFont(), Size: t.Sizes.Code, Color: t.Colors.Text}
	shading := &docx.Shading{Fill: t.Colors.CodeBackground}
	cell := func(p *docx.Paragraph) *docx.Cell {
		p.Spacing = &docx.Spacing{}
		return &docx.Cell{Shading: shading, Paragraphs: []*docx.Paragraph{p}}
	}
	padding := func() *docx.Row {
		row := &docx.Row{CantSplit: true}
		for range columns {
			row.Cells = append(row.Cells, cell(&docx.Paragraph{}))
		}
		return row
	}

	table := &docx.Table{
		Width:   docx.FullWidthPct,
		Columns: columns,
		Borders: docx.AllSides(docx.Border{Style: docx.BorderSingle, Size: 4, Color: t.Colors.CodeBorder}),
		Rows:    []*docx.Row{padding()},
	}
	for i, spans := range lines {
		row := &docx.Row{CantSplit: true}
		if numbers {
			num := base
			num.Text = strconv.Itoa(i + 1)
			num.Color = t.Colors.LineNumber
			row.Cells = append(row.Cells, cell((&docx.Paragraph{Align: docx.AlignRight}).Add(&num)))
		}
		p := &docx.Paragraph{}
		for _, s := range spans {
			r := base
			r.Text = s.text
			r.Bold = s.bold
			r.Italic = s.italic
			if s.color != "" {
				r.Color = s.color
			}
			p.Add(&r)
		}
		row.Cells = append(row.Cells, cell(p))
		table.Rows = append(table.Rows, row)
	}
	table.Rows = append(table.Rows, padding())

	return []docx.Node{table, spacer()}
}

// spacer is the empty paragraph placed after tables so that adjacent
// tables do not merge.
func spacer() *docx.Paragraph {
	return &docx.Paragraph{Spacing: &docx.Spacing{Before: 240}}
}
