package render

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/inline"
)

// runs parses content into inline segments and returns one run per
// segment, each derived from base. Newlines become line breaks.
func (e *Env) runs(content string, base docx.Run) []docx.Inline {
	segments := inline.Parse(content)
	out := make([]docx.Inline, 0, len(segments))
	for _, seg := range segments {
		if seg.Text == "" {
			continue
		}
		r := base
		r.Text = seg.Text
		e.style(&r, seg.Kind)
		out = append(out, &r)
	}
	return out
}

// style applies the look of an inline kind to r.
func (e *Env) style(r *docx.Run, kind inline.Kind) {
	t := e.Theme
	switch kind {
	case inline.Bold:
		r.Bold = true
	case inline.Italic:
		r.Italic = true
	case inline.Underline:
		r.Underline = &docx.Underline{Style: "single"}
	case inline.Code:
		r.Font = t.codeFont()
		r.Shading = &docx.Shading{Fill: t.Colors.CodeBackground}
	case inline.UIButton:
		r.Bold = true
		r.Shading = &docx.Shading{Fill: t.Colors.Button}
		r.Text = " " + r.Text + " "
	case inline.Shortcut:
		r.Font = t.codeFont()
		r.Size = t.Sizes.Shortcut
		r.Shading = &docx.Shading{Fill: t.Colors.Shortcut}
		r.Text = " " + r.Text + " "
	case inline.Title:
		r.Italic = true
		r.Color = t.Colors.Primary
		r.Text = "『" + r.Text + "』"
	}
}

// plain returns a single run holding text with inline markers removed.
func plain(text string, base docx.Run) *docx.Run {
	r := base
	r.Text = inline.Strip(text)
	return &r
}

// cleanBlock applies publishing cleanup to the prose of b.
func cleanBlock(b block.Block) block.Block {
	switch b.Kind {
	case block.Code, block.Diagram, block.Image, block.Rule:
		return b
	case block.Table:
		rows := make([][]string, len(b.Rows))
		for i, row := range b.Rows {
			rows[i] = make([]string, len(row))
			for j, cell := range row {
				rows[i][j] = inline.CleanForPublishing(cell)
			}
		}
		b.Rows = rows
		return b
	}
	lines := strings.Split(b.Content, "\n")
	for i, line := range lines {
		lines[i] = inline.CleanForPublishing(line)
	}
	b.Content = strings.Join(lines, "\n")
	return b
}
