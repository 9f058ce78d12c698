package render

import (
	"context"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
)

// cellMargin is the padding inside every table cell, in twips.
const cellMargin = 100

func buildTable(_ context.Context, env *Env, b block.Block) []docx.Node {
	columns := 0
	for _, row := range b.Rows {
		columns = max(columns, len(row))
	}
	if columns == 0 {
		return nil
	}

	t := env.Theme
	width := env.Doc.Page.ContentWidth() / columns
	grid := make([]int, columns)
	for i := range grid {
		grid[i] = width
	}

	table := &docx.Table{
		Width:      docx.FullWidthPct,
		Columns:    grid,
		Borders:    docx.Grid(docx.Border{Style: docx.BorderSingle, Size: 4, Color: t.Colors.TableBorder}),
		CellMargin: cellMargin,
	}
	for i, cells := range b.Rows {
		header := i == 0
		row := &docx.Row{Header: header, CantSplit: true}
		for c := 0; c < columns; c++ {
			text := ""
			if c < len(cells) {
				text = cells[c]
			}
			p := &docx.Paragraph{
				Align:   columnAlign(b.Meta.ColumnAlign, c),
				Spacing: &docx.Spacing{Before: 60, After: 60},
			}
			cell := &docx.Cell{Width: width, VAlign: "center"}
			if header {
				cell.Shading = &docx.Shading{Fill: t.Colors.TableHeader}
				p.Add(env.runs(text, docx.Run{Bold: true})...)
			} else {
				p.Add(env.runs(text, docx.Run{})...)
			}
			cell.Paragraphs = []*docx.Paragraph{p}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	return []docx.Node{table, spacer()}
}

func columnAlign(aligns []block.Alignment, i int) docx.Align {
	if i >= len(aligns) {
		return docx.AlignNone
	}
	switch aligns[i] {
	case block.AlignLeft:
		return docx.AlignLeft
	case block.AlignCenter:
		return docx.AlignCenter
	case block.AlignRight:
		return docx.AlignRight
	}
	return docx.AlignNone
}
