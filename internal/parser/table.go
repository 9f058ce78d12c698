package parser

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
)

// isSeparatorRow reports whether line holds only '-', ':', '|' and
// whitespace with at least one '-'.
func isSeparatorRow(line string) bool {
	t := strings.TrimSpace(line)
	if !strings.Contains(t, "-") {
		return false
	}
	for _, r := range t {
		switch r {
		case '-', ':', '|', ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// splitRow splits a table row on unescaped pipes. Outer pipes are removed,
// cells are trimmed, and "\|" becomes a literal pipe.
func splitRow(line string) []string {
	t := strings.TrimSpace(line)
	t = strings.TrimPrefix(t, "|")
	if strings.HasSuffix(t, "|") && !strings.HasSuffix(t, `\|`) {
		t = t[:len(t)-1]
	}

	var (
		cells []string
		cell  strings.Builder
	)
	for i := 0; i < len(t); i++ {
		switch {
		case t[i] == '\\' && i+1 < len(t) && t[i+1] == '|':
			cell.WriteByte('|')
			i++
		case t[i] == '|':
			cells = append(cells, strings.TrimSpace(cell.String()))
			cell.Reset()
		default:
			cell.WriteByte(t[i])
		}
	}
	return append(cells, strings.TrimSpace(cell.String()))
}

// parseAlignments reads column alignment from a separator row.
func parseAlignments(line string) []block.Alignment {
	cells := splitRow(line)
	align := make([]block.Alignment, len(cells))
	for i, c := range cells {
		left := strings.HasPrefix(c, ":")
		right := strings.HasSuffix(c, ":")
		switch {
		case left && right:
			align[i] = block.AlignCenter
		case left:
			align[i] = block.AlignLeft
		case right:
			align[i] = block.AlignRight
		default:
			align[i] = block.AlignDefault
		}
	}
	return align
}
