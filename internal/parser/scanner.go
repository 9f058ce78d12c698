package parser

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
)

// Line is one input line without its terminator.
type Line struct {
	Text string
	// Number is 1-based.
	Number int
	// Start and End are byte offsets; End is exclusive and excludes "\n".
	Start int
	End   int
}

// State is the multi-line construct the scanner is inside.
type State int

const (
	StateNormal State = iota
	StateCodeFence
	StateTable
	StateQuote
)

func (s State) String() string {
	switch s {
	case StateCodeFence:
		return "code-fence"
	case StateTable:
		return "table"
	case StateQuote:
		return "quote"
	default:
		return "normal"
	}
}

// Scanner walks lines with a cursor, dispatching each line to the first
// matching rule. Lines that match no rule accumulate into a paragraph.
type Scanner struct {
	lines     []Line
	next      int
	registry  *Registry
	positions bool

	state State
	open  []Line // lines of the open multi-line construct
	fence fence  // opening fence while state is StateCodeFence

	para   []Line
	blocks []block.Block
}

func newScanner(lines []Line, registry *Registry, positions bool) *Scanner {
	return &Scanner{lines: lines, registry: registry, positions: positions}
}

// Peek returns the next unconsumed line.
func (s *Scanner) Peek() (Line, bool) {
	if s.next >= len(s.lines) {
		return Line{}, false
	}
	return s.lines[s.next], true
}

// Next consumes and returns the next line.
func (s *Scanner) Next() (Line, bool) {
	ln, ok := s.Peek()
	if ok {
		s.next++
	}
	return ln, ok
}

// State returns the current scanner state.
func (s *Scanner) State() State {
	return s.state
}

// Emit appends b, spanning lines first through last, to the output.
func (s *Scanner) Emit(b block.Block, first, last Line) {
	if s.positions {
		b.Pos = &block.Position{Line: first.Number, Start: first.Start, End: last.End}
	}
	s.blocks = append(s.blocks, b)
}

func (s *Scanner) run() []block.Block {
	for {
		ln, ok := s.Next()
		if !ok {
			break
		}
		if s.continueOpen(ln) {
			continue
		}
		s.dispatch(ln)
	}
	s.closeOpen()
	s.flushParagraph()
	return s.blocks
}

func (s *Scanner) dispatch(ln Line) {
	rule, ok := s.registry.Lookup(ln.Text)
	if !ok {
		s.para = append(s.para, ln)
		return
	}
	s.flushParagraph()
	rule.Apply(s, ln)
}

// begin enters a multi-line state whose first line is ln.
func (s *Scanner) begin(state State, ln Line) {
	s.state = state
	s.open = []Line{ln}
}

// continueOpen feeds ln to the open construct and reports whether it was
// consumed. A line that ends a table or quote is not consumed and goes
// through normal dispatch.
func (s *Scanner) continueOpen(ln Line) bool {
	switch s.state {
	case StateCodeFence:
		if s.fence.closedBy(ln.Text) {
			s.open = append(s.open, ln)
			s.closeOpen()
			return true
		}
		s.open = append(s.open, ln)
		return true

	case StateTable:
		if isTableRow(ln.Text) {
			s.open = append(s.open, ln)
			return true
		}
		s.closeOpen()
		return false

	case StateQuote:
		if s.quoteContinues(ln.Text) {
			s.open = append(s.open, ln)
			return true
		}
		s.closeOpen()
		return false
	}
	return false
}

// quoteContinues reports whether line belongs to the open quote: it starts
// with ">" or it is a non-blank line no rule would claim.
func (s *Scanner) quoteContinues(line string) bool {
	if isQuoteLine(line) {
		return true
	}
	if strings.TrimSpace(line) == "" {
		return false
	}
	_, claimed := s.registry.Lookup(line)
	return !claimed
}

func (s *Scanner) closeOpen() {
	if s.state == StateNormal || len(s.open) == 0 {
		s.state = StateNormal
		return
	}
	lines := s.open
	state := s.state
	s.state = StateNormal
	s.open = nil

	switch state {
	case StateCodeFence:
		s.emitFence(lines)
	case StateTable:
		s.emitTable(lines)
	case StateQuote:
		s.emitQuote(lines)
	}
}

func (s *Scanner) flushParagraph() {
	if len(s.para) == 0 {
		return
	}
	texts := make([]string, len(s.para))
	for i, ln := range s.para {
		texts[i] = ln.Text
	}
	content := strings.TrimSpace(strings.Join(texts, "\n"))
	if content != "" {
		s.Emit(block.Block{Kind: block.Paragraph, Content: content}, s.para[0], s.para[len(s.para)-1])
	}
	s.para = nil
}

// splitLines breaks text into Lines whose offsets and numbers are shifted
// by baseOffset and baseLine.
func splitLines(text string, baseOffset, baseLine int) []Line {
	if text == "" {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]Line, 0, len(raw))
	start := 0
	for i, r := range raw {
		lines = append(lines, Line{
			Text:   r,
			Number: baseLine + i + 1,
			Start:  baseOffset + start,
			End:    baseOffset + start + len(r),
		})
		start += len(r) + 1
	}
	return lines
}
