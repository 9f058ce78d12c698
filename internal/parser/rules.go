package parser

import (
	"regexp"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
)

// Rule names of DefaultRules.
const (
	RuleFence   = "fence"
	RuleTable   = "table"
	RuleTOC     = "toc"
	RuleRule    = "horizontal-rule"
	RuleChat    = "chat"
	RuleQuote   = "quote"
	RuleHeading = "heading"
	RuleImage   = "image"
	RuleList    = "list"
	RuleBlank   = "blank"
)

var (
	headingPattern  = regexp.MustCompile(`^(#{1,3})[ \t]+(.*)$`)
	imagePattern    = regexp.MustCompile(`^!\[([^\]]*)\]\(\s*([^)\s]+)(?:\s+"([^"]*)")?\s*\)$`)
	numberedPattern = regexp.MustCompile(`^\d+\.[ \t]+(.*)$`)
	bulletPattern   = regexp.MustCompile(`^[-*][ \t]+(.*)$`)
	taskPattern     = regexp.MustCompile(`^\[([ xX])\][ \t]+(.*)$`)
	tocItemPattern  = regexp.MustCompile(`^\d+\.`)
	alertPattern    = regexp.MustCompile(`(?i)^\[!(TIP|NOTE|WARNING)\]`)
)

// DefaultRules returns the built-in rules in precedence order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleFence, Match: isFenceOpen, Apply: applyFence},
		{Name: RuleTable, Match: isTableRow, Apply: applyTable},
		{Name: RuleTOC, Match: isTOCMarker, Apply: applyTOC},
		{Name: RuleRule, Match: isHorizontalRule, Apply: applyHorizontalRule},
		{Name: RuleChat, Match: isChat, Apply: applyChat},
		{Name: RuleQuote, Match: isQuoteLine, Apply: applyQuote},
		{Name: RuleHeading, Match: isHeading, Apply: applyHeading},
		{Name: RuleImage, Match: isImage, Apply: applyImage},
		{Name: RuleList, Match: isListItem, Apply: applyListItem},
		{Name: RuleBlank, Match: isBlank, Apply: func(*Scanner, Line) {}},
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}

// Code fences.

func isFenceOpen(line string) bool {
	_, ok := parseFenceOpen(line)
	return ok
}

func applyFence(s *Scanner, ln Line) {
	f, _ := parseFenceOpen(ln.Text)
	s.fence = f
	s.begin(StateCodeFence, ln)
}

func (s *Scanner) emitFence(lines []Line) {
	opener, body := lines[0], lines[1:]
	if len(body) > 0 && s.fence.closedBy(body[len(body)-1].Text) {
		body = body[:len(body)-1]
	}
	texts := make([]string, len(body))
	for i, ln := range body {
		texts[i] = ln.Text
	}

	b := block.Block{Kind: block.Code, Content: strings.Join(texts, "\n")}
	b.Meta.Language = s.fence.language
	b.Meta.LineNumbers = s.fence.lineNumbers
	if strings.EqualFold(s.fence.language, "mermaid") {
		b.Kind = block.Diagram
		b.Meta.LineNumbers = nil
	}
	s.Emit(b, opener, lines[len(lines)-1])
	s.fence = fence{}
}

// Tables.

func isTableRow(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "|")
}

func applyTable(s *Scanner, ln Line) {
	s.begin(StateTable, ln)
}

func (s *Scanner) emitTable(lines []Line) {
	var (
		rows  [][]string
		align []block.Alignment
	)
	for _, ln := range lines {
		if isSeparatorRow(ln.Text) {
			if align == nil {
				align = parseAlignments(ln.Text)
			}
			continue
		}
		rows = append(rows, splitRow(ln.Text))
	}
	if len(rows) == 0 {
		return
	}
	b := block.Block{Kind: block.Table, Rows: rows}
	b.Meta.ColumnAlign = align
	s.Emit(b, lines[0], lines[len(lines)-1])
}

// Table of contents.

func isTOCMarker(line string) bool {
	return strings.EqualFold(strings.TrimSpace(line), "[toc]")
}

func isTOCItem(line string) bool {
	t := strings.TrimSpace(line)
	return strings.HasPrefix(t, "-") || strings.HasPrefix(t, "*") || tocItemPattern.MatchString(t)
}

func applyTOC(s *Scanner, ln Line) {
	last := ln
	var items []string
	for {
		next, ok := s.Peek()
		if !ok || !isTOCItem(next.Text) {
			break
		}
		s.Next()
		items = append(items, next.Text)
		last = next
	}
	content := strings.TrimSpace(strings.Join(items, "\n"))
	s.Emit(block.Block{Kind: block.TOC, Content: content}, ln, last)
}

// Horizontal rules.

func isHorizontalRule(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) < 3 || !strings.ContainsRune("-*_", rune(t[0])) {
		return false
	}
	return strings.Count(t, t[:1]) == len(t)
}

func applyHorizontalRule(s *Scanner, ln Line) {
	s.Emit(block.Block{Kind: block.Rule}, ln, ln)
}

// Chat messages.

func isChat(line string) bool {
	_, ok := parseChat(line)
	return ok
}

func applyChat(s *Scanner, ln Line) {
	c, _ := parseChat(ln.Text)
	b := block.Block{Kind: block.Chat, Content: c.content}
	b.Meta.Role = c.role
	b.Meta.Align = c.align
	s.Emit(b, ln, ln)
}

// Quotes and callouts.

func isQuoteLine(line string) bool {
	return strings.HasPrefix(strings.TrimLeft(line, " \t"), ">")
}

func applyQuote(s *Scanner, ln Line) {
	s.begin(StateQuote, ln)
}

func (s *Scanner) emitQuote(lines []Line) {
	texts := make([]string, len(lines))
	for i, ln := range lines {
		texts[i] = stripQuoteMarker(ln.Text)
	}

	b := block.Block{Kind: block.Quote}
	if m := alertPattern.FindStringSubmatch(strings.TrimSpace(texts[0])); m != nil {
		b.Kind = block.Callout
		b.Callout = calloutKind(m[1])
		texts[0] = strings.TrimSpace(strings.TrimSpace(texts[0])[len(m[0]):])
		if texts[0] == "" {
			texts = texts[1:]
		}
	}
	b.Content = strings.TrimSpace(strings.Join(texts, "\n"))
	s.Emit(b, lines[0], lines[len(lines)-1])
}

func stripQuoteMarker(line string) string {
	t := strings.TrimLeft(line, " \t")
	if !strings.HasPrefix(t, ">") {
		return line
	}
	t = t[1:]
	return strings.TrimPrefix(t, " ")
}

func calloutKind(tag string) block.CalloutKind {
	switch strings.ToUpper(tag) {
	case "TIP":
		return block.CalloutTip
	case "WARNING":
		return block.CalloutWarning
	default:
		return block.CalloutNote
	}
}

// Headings.

func isHeading(line string) bool {
	return headingPattern.MatchString(strings.TrimSpace(line))
}

func applyHeading(s *Scanner, ln Line) {
	m := headingPattern.FindStringSubmatch(strings.TrimSpace(ln.Text))
	s.Emit(block.Block{
		Kind:    block.Heading,
		Level:   len(m[1]),
		Content: strings.TrimSpace(m[2]),
	}, ln, ln)
}

// Images.

func isImage(line string) bool {
	return imagePattern.MatchString(strings.TrimSpace(line))
}

func applyImage(s *Scanner, ln Line) {
	m := imagePattern.FindStringSubmatch(strings.TrimSpace(ln.Text))
	b := block.Block{Kind: block.Image}
	b.Meta.Alt = m[1]
	b.Meta.Source = m[2]
	b.Meta.Title = m[3]
	s.Emit(b, ln, ln)
}

// Lists.

func isListItem(line string) bool {
	t := strings.TrimSpace(line)
	return numberedPattern.MatchString(t) || bulletPattern.MatchString(t)
}

func applyListItem(s *Scanner, ln Line) {
	t := strings.TrimSpace(ln.Text)
	b := block.Block{Kind: block.BulletItem}
	var content string
	if m := numberedPattern.FindStringSubmatch(t); m != nil {
		b.Kind = block.NumberedItem
		content = m[1]
	} else {
		content = bulletPattern.FindStringSubmatch(t)[1]
	}
	if m := taskPattern.FindStringSubmatch(content); m != nil {
		b.Meta.Task = block.BoolPtr(m[1] != " ")
		content = m[2]
	}
	b.Content = strings.TrimSpace(content)
	b.Meta.Nesting = nestingLevel(ln.Text)
	s.Emit(b, ln, ln)
}

// nestingLevel counts indentation in steps of two spaces; a tab counts as
// one full step.
func nestingLevel(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 2
		default:
			return width / 2
		}
	}
	return width / 2
}
