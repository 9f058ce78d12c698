package render

import (
	"context"
	"strconv"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/parser"
)

// Heading spacing by level, in twips.
var headingSpacing = [...]docx.Spacing{
	1: {Before: 480, After: 240},
	2: {Before: 400, After: 200},
	3: {Before: 300, After: 150},
}

func buildHeading(_ context.Context, env *Env, b block.Block) []docx.Node {
	level := min(max(b.Level, 1), 3)
	spacing := headingSpacing[level]
	p := &docx.Paragraph{
		Style:    "Heading" + strconv.Itoa(level),
		KeepNext: true,
		Spacing:  &spacing,
	}
	if level == 1 {
		p.Borders = &docx.Borders{Bottom: &docx.Border{
			Style: docx.BorderSingle, Size: 18, Space: 8, Color: env.Theme.Colors.Text,
		}}
	}
	p.Add(env.runs(b.Content, docx.Run{})...)
	return []docx.Node{p}
}

func buildParagraph(_ context.Context, env *Env, b block.Block) []docx.Node {
	p := &docx.Paragraph{
		Align:   docx.AlignJustify,
		Spacing: &docx.Spacing{Before: 200, After: 200},
	}
	p.Add(env.runs(b.Content, docx.Run{})...)
	return []docx.Node{p}
}

func buildRule(_ context.Context, env *Env, _ block.Block) []docx.Node {
	return []docx.Node{&docx.Paragraph{
		Spacing: &docx.Spacing{Before: 240, After: 240},
		Borders: &docx.Borders{Bottom: &docx.Border{
			Style: docx.BorderSingle, Size: 12, Space: 1, Color: env.Theme.Colors.Rule,
		}},
	}}
}

func buildQuote(_ context.Context, env *Env, b block.Block) []docx.Node {
	p := &docx.Paragraph{
		Spacing: &docx.Spacing{Before: 200, After: 200},
		Indent:  &docx.Indent{Left: 567},
		Borders: &docx.Borders{Left: &docx.Border{
			Style: docx.BorderSingle, Size: 24, Space: 12, Color: env.Theme.Colors.QuoteBorder,
		}},
	}
	p.Add(env.runs(b.Content, docx.Run{Italic: true, Color: env.Theme.Colors.Muted})...)
	return []docx.Node{p}
}

func buildCallout(_ context.Context, env *Env, b block.Block) []docx.Node {
	style := env.Theme.Callouts.Callout(b.Callout)
	p := &docx.Paragraph{
		Spacing: &docx.Spacing{Before: 400, After: 400, Line: 360},
		Indent:  &docx.Indent{Left: 400, Right: 400},
		Shading: &docx.Shading{Fill: style.Background},
		Borders: docx.AllSides(docx.Border{
			Style: style.Style, Size: style.Size, Space: 8, Color: style.Border,
		}),
	}
	p.Add(&docx.Run{Text: "[ " + b.Callout.String() + " ] ", Bold: true, Size: env.Theme.Sizes.Label})
	p.Add(env.runs(b.Content, docx.Run{})...)
	return []docx.Node{p}
}

func buildChat(_ context.Context, env *Env, b block.Block) []docx.Node {
	t := env.Theme
	p := &docx.Paragraph{Spacing: &docx.Spacing{Before: 300, After: 300}}

	switch b.Meta.Align {
	case block.AlignRight:
		p.Align = docx.AlignRight
		p.Indent = &docx.Indent{Left: 1440}
		p.Shading = &docx.Shading{Fill: t.Colors.ChatUser}
		p.Borders = docx.AllSides(docx.Border{Style: docx.BorderDashed, Size: 6, Space: 8, Color: t.Colors.ChatBorder})
	case block.AlignCenter:
		p.Align = docx.AlignCenter
		p.Indent = &docx.Indent{Left: 720, Right: 720}
		p.Shading = &docx.Shading{Fill: t.Colors.ChatAI}
		p.Borders = docx.AllSides(docx.Border{Style: docx.BorderSingle, Size: 6, Space: 8, Color: t.Colors.ChatBorder})
	default:
		p.Align = docx.AlignLeft
		p.Indent = &docx.Indent{Right: 1440}
		p.Shading = &docx.Shading{Fill: t.Colors.ChatAI}
		p.Borders = docx.AllSides(docx.Border{Style: docx.BorderDotted, Size: 6, Space: 8, Color: t.Colors.ChatBorder})
	}

	role := b.Meta.Role
	if role == "" {
		role = parser.RoleAI
	}
	p.Add(&docx.Run{Text: role + ":", Bold: true, Size: t.Sizes.Label})
	body := env.runs(b.Content, docx.Run{})
	if len(body) > 0 {
		if first, ok := body[0].(*docx.Run); ok {
			first.BreakBefore = true
		}
	}
	p.Add(body...)
	return []docx.Node{p}
}

// Glyphs prefixed to task list items.
const (
	taskOpen = "☐ "
	taskDone = "☑ "
)

func buildListItem(_ context.Context, env *Env, b block.Block) []docx.Node {
	format := docx.ListBullet
	if b.Kind == block.NumberedItem {
		format = docx.ListDecimal
	}
	level := min(max(b.Meta.Nesting, 0), 8)
	p := &docx.Paragraph{
		Numbering: &docx.NumberingRef{
			ID:    env.State.listID(env.Doc, format, level),
			Level: level,
		},
		Spacing: &docx.Spacing{Before: 120, After: 120},
	}
	if b.Meta.Task != nil {
		glyph := taskOpen
		if *b.Meta.Task {
			glyph = taskDone
		}
		p.Add(&docx.Run{Text: glyph})
	}
	p.Add(env.runs(b.Content, docx.Run{})...)
	return []docx.Node{p}
}

// outlineLine is one entry of a literal table of contents.
type outlineLine struct {
	text  string
	level int
}

// parseOutline reads the absorbed TOC lines, stripping list markers and
// deriving the level from indentation.
func parseOutline(content string) []outlineLine {
	var out []outlineLine
	for _, line := range strings.Split(content, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := 0
	scan:
		for _, r := range line {
			switch r {
			case ' ':
				indent++
			case '\t':
				indent += 2
			default:
				break scan
			}
		}
		text := strings.TrimSpace(line)
		text = stripListMarker(text)
		out = append(out, outlineLine{text: text, level: indent / 2})
	}
	return out
}

func stripListMarker(s string) string {
	if rest, ok := strings.CutPrefix(s, "- "); ok {
		return strings.TrimSpace(rest)
	}
	if rest, ok := strings.CutPrefix(s, "* "); ok {
		return strings.TrimSpace(rest)
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i > 0 && i < len(s) && s[i] == '.' {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// TOCInstruction builds headings 1-3 with hyperlinks into an updatable
// outline.
const TOCInstruction = `TOC \o "1-3" \h \z \u`

func buildTOC(_ context.Context, env *Env, b block.Block) []docx.Node {
	t := env.Theme
	title := &docx.Paragraph{
		KeepNext: true,
		Spacing:  &docx.Spacing{Before: 240, After: 240},
	}
	title.Add(&docx.Run{Text: env.Config.TOCTitle, Bold: true, Size: t.Sizes.Heading2})
	nodes := []docx.Node{title}

	entries := parseOutline(b.Content)
	if len(entries) == 0 {
		env.Doc.UpdateFields = true
		field := &docx.Paragraph{Spacing: &docx.Spacing{After: 240}}
		field.Add(&docx.Field{
			Instruction: TOCInstruction,
			Result:      env.Config.TOCPlaceholder,
			Style:       &docx.Run{Italic: true, Color: t.Colors.Muted},
		})
		return append(nodes, field)
	}

	for _, e := range entries {
		p := &docx.Paragraph{Spacing: &docx.Spacing{Before: 60, After: 60}}
		if e.level > 0 {
			p.Indent = &docx.Indent{Left: 360 * e.level}
		}
		p.Add(plain(e.text, docx.Run{}))
		nodes = append(nodes, p)
	}
	return nodes
}
