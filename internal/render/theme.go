package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/docx"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// ErrInvalidTheme is returned when a theme file cannot be decoded or holds
// an invalid value.
var ErrInvalidTheme = errors.New("invalid theme")

// Theme holds the fonts, sizes and colours used by the builders. Sizes are
// half-points, border sizes eighths of a point, colours RRGGBB.
type Theme struct {
	Name     string        `yaml:"name"`
	Fonts    ThemeFonts    `yaml:"fonts"`
	Sizes    ThemeSizes    `yaml:"sizes"`
	Colors   ThemeColors   `yaml:"colors"`
	Callouts ThemeCallouts `yaml:"callouts"`
}

type ThemeFonts struct {
	Latin     string `yaml:"latin"`
	EastAsian string `yaml:"eastAsian"`
	Code      string `yaml:"code"`
}

type ThemeSizes struct {
	Body     int `yaml:"body"`
	Code     int `yaml:"code"`
	Heading1 int `yaml:"heading1"`
	Heading2 int `yaml:"heading2"`
	Heading3 int `yaml:"heading3"`
	Caption  int `yaml:"caption"`
	Label    int `yaml:"label"`
	Shortcut int `yaml:"shortcut"`
	Note     int `yaml:"note"`
}

type ThemeColors struct {
	Text           string `yaml:"text"`
	Primary        string `yaml:"primary"`
	CodeBackground string `yaml:"codeBackground"`
	CodeBorder     string `yaml:"codeBorder"`
	LineNumber     string `yaml:"lineNumber"`
	Button         string `yaml:"button"`
	Shortcut       string `yaml:"shortcut"`
	ChatUser       string `yaml:"chatUser"`
	ChatAI         string `yaml:"chatAI"`
	ChatBorder     string `yaml:"chatBorder"`
	TableBorder    string `yaml:"tableBorder"`
	TableHeader    string `yaml:"tableHeader"`
	QuoteBorder    string `yaml:"quoteBorder"`
	Rule           string `yaml:"rule"`
	Error          string `yaml:"error"`
	Muted          string `yaml:"muted"`
}

// CalloutStyle is the box drawn around one callout kind.
type CalloutStyle struct {
	Border     string           `yaml:"border"`
	Background string           `yaml:"background"`
	Style      docx.BorderStyle `yaml:"style"`
	Size       int              `yaml:"size"`
}

type ThemeCallouts struct {
	Tip     CalloutStyle `yaml:"tip"`
	Note    CalloutStyle `yaml:"note"`
	Warning CalloutStyle `yaml:"warning"`
}

// Callout returns the style for kind.
func (c ThemeCallouts) Callout(kind block.CalloutKind) CalloutStyle {
	switch kind {
	case block.CalloutTip:
		return c.Tip
	case block.CalloutWarning:
		return c.Warning
	default:
		return c.Note
	}
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() *Theme {
	return &Theme{
		Name: "default",
		Fonts: ThemeFonts{
			Latin:     "Consolas",
			EastAsian: "Microsoft JhengHei",
			Code:      "Consolas",
		},
		Sizes: ThemeSizes{
			Body:     22,
			Code:     18,
			Heading1: 36,
			Heading2: 32,
			Heading3: 28,
			Caption:  20,
			Label:    18,
			Shortcut: 20,
			Note:     16,
		},
		Colors: ThemeColors{
			Text:           "000000",
			Primary:        "1E3A8A",
			CodeBackground: "F1F5F9",
			CodeBorder:     "BFBFBF",
			LineNumber:     "94A3B8",
			Button:         "E2E8F0",
			Shortcut:       "F8FAFC",
			ChatUser:       "FFFFFF",
			ChatAI:         "F2F2F2",
			ChatBorder:     "404040",
			TableBorder:    "000000",
			TableHeader:    "F2F2F2",
			QuoteBorder:    "CBD5E1",
			Rule:           "000000",
			Error:          "FF0000",
			Muted:          "666666",
		},
		Callouts: ThemeCallouts{
			Tip:     CalloutStyle{Border: "64748B", Background: "F9FAFB", Style: docx.BorderSingle, Size: 36},
			Warning: CalloutStyle{Border: "000000", Background: "F1F5F9", Style: docx.BorderSingle, Size: 48},
			Note:    CalloutStyle{Border: "CBD5E1", Background: "FFFFFF", Style: docx.BorderDashed, Size: 24},
		},
	}
}

// ParseTheme decodes a YAML theme. Keys the file leaves out keep the
// built-in values.
func ParseTheme(data []byte) (*Theme, error) {
	var t Theme
	if err := yamlutil.UnmarshalStrict(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTheme, err)
	}
	t.fill(DefaultTheme())
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// fill copies every zero field of t from def.
func (t *Theme) fill(def *Theme) {
	fillString(&t.Name, def.Name)

	fillString(&t.Fonts.Latin, def.Fonts.Latin)
	fillString(&t.Fonts.EastAsian, def.Fonts.EastAsian)
	fillString(&t.Fonts.Code, def.Fonts.Code)

	s, ds := &t.Sizes, def.Sizes
	for _, p := range []struct {
		dst *int
		src int
	}{
		{&s.Body, ds.Body}, {&s.Code, ds.Code}, {&s.Heading1, ds.Heading1},
		{&s.Heading2, ds.Heading2}, {&s.Heading3, ds.Heading3}, {&s.Caption, ds.Caption},
		{&s.Label, ds.Label}, {&s.Shortcut, ds.Shortcut}, {&s.Note, ds.Note},
	} {
		if *p.dst == 0 {
			*p.dst = p.src
		}
	}

	c, dc := &t.Colors, def.Colors
	for _, p := range []struct {
		dst *string
		src string
	}{
		{&c.Text, dc.Text}, {&c.Primary, dc.Primary}, {&c.CodeBackground, dc.CodeBackground},
		{&c.CodeBorder, dc.CodeBorder}, {&c.LineNumber, dc.LineNumber}, {&c.Button, dc.Button},
		{&c.Shortcut, dc.Shortcut}, {&c.ChatUser, dc.ChatUser}, {&c.ChatAI, dc.ChatAI},
		{&c.ChatBorder, dc.ChatBorder}, {&c.TableBorder, dc.TableBorder}, {&c.TableHeader, dc.TableHeader},
		{&c.QuoteBorder, dc.QuoteBorder}, {&c.Rule, dc.Rule}, {&c.Error, dc.Error}, {&c.Muted, dc.Muted},
	} {
		fillString(p.dst, p.src)
	}

	fillCallout(&t.Callouts.Tip, def.Callouts.Tip)
	fillCallout(&t.Callouts.Note, def.Callouts.Note)
	fillCallout(&t.Callouts.Warning, def.Callouts.Warning)
}

func fillString(dst *string, src string) {
	if *dst == "" {
		*dst = src
	}
}

func fillCallout(dst *CalloutStyle, src CalloutStyle) {
	fillString(&dst.Border, src.Border)
	fillString(&dst.Background, src.Background)
	if dst.Style == "" {
		dst.Style = src.Style
	}
	if dst.Size == 0 {
		dst.Size = src.Size
	}
}

// Validate checks colours are six hex digits and sizes are positive.
func (t *Theme) Validate() error {
	colors := map[string]string{
		"text": t.Colors.Text, "primary": t.Colors.Primary, "codeBackground": t.Colors.CodeBackground,
		"codeBorder": t.Colors.CodeBorder, "lineNumber": t.Colors.LineNumber, "button": t.Colors.Button,
		"shortcut": t.Colors.Shortcut, "chatUser": t.Colors.ChatUser, "chatAI": t.Colors.ChatAI,
		"chatBorder": t.Colors.ChatBorder, "tableBorder": t.Colors.TableBorder, "tableHeader": t.Colors.TableHeader,
		"quoteBorder": t.Colors.QuoteBorder, "rule": t.Colors.Rule, "error": t.Colors.Error, "muted": t.Colors.Muted,
		"callouts.tip.border": t.Callouts.Tip.Border, "callouts.tip.background": t.Callouts.Tip.Background,
		"callouts.note.border": t.Callouts.Note.Border, "callouts.note.background": t.Callouts.Note.Background,
		"callouts.warning.border": t.Callouts.Warning.Border, "callouts.warning.background": t.Callouts.Warning.Background,
	}
	for key, value := range colors {
		if !isHexColor(value) {
			return fmt.Errorf("%w: colors %s %q is not RRGGBB", ErrInvalidTheme, key, value)
		}
	}

	sizes := []int{
		t.Sizes.Body, t.Sizes.Code, t.Sizes.Heading1, t.Sizes.Heading2, t.Sizes.Heading3,
		t.Sizes.Caption, t.Sizes.Label, t.Sizes.Shortcut, t.Sizes.Note,
		t.Callouts.Tip.Size, t.Callouts.Note.Size, t.Callouts.Warning.Size,
	}
	for _, s := range sizes {
		if s <= 0 || s > 400 {
			return fmt.Errorf("%w: size %d out of range 1..400", ErrInvalidTheme, s)
		}
	}

	for _, cs := range []CalloutStyle{t.Callouts.Tip, t.Callouts.Note, t.Callouts.Warning} {
		switch cs.Style {
		case docx.BorderSingle, docx.BorderDashed, docx.BorderDotted, docx.BorderNone:
		default:
			return fmt.Errorf("%w: callout border style %q", ErrInvalidTheme, cs.Style)
		}
	}
	return nil
}

func isHexColor(s string) bool {
	if len(s) != 6 {
		return false
	}
	return strings.Trim(strings.ToUpper(s), "0123456789ABCDEF") == ""
}

// font returns the body font pair.
func (t *Theme) font() *docx.Font {
	return &docx.Font{ASCII: t.Fonts.Latin, EastAsia: t.Fonts.EastAsian}
}

// codeFont returns the fixed-width font pair.
func (t *Theme) codeFont() *docx.Font {
	return &docx.Font{ASCII: t.Fonts.Code, EastAsia: t.Fonts.EastAsian}
}
