package render

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/docx"
)

func pngOf(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.Black)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func jpegOf(t *testing.T, w, h int) []byte {
	t.Helper()

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h)), nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func base64PNG(t *testing.T) string {
	t.Helper()
	return base64.StdEncoding.EncodeToString(pngOf(t, 40, 20))
}

func imageIn(t *testing.T, p *docx.Paragraph) *docx.Image {
	t.Helper()

	for _, c := range p.Children {
		if img, ok := c.(*docx.Image); ok {
			return img
		}
	}
	t.Fatal("paragraph holds no image")
	return nil
}

func texts(p *docx.Paragraph) string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text)
	}
	return sb.String()
}

func TestBuildHeading(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level     int
		wantStyle string
		border    bool
	}{
		{1, "Heading1", true},
		{2, "Heading2", false},
		{3, "Heading3", false},
		{0, "Heading1", true},
		{6, "Heading3", false},
	}

	for _, tt := range tests {
		doc := generate(t, NewEngine(), Config{}, block.Block{Kind: block.Heading, Level: tt.level, Content: "H"})
		p := paragraphAt(t, doc, 0)
		if p.Style != tt.wantStyle {
			t.Errorf("level %d style = %q, want %q", tt.level, p.Style, tt.wantStyle)
		}
		if !p.KeepNext {
			t.Errorf("level %d should keep with next", tt.level)
		}
		if (p.Borders != nil) != tt.border {
			t.Errorf("level %d border = %v, want %v", tt.level, p.Borders != nil, tt.border)
		}
	}
}

func TestBuildCode_LineNumbers(t *testing.T) {
	t.Parallel()

	code := func(meta *bool) block.Block {
		return block.Block{
			Kind:    block.Code,
			Content: "a := 1\nb := 2\nfmt.Println(a + b)",
			Meta:    block.Metadata{Language: "go", LineNumbers: meta},
		}
	}

	tests := []struct {
		name        string
		cfg         *bool
		meta        *bool
		wantColumns int
	}{
		{"default on", nil, nil, 2},
		{"config off", block.BoolPtr(false), nil, 1},
		{"meta overrides config", block.BoolPtr(false), block.BoolPtr(true), 2},
		{"meta off", nil, block.BoolPtr(false), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			doc := generate(t, NewEngine(), Config{ShowLineNumbers: tt.cfg}, code(tt.meta))
			tbl := tableAt(t, doc, 0)
			if len(tbl.Columns) != tt.wantColumns {
				t.Fatalf("columns = %d, want %d", len(tbl.Columns), tt.wantColumns)
			}
			// Three lines plus top and bottom padding rows.
			if len(tbl.Rows) != 5 {
				t.Fatalf("rows = %d, want 5", len(tbl.Rows))
			}
			if tt.wantColumns == 2 {
				num := tbl.Rows[3].Cells[0].Paragraphs[0]
				if texts(num) != "3" || num.Align != docx.AlignRight {
					t.Errorf("line number cell = %q align %q", texts(num), num.Align)
				}
			}
			line := tbl.Rows[3].Cells[tt.wantColumns-1].Paragraphs[0]
			if got := texts(line); got != "fmt.Println(a + b)" {
				t.Errorf("third line = %q", got)
			}
			if _, ok := doc.Body()[1].(*docx.Paragraph); !ok {
				t.Error("code table should be followed by a spacer paragraph")
			}
		})
	}
}

func TestHighlight(t *testing.T) {
	t.Parallel()

	lines := highlight("go", "package main\n\nfunc main() {}")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	if len(lines[1]) != 0 {
		t.Errorf("blank line spans = %v, want none", lines[1])
	}
	var colored bool
	for _, s := range lines[0] {
		if s.color != "" || s.bold {
			colored = true
		}
	}
	if !colored {
		t.Error("keyword line should carry a colour")
	}

	plain := highlight("no-such-language", "x\ny")
	if len(plain) != 2 || plain[0][0].text != "x" || plain[0][0].color != "" {
		t.Errorf("unknown language = %+v", plain)
	}

	trailing := highlight("go", "x := 1\n")
	if len(trailing) != 2 {
		t.Errorf("trailing newline lines = %d, want 2", len(trailing))
	}
}

func TestBuildTable(t *testing.T) {
	t.Parallel()

	b := block.Block{
		Kind: block.Table,
		Rows: [][]string{{"Name", "Size"}, {"**a**"}, {"b", "2"}},
		Meta: block.Metadata{ColumnAlign: []block.Alignment{block.AlignLeft, block.AlignRight}},
	}
	doc := generate(t, NewEngine(), Config{}, b)
	tbl := tableAt(t, doc, 0)

	if len(tbl.Columns) != 2 || len(tbl.Rows) != 3 {
		t.Fatalf("table = %d columns x %d rows, want 2x3", len(tbl.Columns), len(tbl.Rows))
	}
	head := tbl.Rows[0]
	if !head.Header || head.Cells[0].Shading == nil || head.Cells[0].Shading.Fill != "F2F2F2" {
		t.Errorf("header row = %+v", head)
	}
	if r := head.Cells[1].Paragraphs[0].Runs(); len(r) != 1 || !r[0].Bold {
		t.Errorf("header runs = %+v, want bold", r)
	}
	if tbl.Rows[1].Header {
		t.Error("body row marked as header")
	}
	if got := len(tbl.Rows[1].Cells); got != 2 {
		t.Errorf("ragged row cells = %d, want padded to 2", got)
	}
	if r := tbl.Rows[1].Cells[0].Paragraphs[0].Runs(); len(r) != 1 || r[0].Text != "a" || !r[0].Bold {
		t.Errorf("inline cell runs = %+v", r)
	}
	if got := tbl.Rows[2].Cells[1].Paragraphs[0].Align; got != docx.AlignRight {
		t.Errorf("column 2 align = %q, want right", got)
	}

	empty := generate(t, NewEngine(), Config{}, block.Block{Kind: block.Table})
	if len(empty.Body()) != 0 {
		t.Error("table without rows should produce nothing")
	}
}

func TestBuildCallout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind      block.CalloutKind
		wantLabel string
		wantStyle docx.BorderStyle
	}{
		{block.CalloutTip, "[ TIP ] ", docx.BorderSingle},
		{block.CalloutNote, "[ NOTE ] ", docx.BorderDashed},
		{block.CalloutWarning, "[ WARNING ] ", docx.BorderSingle},
	}

	for _, tt := range tests {
		doc := generate(t, NewEngine(), Config{}, block.Block{Kind: block.Callout, Callout: tt.kind, Content: "Body"})
		p := paragraphAt(t, doc, 0)
		runs := p.Runs()
		if runs[0].Text != tt.wantLabel || !runs[0].Bold {
			t.Errorf("%v label = %+v", tt.kind, runs[0])
		}
		if runs[1].Text != "Body" {
			t.Errorf("%v body = %q", tt.kind, runs[1].Text)
		}
		if p.Borders == nil || p.Borders.Left.Style != tt.wantStyle {
			t.Errorf("%v border style wrong", tt.kind)
		}
	}
}

func TestBuildChat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		align      block.Alignment
		role       string
		wantAlign  docx.Align
		wantBorder docx.BorderStyle
		wantRole   string
	}{
		{block.AlignRight, "User", docx.AlignRight, docx.BorderDashed, "User:"},
		{block.AlignCenter, "AI", docx.AlignCenter, docx.BorderSingle, "AI:"},
		{block.AlignDefault, "", docx.AlignLeft, docx.BorderDotted, "AI:"},
	}

	for _, tt := range tests {
		b := block.Block{Kind: block.Chat, Content: "hi", Meta: block.Metadata{Role: tt.role, Align: tt.align}}
		p := paragraphAt(t, generate(t, NewEngine(), Config{}, b), 0)
		if p.Align != tt.wantAlign {
			t.Errorf("%v align = %q, want %q", tt.align, p.Align, tt.wantAlign)
		}
		if p.Borders.Top.Style != tt.wantBorder {
			t.Errorf("%v border = %q, want %q", tt.align, p.Borders.Top.Style, tt.wantBorder)
		}
		runs := p.Runs()
		if runs[0].Text != tt.wantRole || !runs[0].Bold {
			t.Errorf("%v role run = %+v", tt.align, runs[0])
		}
		if !runs[1].BreakBefore || runs[1].Text != "hi" {
			t.Errorf("%v body run = %+v", tt.align, runs[1])
		}
	}
}

func TestBuildQuoteAndRule(t *testing.T) {
	t.Parallel()

	doc := generate(t, NewEngine(), Config{},
		block.Block{Kind: block.Quote, Content: "said"},
		block.Block{Kind: block.Rule},
	)
	q := paragraphAt(t, doc, 0)
	if q.Borders == nil || q.Borders.Left == nil || !q.Runs()[0].Italic {
		t.Errorf("quote = %+v", q)
	}
	r := paragraphAt(t, doc, 1)
	if r.Borders == nil || r.Borders.Bottom == nil || len(r.Children) != 0 {
		t.Errorf("rule = %+v", r)
	}
}

func TestBuildListItem_Task(t *testing.T) {
	t.Parallel()

	doc := generate(t, NewEngine(), Config{},
		block.Block{Kind: block.BulletItem, Content: "open", Meta: block.Metadata{Task: block.BoolPtr(false)}},
		block.Block{Kind: block.BulletItem, Content: "done", Meta: block.Metadata{Task: block.BoolPtr(true)}},
	)
	if got := texts(paragraphAt(t, doc, 0)); got != taskOpen+"open" {
		t.Errorf("open task = %q", got)
	}
	if got := texts(paragraphAt(t, doc, 1)); got != taskDone+"done" {
		t.Errorf("done task = %q", got)
	}
}

func TestBuildTOC(t *testing.T) {
	t.Parallel()

	t.Run("literal outline", func(t *testing.T) {
		t.Parallel()

		b := block.Block{Kind: block.TOC, Content: "- Intro\n  - Setup\n    1. Install\n\n- End"}
		doc := generate(t, NewEngine(), Config{}, b)
		if doc.UpdateFields {
			t.Error("literal outline should not request field update")
		}
		body := doc.Body()
		if len(body) != 5 {
			t.Fatalf("nodes = %d, want title plus 4 entries", len(body))
		}
		if got := texts(paragraphAt(t, doc, 0)); got != DefaultTOCTitle {
			t.Errorf("title = %q", got)
		}
		want := []struct {
			text   string
			indent int
		}{{"Intro", 0}, {"Setup", 360}, {"Install", 720}, {"End", 0}}
		for i, w := range want {
			p := paragraphAt(t, doc, i+1)
			if texts(p) != w.text {
				t.Errorf("entry %d = %q, want %q", i, texts(p), w.text)
			}
			indent := 0
			if p.Indent != nil {
				indent = p.Indent.Left
			}
			if indent != w.indent {
				t.Errorf("entry %d indent = %d, want %d", i, indent, w.indent)
			}
		}
	})

	t.Run("field", func(t *testing.T) {
		t.Parallel()

		doc := generate(t, NewEngine(), Config{TOCTitle: "目錄"}, block.Block{Kind: block.TOC})
		if !doc.UpdateFields {
			t.Error("empty outline should request field update")
		}
		if got := texts(paragraphAt(t, doc, 0)); got != "目錄" {
			t.Errorf("title = %q", got)
		}
		p := paragraphAt(t, doc, 1)
		f, ok := p.Children[0].(*docx.Field)
		if !ok {
			t.Fatalf("child = %T, want *docx.Field", p.Children[0])
		}
		if f.Instruction != TOCInstruction || f.Result != DefaultTOCPlaceholder {
			t.Errorf("field = %+v", f)
		}
	})
}

func TestBuildImage_Scaling(t *testing.T) {
	t.Parallel()

	maxW := pixelsToEMU(DefaultMaxImageWidthCm * docx.PixelsPerCm)
	maxH := pixelsToEMU(DefaultMaxImageHeightCm * docx.PixelsPerCm)
	fullH := pixelsToEMU(FullPageImageHeightCm * docx.PixelsPerCm)

	tests := []struct {
		name  string
		w, h  int
		alt   string
		limit int64
		exact bool
	}{
		{"small kept", 100, 50, "small", 0, true},
		{"wide", 2000, 500, "wide", maxH, false},
		{"tall", 300, 3000, "tall", maxH, false},
		{"square huge", 4000, 4000, "", maxH, false},
		{"full page", 300, 3000, "full-page tall", fullH, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := Config{Images: map[string][]byte{"img": pngOf(t, tt.w, tt.h)}}
			b := block.Block{Kind: block.Image, Meta: block.Metadata{Source: "img", Alt: tt.alt}}
			doc := generate(t, NewEngine(), cfg, b)

			img := imageIn(t, paragraphAt(t, doc, 0))
			if img.Width > maxW {
				t.Errorf("width %d exceeds %d", img.Width, maxW)
			}
			if tt.limit > 0 && img.Height > tt.limit {
				t.Errorf("height %d exceeds %d", img.Height, tt.limit)
			}
			if tt.exact && (img.Width != docx.PixelsToEMU(tt.w) || img.Height != docx.PixelsToEMU(tt.h)) {
				t.Errorf("size = %dx%d, want unchanged", img.Width, img.Height)
			}
			wantRatio := float64(tt.w) / float64(tt.h)
			gotRatio := float64(img.Width) / float64(img.Height)
			if math.Abs(gotRatio-wantRatio)/wantRatio > 0.01 {
				t.Errorf("aspect ratio = %.3f, want %.3f", gotRatio, wantRatio)
			}
		})
	}
}

func TestBuildImage_Captions(t *testing.T) {
	t.Parallel()

	cfg := Config{Images: map[string][]byte{
		"a":   pngOf(t, 10, 10),
		"b":   jpegOf(t, 10, 10),
		"bad": []byte("not an image"),
	}}
	doc := generate(t, NewEngine(), cfg,
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "bad", Alt: "broken"}},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "a", Alt: "First full-page"}},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "https://example.com/x.png", Alt: "remote"}},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "b"}},
	)

	body := doc.Body()
	if len(body) != 5 {
		t.Fatalf("nodes = %d, want 2 + placeholder + 2", len(body))
	}
	if got := texts(paragraphAt(t, doc, 1)); got != "Figure 1: First" {
		t.Errorf("first caption = %q", got)
	}
	if img := imageIn(t, paragraphAt(t, doc, 0)); img.Format != docx.FormatPNG || img.Description != "First" {
		t.Errorf("first image = %+v", img)
	}
	if got := texts(paragraphAt(t, doc, 2)); got != "[Image: remote]" {
		t.Errorf("placeholder = %q", got)
	}
	if img := imageIn(t, paragraphAt(t, doc, 3)); img.Format != docx.FormatJPEG {
		t.Errorf("second format = %q, want jpeg", img.Format)
	}
	if got := texts(paragraphAt(t, doc, 4)); got != "Figure 2" {
		t.Errorf("second caption = %q", got)
	}
}

func TestBuildImage_DataURLAndLabel(t *testing.T) {
	t.Parallel()

	src := "data:image/png;base64," + base64PNG(t)
	doc := generate(t, NewEngine(), Config{FigureLabel: "圖"},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: src, Alt: "inline"}},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "data:image/png;base64,@@@"}},
		block.Block{Kind: block.Image, Meta: block.Metadata{Source: "missing.png"}},
	)
	if got := texts(paragraphAt(t, doc, 1)); got != "圖 1: inline" {
		t.Errorf("caption = %q", got)
	}
	if len(doc.Body()) != 3 {
		t.Fatalf("nodes = %d, want image, caption, placeholder", len(doc.Body()))
	}
	if got := texts(paragraphAt(t, doc, 2)); got != "[Image: missing.png]" {
		t.Errorf("placeholder = %q", got)
	}
}

func TestBuildDiagram(t *testing.T) {
	t.Parallel()

	t.Run("no renderer", func(t *testing.T) {
		t.Parallel()

		doc := generate(t, NewEngine(), Config{}, block.Block{Kind: block.Diagram, Content: "graph TD; A-->B"})
		runs := paragraphAt(t, doc, 0).Runs()
		if len(runs) != 2 {
			t.Fatalf("marker runs = %d, want 2", len(runs))
		}
		if runs[0].Text != DiagramErrorText || runs[0].Color != "FF0000" || !runs[0].Bold {
			t.Errorf("marker = %+v", runs[0])
		}
		if runs[1].Text != DiagramErrorHint || runs[1].Size != 16 || !runs[1].Italic {
			t.Errorf("hint = %+v", runs[1])
		}
	})

	t.Run("render failure", func(t *testing.T) {
		t.Parallel()

		chain := diagram.NewChain(
			diagram.RendererFunc(func(context.Context, string) (string, error) { return "", errors.New("parse error") }),
			diagram.RasterizerFunc(func(context.Context, string, float64) ([]byte, error) { return nil, nil }),
		)
		doc := generate(t, NewEngine(WithDiagrams(chain)), Config{},
			block.Block{Kind: block.Diagram, Content: "graph ???"},
			block.Block{Kind: block.Paragraph, Content: "after"},
		)
		if got := texts(paragraphAt(t, doc, 0)); got != DiagramErrorText+DiagramErrorHint {
			t.Errorf("marker = %q", got)
		}
		if got := texts(paragraphAt(t, doc, 1)); got != "after" {
			t.Errorf("following block = %q", got)
		}
	})

	t.Run("success", func(t *testing.T) {
		t.Parallel()

		raster := pngOf(t, 300, 150)
		chain := diagram.NewChain(
			diagram.RendererFunc(func(context.Context, string) (string, error) { return "<svg/>", nil }),
			diagram.RasterizerFunc(func(context.Context, string, float64) ([]byte, error) { return raster, nil }),
		)
		doc := generate(t, NewEngine(WithDiagrams(chain)), Config{}, block.Block{Kind: block.Diagram, Content: "graph TD; A-->B"})
		p := paragraphAt(t, doc, 0)
		img := imageIn(t, p)
		if img.Width != docx.PixelsToEMU(100) || img.Height != docx.PixelsToEMU(50) {
			t.Errorf("diagram size = %dx%d EMU", img.Width, img.Height)
		}
		if img.Format != docx.FormatPNG || p.Align != docx.AlignCenter {
			t.Errorf("diagram paragraph = %+v", p)
		}
	})
}
