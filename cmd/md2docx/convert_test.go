package main

// Notes:
// - runConvert: we test the wiring from config file, flags and image
//   directory to md2docx.Input with a fake pool. Env-driven precedence is
//   covered in env_config_test.go.
// - converterOptions: options are opaque functions, so we check that a
//   real converter accepts them rather than inspecting each one.
// - loadImageRegistry: the ReadFile error branch needs an unreadable file
//   inside a readable directory, which is platform-specific.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	md2docx "github.com/alnah/go-md2docx"
	"github.com/alnah/go-md2docx/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunConvert - Config, flags and registry reach the converter
// ---------------------------------------------------------------------------

func TestRunConvert(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "book", "ch1.md"), "# One\n\n![Chart](chart)\n")
	writeFile(t, filepath.Join(dir, "book", "part", "ch2.md"), "# Two\n")
	writeFile(t, filepath.Join(dir, "img", "chart.png"), "png-bytes")
	cfgPath := writeFile(t, filepath.Join(dir, "team.yaml"), strings.Join([]string{
		"images:",
		"  dir: " + filepath.Join(dir, "img"),
		"  figureLabel: Abb.",
		"toc:",
		"  title: Inhalt",
		"code:",
		"  lineNumbers: false",
		"workers: 2",
		"",
	}, "\n"))

	flags, positional, err := parseConvertFlags([]string{
		"-c", cfgPath,
		"--no-diagrams",
		"--page", "a5",
		"-o", filepath.Join(dir, "out"),
		filepath.Dir(input),
	}, &syncBuffer{})
	if err != nil {
		t.Fatalf("parseConvertFlags() error = %v", err)
	}

	pool := newFakePool(2)
	env, stdout, _ := testEnv(pool)

	if err := runConvert(context.Background(), positional, flags, zerolog.Nop(), env); err != nil {
		t.Fatalf("runConvert() error = %v", err)
	}

	if pool.requestedSize != 2 {
		t.Errorf("pool size = %d, want 2 from config", pool.requestedSize)
	}
	if !pool.closed {
		t.Error("pool was not closed")
	}

	inputs, starts := pool.conv.calls()
	if len(inputs) != 2 {
		t.Fatalf("converted %d files, want 2", len(inputs))
	}
	if starts != 0 {
		t.Errorf("StartBrowser called %d times with diagrams disabled", starts)
	}

	in := inputs[0]
	if in.Page == nil || in.Page.WidthCm != 14.8 {
		t.Errorf("Page = %+v, want a5", in.Page)
	}
	if in.ShowLineNumbers == nil || *in.ShowLineNumbers {
		t.Error("ShowLineNumbers should be false from config")
	}
	if string(in.Images["chart.png"]) != "png-bytes" || string(in.Images["chart"]) != "png-bytes" {
		t.Errorf("image registry = %v, want chart.png and chart", keys(in.Images))
	}
	if in.Layout.FigureLabel != "Abb." || in.Layout.TOCTitle != "Inhalt" {
		t.Errorf("Layout = %+v", in.Layout)
	}

	for _, want := range []string{
		filepath.Join(dir, "out", "ch1.docx"),
		filepath.Join(dir, "out", "part", "ch2.docx"),
		"2 succeeded, 0 failed",
	} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("stdout = %q, want substring %q", stdout.String(), want)
		}
	}
}

func TestRunConvert_FailureWrapsFirstError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "empty.md"), "# x\n")

	pool := newFakePool(1)
	pool.conv.convertErr = md2docx.ErrEmptyMarkdown
	env, _, stderr := testEnv(pool)

	flags, positional, err := parseConvertFlags([]string{input}, &syncBuffer{})
	if err != nil {
		t.Fatal(err)
	}

	err = runConvert(context.Background(), positional, flags, zerolog.Nop(), env)
	if !errors.Is(err, md2docx.ErrEmptyMarkdown) {
		t.Fatalf("runConvert() error = %v, want ErrEmptyMarkdown", err)
	}
	if !strings.Contains(err.Error(), "1 conversion(s) failed") {
		t.Errorf("error = %q, want failure count", err)
	}
	if !strings.Contains(stderr.String(), "FAILED "+input) {
		t.Errorf("stderr = %q, want FAILED line", stderr.String())
	}
}

func TestRunConvert_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	input := writeFile(t, filepath.Join(dir, "doc.md"), "# x\n")
	writeFile(t, filepath.Join(dir, "notes.txt"), "x")
	emptyDir := filepath.Join(dir, "empty")
	writeFile(t, filepath.Join(emptyDir, "readme.txt"), "x")

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{name: "missing input", args: []string{filepath.Join(dir, "missing.md")}, wantErr: os.ErrNotExist},
		{name: "wrong extension", args: []string{filepath.Join(dir, "notes.txt")}, wantErr: ErrInvalidExtension},
		{name: "no markdown in dir", args: []string{emptyDir}, wantErr: ErrNoInput},
		{name: "two inputs", args: []string{input, input}, wantErr: ErrUsage},
		{name: "bad page preset", args: []string{"-p", "letter", input}, wantErr: md2docx.ErrInvalidPageSize},
		{name: "width without height", args: []string{"--width", "20", input}, wantErr: config.ErrInvalidValue},
		{name: "missing images dir", args: []string{"--images", filepath.Join(dir, "nope"), input}, wantErr: ErrReadImages},
		{name: "bad timeout", args: []string{"--timeout=-5s", input}, wantErr: ErrInvalidTimeout},
		{name: "missing config file", args: []string{"-c", filepath.Join(dir, "nope.yaml"), input}, wantErr: config.ErrConfigNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			flags, positional, err := parseConvertFlags(tt.args, &syncBuffer{})
			if err != nil {
				t.Fatal(err)
			}
			env, _, _ := testEnv(newFakePool(1))

			err = runConvert(context.Background(), positional, flags, zerolog.Nop(), env)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("runConvert() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestMergeFlags - CLI over config
// ---------------------------------------------------------------------------

func TestMergeFlags(t *testing.T) {
	t.Parallel()

	t.Run("flags override config", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{
			Theme:   "default",
			Timeout: "10s",
			Page:    config.PageConfig{Size: "a4"},
			Images:  config.ImagesConfig{Dir: "/cfg/img", FigureLabel: "Fig."},
			TOC:     config.TOCConfig{Title: "Index"},
		}
		flags := &convertFlags{
			workers: 3,
			timeout: "1m",
			page:    pageFlags{width: 20, height: 25},
			content: contentFlags{
				noLineNumbers: true,
				images:        "/flag/img",
				figureLabel:   "Abb.",
				tocTitle:      "Inhalt",
				noDiagrams:    true,
				cleanCJK:      true,
			},
			assets: assetFlags{theme: "print", assetPath: "/assets"},
		}

		if err := mergeFlags(flags, cfg); err != nil {
			t.Fatalf("mergeFlags() error = %v", err)
		}

		if cfg.Workers != 3 || cfg.Timeout != "1m" {
			t.Errorf("workers/timeout = %d/%q", cfg.Workers, cfg.Timeout)
		}
		if cfg.Page != (config.PageConfig{Width: 20, Height: 25}) {
			t.Errorf("Page = %+v, want custom 20x25 without preset", cfg.Page)
		}
		if cfg.Code.LineNumbers == nil || *cfg.Code.LineNumbers {
			t.Error("LineNumbers should be false")
		}
		if cfg.DiagramsEnabled() {
			t.Error("diagrams should be disabled")
		}
		if !cfg.Text.CleanCJK {
			t.Error("CleanCJK should be set")
		}
		if cfg.Images.Dir != "/flag/img" || cfg.Images.FigureLabel != "Abb." || cfg.TOC.Title != "Inhalt" {
			t.Errorf("content = %+v / %+v", cfg.Images, cfg.TOC)
		}
		if cfg.Theme != "print" || cfg.Assets.BasePath != "/assets" {
			t.Errorf("assets = %q / %q", cfg.Theme, cfg.Assets.BasePath)
		}
	})

	t.Run("empty flags keep config", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Theme: "print", Timeout: "10s", Workers: 2, Page: config.PageConfig{Width: 20, Height: 25}}
		if err := mergeFlags(&convertFlags{}, cfg); err != nil {
			t.Fatal(err)
		}
		if cfg.Theme != "print" || cfg.Timeout != "10s" || cfg.Workers != 2 || cfg.Page.Width != 20 {
			t.Errorf("config changed: %+v", cfg)
		}
		if !cfg.DiagramsEnabled() || cfg.Code.LineNumbers != nil {
			t.Error("unset booleans must not be forced")
		}
	})

	t.Run("preset flag clears custom size", func(t *testing.T) {
		t.Parallel()

		cfg := &config.Config{Page: config.PageConfig{Width: 20, Height: 25}}
		if err := mergeFlags(&convertFlags{page: pageFlags{size: "b5"}}, cfg); err != nil {
			t.Fatal(err)
		}
		if cfg.Page != (config.PageConfig{Size: "b5"}) {
			t.Errorf("Page = %+v, want preset b5", cfg.Page)
		}
	})
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func TestParseTimeout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    time.Duration
		wantErr bool
	}{
		{"30s", 30 * time.Second, false},
		{"2m30s", 150 * time.Second, false},
		{"0s", 0, true},
		{"-1s", 0, true},
		{"soon", 0, true},
	}

	for _, tt := range tests {
		got, err := parseTimeout(tt.input)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidTimeout) {
				t.Errorf("parseTimeout(%q) error = %v, want ErrInvalidTimeout", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("parseTimeout(%q) = %v, %v, want %v", tt.input, got, err, tt.want)
		}
	}
}

func TestBuildPageSettings(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    config.PageConfig
		wantW   float64
		wantH   float64
		wantErr error
	}{
		{name: "default is book", page: config.PageConfig{}, wantW: 17, wantH: 23},
		{name: "preset", page: config.PageConfig{Size: "A4"}, wantW: 21, wantH: 29.7},
		{name: "custom wins over preset", page: config.PageConfig{Size: "a4", Width: 12, Height: 18}, wantW: 12, wantH: 18},
		{name: "unknown preset", page: config.PageConfig{Size: "letter"}, wantErr: md2docx.ErrInvalidPageSize},
		{name: "custom too small", page: config.PageConfig{Width: 2, Height: 18}, wantErr: md2docx.ErrInvalidPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildPageSettings(&config.Config{Page: tt.page})
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("buildPageSettings() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("buildPageSettings() error = %v", err)
			}
			if got.WidthCm != tt.wantW || got.HeightCm != tt.wantH {
				t.Errorf("buildPageSettings() = %vx%v, want %vx%v", got.WidthCm, got.HeightCm, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestLoadImageRegistry(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "logo.png"), "png")
	writeFile(t, filepath.Join(dir, "logo.jpg"), "jpg")
	writeFile(t, filepath.Join(dir, "photo.JPEG"), "jpeg")
	writeFile(t, filepath.Join(dir, "notes.txt"), "text")
	writeFile(t, filepath.Join(dir, "empty.gif"), "")
	writeFile(t, filepath.Join(dir, "nested", "inner.png"), "inner")

	got, err := loadImageRegistry(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("loadImageRegistry() error = %v", err)
	}

	want := map[string]string{
		"logo.png":   "png",
		"logo.jpg":   "jpg",
		"logo":       "jpg", // first in directory order
		"photo.JPEG": "jpeg",
		"photo":      "jpeg",
	}
	if len(got) != len(want) {
		t.Errorf("registry keys = %v, want %d entries", keys(got), len(want))
	}
	for id, data := range want {
		if string(got[id]) != data {
			t.Errorf("registry[%q] = %q, want %q", id, got[id], data)
		}
	}
}

func TestLoadImageRegistry_Empty(t *testing.T) {
	t.Parallel()

	got, err := loadImageRegistry("", zerolog.Nop())
	if err != nil || got != nil {
		t.Errorf("loadImageRegistry(\"\") = %v, %v, want nil, nil", got, err)
	}

	_, err = loadImageRegistry(filepath.Join(t.TempDir(), "missing"), zerolog.Nop())
	if !errors.Is(err, ErrReadImages) {
		t.Errorf("missing dir error = %v, want ErrReadImages", err)
	}
}

func TestConverterOptions(t *testing.T) {
	t.Parallel()

	off := false
	cfg := &config.Config{
		Theme:    "print",
		Timeout:  "45s",
		Diagrams: config.DiagramsConfig{Enabled: &off, Script: "https://example.com/mermaid.js"},
	}

	conv, err := md2docx.NewConverter(converterOptions(cfg, zerolog.Nop())...)
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	defer conv.Close()

	if conv.ThemeName() != "print" {
		t.Errorf("ThemeName() = %q, want print", conv.ThemeName())
	}
}

func TestResolveInputAndOutput(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Input:  config.InputConfig{DefaultDir: "/docs"},
		Output: config.OutputConfig{DefaultDir: "/out"},
	}

	if got, _ := resolveInputPath([]string{"a.md"}, cfg); got != "a.md" {
		t.Errorf("resolveInputPath(args) = %q, want a.md", got)
	}
	if got, _ := resolveInputPath(nil, cfg); got != "/docs" {
		t.Errorf("resolveInputPath(nil) = %q, want /docs", got)
	}
	if _, err := resolveInputPath(nil, &config.Config{}); !errors.Is(err, ErrNoInput) {
		t.Errorf("resolveInputPath() error = %v, want ErrNoInput", err)
	}

	if got := resolveOutputDir("flag", cfg); got != "flag" {
		t.Errorf("resolveOutputDir(flag) = %q", got)
	}
	if got := resolveOutputDir("", cfg); got != "/out" {
		t.Errorf("resolveOutputDir(\"\") = %q, want /out", got)
	}
}

// keys lists a registry's identifiers for failure messages.
func keys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
