package md2docx

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/fileutil"
	"github.com/alnah/go-md2docx/internal/render"
)

// Converter orchestrates the Markdown-to-DOCX pipeline.
// Create with NewConverter(), use Convert() for conversion, and Close() when done.
//
// A Converter may be used from several goroutines; each call owns its own
// counters. The diagram browser is shared and started on first use.
type Converter struct {
	cfg     converterConfig
	loader  AssetLoader
	engine  *render.Engine
	browser *rodBrowser
}

// NewConverter creates a Converter with default configuration.
// Use options to customize behavior (e.g., WithTimeout, WithTheme, WithoutDiagrams).
// Returns error if the asset path or the theme cannot be loaded.
func NewConverter(opts ...Option) (*Converter, error) {
	c := &Converter{
		cfg: converterConfig{
			timeout:       defaultTimeout,
			logger:        zerolog.Nop(),
			clock:         time.Now,
			mermaidScript: DefaultMermaidScript,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	switch {
	case c.cfg.assetLoader != nil:
		c.loader = c.cfg.assetLoader
	default:
		loader, err := NewAssetLoader(c.cfg.assetPath)
		if err != nil {
			return nil, err
		}
		c.loader = loader
	}

	theme, err := c.resolveTheme()
	if err != nil {
		return nil, err
	}

	chain, err := c.diagramChain()
	if err != nil {
		return nil, err
	}

	c.engine = render.NewEngine(
		render.WithTheme(theme),
		render.WithLogger(c.cfg.logger),
		render.WithDiagrams(chain),
	)
	return c, nil
}

// resolveTheme turns the theme input (name or path) into a Theme.
func (c *Converter) resolveTheme() (*render.Theme, error) {
	input := c.cfg.themeInput
	if input == "" {
		return render.DefaultTheme(), nil
	}

	var (
		data []byte
		err  error
	)
	if fileutil.IsFilePath(input) {
		data, err = os.ReadFile(input) // #nosec G304 -- user-provided path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrThemeNotFound, err)
		}
	} else {
		data, err = c.loader.LoadTheme(input)
		if err != nil {
			return nil, fmt.Errorf("loading theme %q: %w", input, convertAssetError(err))
		}
	}

	theme, err := render.ParseTheme(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTheme, input, err)
	}
	return theme, nil
}

// diagramChain wires the renderer and rasterizer, falling back to the
// headless browser for whichever one was not supplied.
func (c *Converter) diagramChain() (*diagram.Chain, error) {
	if c.cfg.noDiagrams {
		return nil, nil
	}

	renderer, rasterizer := c.cfg.renderer, c.cfg.rasterizer
	if renderer == nil || rasterizer == nil {
		pages, err := loadHostPages(c.loader, c.cfg.mermaidScript)
		if err != nil {
			return nil, err
		}
		c.browser = newRodBrowser(pages, c.cfg.timeout)
		if renderer == nil {
			renderer = c.browser
		}
		if rasterizer == nil {
			rasterizer = c.browser
		}
	}
	return diagram.NewChain(renderer, rasterizer), nil
}

// ThemeName returns the name of the resolved theme.
func (c *Converter) ThemeName() string {
	return c.engine.Theme().Name
}

// Parse is Parse with the converter's logger.
func (c *Converter) Parse(text string, opts ...ParseOption) *ParseResult {
	return Parse(text, append([]ParseOption{WithParseLogger(c.cfg.logger)}, opts...)...)
}

// Generate renders blocks into a .docx container. Blocks are built in
// order; a block that cannot be rendered degrades on its own and never
// fails the call. Only configuration and serialization errors are returned.
func (c *Converter) Generate(ctx context.Context, blocks []Block, cfg GenerateConfig) ([]byte, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.timeout)
	defer cancel()

	data, err := c.engine.Render(ctx, blocks, render.Config{
		WidthCm:          cfg.WidthCm,
		HeightCm:         cfg.HeightCm,
		ShowLineNumbers:  cfg.ShowLineNumbers,
		Images:           cfg.Images,
		Metadata:         cfg.Metadata,
		CleanCJK:         cfg.CleanCJK,
		FigureLabel:      cfg.Layout.FigureLabel,
		TOCTitle:         cfg.Layout.TOCTitle,
		MaxImageWidthCm:  cfg.Layout.MaxImageWidthCm,
		MaxImageHeightCm: cfg.Layout.MaxImageHeightCm,
		Now:              c.cfg.clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return data, nil
}

// Convert parses input.Markdown and generates the document.
// Recovers from internal panics to prevent crashes from propagating to callers.
func (c *Converter) Convert(ctx context.Context, input Input) (result *ConvertResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	if err := validateInput(input); err != nil {
		return nil, err
	}

	parsed := c.Parse(input.Markdown)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page := input.Page
	if page == nil {
		page = DefaultPageSettings()
	}
	data, err := c.Generate(ctx, parsed.Blocks, GenerateConfig{
		WidthCm:         page.WidthCm,
		HeightCm:        page.HeightCm,
		ShowLineNumbers: input.ShowLineNumbers,
		Images:          input.Images,
		Metadata:        parsed.Metadata,
		CleanCJK:        input.CleanCJK,
		Layout:          input.Layout,
	})
	if err != nil {
		return nil, err
	}

	return &ConvertResult{
		DOCX:     data,
		Blocks:   parsed.Blocks,
		Metadata: parsed.Metadata,
		Warnings: parsed.Warnings,
	}, nil
}

// StartBrowser launches the diagram browser now instead of at the first
// diagram, so that a missing Chrome surfaces as ErrBrowserConnect rather
// than as error markers. It does nothing when diagrams are disabled or
// both collaborators were supplied.
func (c *Converter) StartBrowser(ctx context.Context) error {
	if c.browser == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := c.browser.ensureBrowser()
	return err
}

// Close releases resources (headless Chrome browser).
func (c *Converter) Close() error {
	if c.browser != nil {
		return c.browser.Close()
	}
	return nil
}

// validateInput checks that required fields are present and valid.
//
// This is a TRUST BOUNDARY for direct library users who build Input manually.
// CLI users have their input validated earlier by Config.Validate() at config load time.
func validateInput(input Input) error {
	if input.Markdown == "" {
		return ErrEmptyMarkdown
	}
	if err := input.Page.Validate(); err != nil {
		return err
	}
	return validateImages(input.Images)
}
