package md2docx

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/diagram"
)

// DiagramRenderer turns Mermaid source into SVG markup.
type DiagramRenderer = diagram.Renderer

// Rasterizer turns SVG markup into PNG bytes at a device scale factor.
type Rasterizer = diagram.Rasterizer

// DiagramRendererFunc adapts a function to DiagramRenderer.
type DiagramRendererFunc = diagram.RendererFunc

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc = diagram.RasterizerFunc

// defaultTimeout is used when no timeout is specified.
const defaultTimeout = 30 * time.Second

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout       time.Duration
	logger        zerolog.Logger
	themeInput    string
	assetPath     string
	assetLoader   AssetLoader
	renderer      DiagramRenderer
	rasterizer    Rasterizer
	noDiagrams    bool
	clock         func() time.Time
	mermaidScript string
}

// WithTimeout bounds each Generate call, diagram rendering included.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("md2docx: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithLogger sets the logger for block-scoped warnings. The default
// discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.cfg.logger = l
	}
}

// WithTheme selects a theme by name ("print") or by file path
// ("./brand.yaml"). Names resolve through the asset loader.
func WithTheme(nameOrPath string) Option {
	return func(c *Converter) {
		c.cfg.themeInput = nameOrPath
	}
}

// WithAssetPath lets {dir}/themes/{name}.yaml and
// {dir}/templates/{name}.html override the embedded assets.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader replaces asset loading entirely. It takes precedence
// over WithAssetPath.
func WithAssetLoader(l AssetLoader) Option {
	return func(c *Converter) {
		c.cfg.assetLoader = l
	}
}

// WithDiagramRenderer replaces the headless browser for Mermaid to SVG.
func WithDiagramRenderer(r DiagramRenderer) Option {
	return func(c *Converter) {
		c.cfg.renderer = r
	}
}

// WithRasterizer replaces the headless browser for SVG to PNG.
func WithRasterizer(r Rasterizer) Option {
	return func(c *Converter) {
		c.cfg.rasterizer = r
	}
}

// WithoutDiagrams disables diagram rendering; diagram blocks become
// visible error markers and no browser is ever launched.
func WithoutDiagrams() Option {
	return func(c *Converter) {
		c.cfg.noDiagrams = true
	}
}

// WithClock sets the source of the created and modified document
// properties. A clock returning the zero time omits them.
func WithClock(now func() time.Time) Option {
	return func(c *Converter) {
		if now != nil {
			c.cfg.clock = now
		}
	}
}

// WithMermaidScript sets the URL the diagram host page loads Mermaid from.
func WithMermaidScript(url string) Option {
	return func(c *Converter) {
		if url != "" {
			c.cfg.mermaidScript = url
		}
	}
}
