// Package diagram turns diagram source text into an embeddable bitmap by
// chaining two external collaborators: a Renderer that produces SVG and a
// Rasterizer that converts SVG to PNG.
package diagram

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/alnah/go-md2docx/internal/imaging"
)

// Sentinel errors for the render chain.
var (
	ErrNoRenderer  = errors.New("no diagram renderer configured")
	ErrRender      = errors.New("diagram render failed")
	ErrRasterize   = errors.New("svg rasterization failed")
	ErrEmptySource = errors.New("empty diagram source")
)

// Chain defaults.
const (
	DefaultScale    = 3.0
	DefaultMaxWidth = 550
)

// Renderer converts diagram source into SVG markup.
type Renderer interface {
	Render(ctx context.Context, source string) (string, error)
}

// Rasterizer converts SVG markup into PNG at the given device scale
// factor over an opaque background.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string, scale float64) ([]byte, error)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, source string) (string, error)

// Render calls f.
func (f RendererFunc) Render(ctx context.Context, source string) (string, error) {
	return f(ctx, source)
}

// RasterizerFunc adapts a function to Rasterizer.
type RasterizerFunc func(ctx context.Context, svg string, scale float64) ([]byte, error)

// Rasterize calls f.
func (f RasterizerFunc) Rasterize(ctx context.Context, svg string, scale float64) ([]byte, error) {
	return f(ctx, svg, scale)
}

// Result is a rasterized diagram. Width and Height are the display size
// in 96 dpi pixels; the bitmap itself is supersampled.
type Result struct {
	Data   []byte
	Width  int
	Height int
}

// Chain renders, rasterizes, and sizes diagrams.
type Chain struct {
	Renderer   Renderer
	Rasterizer Rasterizer
	Scale      float64
	MaxWidth   int
}

// NewChain returns a chain with the default scale and width limit.
func NewChain(r Renderer, z Rasterizer) *Chain {
	return &Chain{Renderer: r, Rasterizer: z, Scale: DefaultScale, MaxWidth: DefaultMaxWidth}
}

// Run executes the chain for one diagram.
func (c *Chain) Run(ctx context.Context, source string) (Result, error) {
	if c == nil || c.Renderer == nil || c.Rasterizer == nil {
		return Result{}, ErrNoRenderer
	}
	if strings.TrimSpace(source) == "" {
		return Result{}, ErrEmptySource
	}
	scale := c.Scale
	if scale <= 0 {
		scale = DefaultScale
	}

	svg, err := c.Renderer.Render(ctx, source)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRender, err)
	}
	if strings.TrimSpace(svg) == "" {
		return Result{}, fmt.Errorf("%w: empty svg", ErrRender)
	}

	raw, err := c.Rasterizer.Rasterize(ctx, svg, scale)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRasterize, err)
	}
	flat, err := imaging.Flatten(raw, color.White)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRasterize, err)
	}

	// Keep the supersampled resolution up to the display limit.
	if c.MaxWidth > 0 {
		flat, err = imaging.Downscale(flat.Data, int(math.Round(float64(c.MaxWidth)*scale)))
		if err != nil {
			return Result{}, fmt.Errorf("%w: %w", ErrRasterize, err)
		}
	}

	w, h := imaging.Fit(float64(flat.Width)/scale, float64(flat.Height)/scale, float64(c.MaxWidth), 0)
	return Result{
		Data:   flat.Data,
		Width:  max(1, int(math.Round(w))),
		Height: max(1, int(math.Round(h))),
	}, nil
}
