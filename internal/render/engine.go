// Package render maps parsed blocks onto a WordprocessingML document.
//
// The Engine walks the blocks strictly in source order and hands each one
// to the Builder registered for its Kind. Builders return zero or more
// body nodes; the engine appends them before moving to the next block, so
// stateful work such as figure numbering and list grouping always sees
// the blocks that came before it.
//
// Failures are block-scoped. A block whose kind has no builder is skipped
// with a warning, an image that cannot be decoded is dropped, and a
// diagram that cannot be rendered becomes a visible error marker. Only
// serialization can fail a whole document.
package render

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/diagram"
	"github.com/alnah/go-md2docx/internal/docx"
)

// Builder renders one block into body nodes.
type Builder interface {
	Build(ctx context.Context, env *Env, b block.Block) []docx.Node
}

// BuilderFunc adapts a function to Builder.
type BuilderFunc func(ctx context.Context, env *Env, b block.Block) []docx.Node

// Build calls f.
func (f BuilderFunc) Build(ctx context.Context, env *Env, b block.Block) []docx.Node {
	return f(ctx, env, b)
}

// Env is what a builder sees of the current generation call.
type Env struct {
	Config   Config
	Theme    *Theme
	State    *State
	Doc      *docx.Document
	Diagrams *diagram.Chain
	Logger   zerolog.Logger

	// Index is the position of the block being built.
	Index int
}

// warn logs a block-scoped problem.
func (e *Env) warn(b block.Block, err error, msg string) {
	e.Logger.Warn().Int("block", e.Index).Str("kind", b.Kind.String()).Err(err).Msg(msg)
}

// Engine is safe for concurrent use; all per-call state lives in Env.
type Engine struct {
	theme    *Theme
	logger   zerolog.Logger
	diagrams *diagram.Chain
	builders map[block.Kind]Builder
}

// Option configures an Engine.
type Option func(*Engine)

// WithTheme sets the theme; nil keeps the default.
func WithTheme(t *Theme) Option {
	return func(e *Engine) {
		if t != nil {
			e.theme = t
		}
	}
}

// WithLogger sets the logger for block-scoped warnings.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithDiagrams sets the diagram chain. Without one, diagram blocks render
// as error markers.
func WithDiagrams(c *diagram.Chain) Option {
	return func(e *Engine) {
		e.diagrams = c
	}
}

// WithBuilder registers b for kind, replacing the built-in builder. A nil
// builder unregisters the kind.
func WithBuilder(kind block.Kind, b Builder) Option {
	return func(e *Engine) {
		if b == nil {
			delete(e.builders, kind)
			return
		}
		e.builders[kind] = b
	}
}

// DefaultBuilders returns the built-in builder for every kind.
func DefaultBuilders() map[block.Kind]Builder {
	return map[block.Kind]Builder{
		block.Heading:      BuilderFunc(buildHeading),
		block.Paragraph:    BuilderFunc(buildParagraph),
		block.Code:         BuilderFunc(buildCode),
		block.BulletItem:   BuilderFunc(buildListItem),
		block.NumberedItem: BuilderFunc(buildListItem),
		block.Table:        BuilderFunc(buildTable),
		block.Rule:         BuilderFunc(buildRule),
		block.Callout:      BuilderFunc(buildCallout),
		block.Quote:        BuilderFunc(buildQuote),
		block.Chat:         BuilderFunc(buildChat),
		block.TOC:          BuilderFunc(buildTOC),
		block.Diagram:      BuilderFunc(buildDiagram),
		block.Image:        BuilderFunc(buildImage),
	}
}

// NewEngine returns an engine with the built-in builders.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		theme:    DefaultTheme(),
		logger:   zerolog.Nop(),
		builders: DefaultBuilders(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Theme returns the engine theme.
func (e *Engine) Theme() *Theme {
	return e.theme
}

// Generate renders blocks into a new document.
func (e *Engine) Generate(ctx context.Context, blocks []block.Block, cfg Config) *docx.Document {
	cfg = cfg.withDefaults()
	doc := e.newDocument(cfg)
	env := &Env{
		Config:   cfg,
		Theme:    e.theme,
		State:    &State{},
		Doc:      doc,
		Diagrams: e.diagrams,
		Logger:   e.logger,
	}

	for i, b := range blocks {
		env.Index = i
		if !b.Kind.IsList() {
			env.State.endList()
		}
		if cfg.CleanCJK {
			b = cleanBlock(b)
		}

		builder, ok := e.builders[b.Kind]
		if !ok {
			e.logger.Warn().Int("block", i).Str("kind", b.Kind.String()).Msg("no builder for block kind, skipped")
			continue
		}
		doc.Append(builder.Build(ctx, env, b)...)
	}
	return doc
}

// Render generates and serializes the document.
func (e *Engine) Render(ctx context.Context, blocks []block.Block, cfg Config) ([]byte, error) {
	doc := e.Generate(ctx, blocks, cfg)
	data, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return data, nil
}

func (e *Engine) newDocument(cfg Config) *docx.Document {
	t := e.theme
	doc := docx.New(docx.NewPage(cfg.WidthCm, cfg.HeightCm))
	doc.Font = *t.font()
	doc.FontSize = t.Sizes.Body
	doc.Styles = []docx.Style{
		{ID: "Heading1", Name: "heading 1", OutlineLevel: 0, Bold: true, Size: t.Sizes.Heading1, Color: t.Colors.Text, KeepNext: true},
		{ID: "Heading2", Name: "heading 2", OutlineLevel: 1, Bold: true, Size: t.Sizes.Heading2, Color: t.Colors.Text, KeepNext: true},
		{ID: "Heading3", Name: "heading 3", OutlineLevel: 2, Bold: true, Size: t.Sizes.Heading3, Color: t.Colors.Text, KeepNext: true},
		{ID: "Caption", Name: "caption", OutlineLevel: -1, Bold: true, Size: t.Sizes.Caption},
	}

	m := cfg.Metadata
	doc.Core = docx.CoreProperties{
		Title:       m.String("title"),
		Subject:     m.String("subject"),
		Creator:     m.String("author"),
		Keywords:    m.String("keywords"),
		Description: m.String("description"),
		Created:     cfg.Now,
		Modified:    cfg.Now,
	}
	return doc
}
