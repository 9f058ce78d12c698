package md2docx

import (
	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/frontmatter"
	"github.com/alnah/go-md2docx/internal/parser"
)

type parseConfig struct {
	positions bool
	ast       bool
	logger    zerolog.Logger
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

// WithSourcePositions attaches a Position to every block. Offsets refer
// to the input with line endings normalized, front matter included.
func WithSourcePositions() ParseOption {
	return func(c *parseConfig) {
		c.positions = true
	}
}

// WithASTParser parses through a goldmark syntax tree instead of the line
// scanner. Nested lists keep their depth in Meta.Nesting.
func WithASTParser() ParseOption {
	return func(c *parseConfig) {
		c.ast = true
	}
}

// WithParseLogger sets the logger for skipped syntax and malformed front
// matter.
func WithParseLogger(l zerolog.Logger) ParseOption {
	return func(c *parseConfig) {
		c.logger = l
	}
}

// Parse extracts front matter and tokenizes the rest of text into blocks.
// It never fails: malformed front matter is stripped and reported in
// Warnings with empty Metadata.
func Parse(text string, opts ...ParseOption) *ParseResult {
	cfg := parseConfig{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&cfg)
	}

	res := &ParseResult{}
	fm, err := frontmatter.Extract(parser.Normalize(text))
	if err != nil {
		cfg.logger.Warn().Err(err).Msg("front matter ignored")
		res.Warnings = append(res.Warnings, err)
	}
	res.Metadata = fm.Metadata

	popts := []parser.Option{parser.WithLogger(cfg.logger)}
	if cfg.positions {
		popts = append(popts, parser.WithPositions(), parser.WithOffset(fm.Offset, fm.Lines))
	}
	if cfg.ast {
		res.Blocks = parser.ParseAST(fm.Body, popts...)
	} else {
		res.Blocks = parser.Parse(fm.Body, popts...)
	}
	return res
}

// HasDiagrams reports whether any block needs the diagram renderer.
func (r *ParseResult) HasDiagrams() bool {
	for _, b := range r.Blocks {
		if b.Kind == block.Diagram {
			return true
		}
	}
	return false
}
