// Package parser turns Markdown text into an ordered list of blocks.
//
// Two front ends share the block model. Parse is line driven: a Scanner
// walks the text with a small state machine (normal, code fence, table,
// quote) and tries the rules of a Registry in fixed precedence order.
// ParseAST builds a goldmark syntax tree and flattens it into the same
// blocks, including nested lists.
//
// Both are total: any input yields a (possibly empty) block list.
package parser

import (
	"regexp"

	"github.com/rs/zerolog"

	"github.com/alnah/go-md2docx/internal/block"
)

var crlfOrCR = regexp.MustCompile(`\r\n?`)

// Normalize converts "\r\n" and "\r" line endings to "\n".
func Normalize(text string) string {
	return crlfOrCR.ReplaceAllString(text, "\n")
}

type options struct {
	registry   *Registry
	positions  bool
	baseOffset int
	baseLine   int
	logger     zerolog.Logger
}

// Option configures a parse.
type Option func(*options)

// WithRegistry replaces the default rule registry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithPositions attaches source positions to every block.
func WithPositions() Option {
	return func(o *options) {
		o.positions = true
	}
}

// WithOffset shifts reported positions, for text that was cut from a
// larger input (after front matter, for example).
func WithOffset(bytes, lines int) Option {
	return func(o *options) {
		o.baseOffset = bytes
		o.baseLine = lines
	}
}

// WithLogger sets the logger used for skipped syntax.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.registry == nil {
		o.registry = DefaultRegistry()
	}
	return o
}

// Parse tokenizes text with the line-driven scanner.
// Line endings are normalized first; positions refer to the normalized
// text.
func Parse(text string, opts ...Option) []block.Block {
	o := buildOptions(opts)
	lines := splitLines(Normalize(text), o.baseOffset, o.baseLine)
	return newScanner(lines, o.registry, o.positions).run()
}
