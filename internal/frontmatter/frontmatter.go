// Package frontmatter detects and strips the optional YAML metadata header
// at the top of a Markdown document.
//
// A header is recognized only when the very first line is a "---"
// delimiter and a later line closes it with another "---". The interior is
// decoded as a YAML mapping. A header that is structurally present but
// holds invalid YAML is still stripped; the metadata is then empty and the
// decode error is returned as a warning.
package frontmatter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
	"github.com/alnah/go-md2docx/internal/yamlutil"
)

// Delimiter opens and closes a front matter header.
const Delimiter = "---"

// ErrMalformed reports a header whose interior is not a YAML mapping.
var ErrMalformed = errors.New("frontmatter: malformed metadata block")

// Result is the outcome of Extract.
type Result struct {
	// Metadata is never nil.
	Metadata block.DocumentMetadata

	// Body is the text following the header, or the whole input when no
	// header was found.
	Body string

	// Offset is the number of bytes stripped from the front of the input.
	Offset int

	// Lines is the number of lines stripped, delimiters included.
	Lines int

	// Found reports whether a delimited header was present.
	Found bool
}

// Extract splits text into metadata and body.
// The returned error is a non-fatal warning wrapping ErrMalformed; the
// Result is usable in every case.
func Extract(text string) (Result, error) {
	res := Result{Metadata: block.DocumentMetadata{}, Body: text}

	first, rest, ok := cutLine(text)
	if !ok || !isDelimiter(first) {
		return res, nil
	}

	offset := len(text) - len(rest)
	interiorStart := offset
	lines := 1
	for rest != "" {
		line, next, hasNewline := cutLine(rest)
		lineStart := len(text) - len(rest)
		lines++
		rest = next

		if !isDelimiter(line) {
			if !hasNewline {
				// Reached end of input without a closing delimiter.
				return res, nil
			}
			continue
		}

		interior := text[interiorStart:lineStart]
		res.Found = true
		res.Offset = len(text) - len(rest)
		res.Lines = lines
		res.Body = rest

		meta, err := decode(interior)
		if err != nil {
			return res, err
		}
		res.Metadata = meta
		return res, nil
	}

	return res, nil
}

func decode(interior string) (block.DocumentMetadata, error) {
	if strings.TrimSpace(interior) == "" {
		return block.DocumentMetadata{}, nil
	}
	m, err := yamlutil.UnmarshalMapping([]byte(interior))
	if err != nil {
		return block.DocumentMetadata{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return block.DocumentMetadata(m), nil
}

// cutLine returns the first line of s without its terminator, the remainder
// after the terminator, and whether a newline was found.
func cutLine(s string) (line, rest string, hasNewline bool) {
	if s == "" {
		return "", "", false
	}
	line, rest, hasNewline = strings.Cut(s, "\n")
	return strings.TrimSuffix(line, "\r"), rest, hasNewline
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t") == Delimiter
}
