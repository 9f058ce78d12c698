package parser

import (
	"strings"

	"github.com/alnah/go-md2docx/internal/block"
)

// fence is an opening code fence.
type fence struct {
	char        byte
	length      int
	language    string
	lineNumbers *bool
}

// parseFenceOpen recognizes ``` and ~~~ fences of three or more characters.
// The info string is "lang" or "lang:modifier".
func parseFenceOpen(line string) (fence, bool) {
	t := strings.TrimLeft(line, " \t")
	if len(t) < 3 || (t[0] != '`' && t[0] != '~') {
		return fence{}, false
	}
	n := 0
	for n < len(t) && t[n] == t[0] {
		n++
	}
	if n < 3 {
		return fence{}, false
	}
	info := strings.TrimSpace(t[n:])
	if t[0] == '`' && strings.ContainsRune(info, '`') {
		return fence{}, false
	}

	f := fence{char: t[0], length: n}
	f.language, f.lineNumbers = parseFenceInfo(info)
	return f, true
}

// closedBy reports whether line closes the fence: same character, at
// least as long, nothing but whitespace after.
func (f fence) closedBy(line string) bool {
	t := strings.TrimSpace(line)
	if len(t) < f.length || f.length == 0 {
		return false
	}
	return strings.Count(t, string(f.char)) == len(t)
}

// parseFenceInfo splits "json:ln" into the language and the line-number
// override. Unknown modifiers leave the override nil.
func parseFenceInfo(info string) (string, *bool) {
	if fields := strings.Fields(info); len(fields) > 0 {
		info = fields[0]
	}
	lang, modifier, found := strings.Cut(info, ":")
	lang = strings.TrimSpace(lang)
	if !found {
		return lang, nil
	}
	switch strings.ToLower(strings.TrimSpace(modifier)) {
	case "ln", "line", "yes":
		return lang, block.BoolPtr(true)
	case "no-ln", "plain", "no":
		return lang, block.BoolPtr(false)
	}
	return lang, nil
}
