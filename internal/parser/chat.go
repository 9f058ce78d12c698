package parser

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"

	"github.com/alnah/go-md2docx/internal/block"
)

// Built-in chat roles.
const (
	RoleUser = "User"
	RoleAI   = "AI"
)

// Custom speaker forms. The marker picks the bubble alignment. Speaker
// names are short and quote-free, and the message never opens with a
// quote, so quoted prose such as `it says "::" here` stays a paragraph.
var speakerPatterns = []struct {
	pattern *regexp.Regexp
	align   block.Alignment
}{
	{regexp.MustCompile(`^([^"“”]{1,32}?)\s*:":\s*([^"“”\s].*)?$`), block.AlignCenter},
	{regexp.MustCompile(`^([^"“”]{1,32}?)\s*::"\s*([^"“”\s].*)?$`), block.AlignRight},
	{regexp.MustCompile(`^([^"“”]{1,32}?)\s*"::\s*([^"“”\s].*)?$`), block.AlignLeft},
}

type chat struct {
	role    string
	content string
	align   block.Alignment
}

// parseChat recognizes "User: text", "AI：text", "User（note）text",
// "User(note): text" and the custom speaker forms.
func parseChat(line string) (chat, bool) {
	t := strings.TrimSpace(line)
	if t == "" {
		return chat{}, false
	}
	if c, ok := parseRoleChat(t); ok {
		return c, true
	}
	for _, sp := range speakerPatterns {
		m := sp.pattern.FindStringSubmatch(t)
		if m == nil {
			continue
		}
		role := normalizeRole(m[1])
		if role == "" {
			continue
		}
		return chat{role: role, content: strings.TrimSpace(m[2]), align: sp.align}, true
	}
	return chat{}, false
}

// parseRoleChat handles the User and AI prefixes. The role token is folded
// to half-width so "ＡＩ：" and "AI:" are equivalent. The separator follows
// the role directly: a colon, a full-width note "（...）", or an ASCII note
// "(...)" closed by a colon. Prose like "AI (artificial intelligence) is"
// or "User(s) must" is not chat.
func parseRoleChat(t string) (chat, bool) {
	idx := strings.IndexAny(t, ":：(（")
	if idx <= 0 {
		return chat{}, false
	}

	var role string
	switch strings.ToLower(width.Fold.String(t[:idx])) {
	case "user":
		role = RoleUser
	case "ai":
		role = RoleAI
	default:
		return chat{}, false
	}

	rest := t[idx:]
	switch {
	case strings.HasPrefix(rest, ":"), strings.HasPrefix(rest, "："):
		_, rest, _ = cutFirstRune(rest)
	case strings.HasPrefix(rest, "（"):
		end := strings.Index(rest, "）")
		if end < 0 {
			return chat{}, false
		}
		rest = rest[end+len("）"):]
	default:
		end := strings.IndexAny(rest, ")）")
		if end < 0 {
			return chat{}, false
		}
		_, after, _ := cutFirstRune(rest[end:])
		sep, body, ok := cutFirstRune(after)
		if !ok || (sep != ":" && sep != "：") {
			return chat{}, false
		}
		rest = body
	}

	align := block.AlignLeft
	if role == RoleUser {
		align = block.AlignRight
	}
	return chat{role: role, content: strings.TrimSpace(rest), align: align}, true
}

func normalizeRole(s string) string {
	return strings.TrimSpace(width.Fold.String(s))
}

func cutFirstRune(s string) (string, string, bool) {
	for i := range s {
		if i > 0 {
			return s[:i], s[i:], true
		}
	}
	return s, "", s != ""
}
