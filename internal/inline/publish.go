package inline

import (
	"regexp"
	"strings"

	"golang.org/x/text/width"
)

const han = `\x{4e00}-\x{9fa5}`

var (
	hanSpaceLatin = regexp.MustCompile(`([` + han + `])\s+([a-zA-Z0-9])`)
	latinSpaceHan = regexp.MustCompile(`([a-zA-Z0-9])\s+([` + han + `])`)
	hasHan        = regexp.MustCompile(`[` + han + `]`)

	// A comma after a letter or Han character; digits keep "1,000" intact.
	commaAfterWord = regexp.MustCompile(`([` + han + `a-zA-Z]),\s*`)
	// Other punctuation converts only directly after a Han character so
	// that "http://" and "a?b" in Latin text survive.
	punctAfterHan = regexp.MustCompile(`([` + han + `])([;!?:])\s*`)
)

// CleanForPublishing applies CJK typesetting conventions to text:
// spaces between Han characters and Latin letters or digits are removed,
// and ASCII punctuation in sentences containing Han characters becomes
// full-width. URLs and strings shorter than two characters are returned
// unchanged.
func CleanForPublishing(text string) string {
	if strings.HasPrefix(text, "http") || len([]rune(text)) < 2 {
		return text
	}

	text = hanSpaceLatin.ReplaceAllString(text, "$1$2")
	text = latinSpaceHan.ReplaceAllString(text, "$1$2")

	if !hasHan.MatchString(text) {
		return text
	}

	text = commaAfterWord.ReplaceAllStringFunc(text, func(m string) string {
		sub := commaAfterWord.FindStringSubmatch(m)
		return sub[1] + width.Widen.String(",")
	})
	text = punctAfterHan.ReplaceAllStringFunc(text, func(m string) string {
		sub := punctAfterHan.FindStringSubmatch(m)
		return sub[1] + width.Widen.String(sub[2])
	})
	return text
}
