// Package inline splits a block's text into styled segments.
//
// The scanner walks the text once, left to right. At each position the
// first marker pair that matches wins; marker interiors are never
// re-scanned, so `**bold**` inside backticks stays literal. Text outside
// any complete marker pair, including unmatched openers, is plain text.
package inline

import (
	"regexp"
	"strings"
)

// Kind is the style of a Segment.
type Kind int

const (
	Text Kind = iota
	Bold
	Italic
	Underline
	Code
	UIButton
	Shortcut
	Title
)

var kindNames = map[Kind]string{
	Text:      "text",
	Bold:      "bold",
	Italic:    "italic",
	Underline: "underline",
	Code:      "code",
	UIButton:  "ui-button",
	Shortcut:  "shortcut",
	Title:     "title",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Segment is one styled run of text with its markers removed.
type Segment struct {
	Kind Kind
	Text string
}

// markers lists the recognized pairs in precedence order. The submatch
// index of each alternative maps to markerKinds.
var markers = regexp.MustCompile(strings.Join([]string{
	`\*\*(.+?)\*\*`,
	"`([^`]+)`",
	`<u>(.+?)</u>`,
	`【(.+?)】`,
	`\[([^\]\n]+)\]`,
	`『(.+?)』`,
	`\*([^*\n]+)\*`,
}, "|"))

var markerKinds = []Kind{Bold, Code, Underline, UIButton, Shortcut, Title, Italic}

// Parse returns the ordered segments of content. Concatenating the Text
// fields yields Strip(content). An empty content yields no segments.
func Parse(content string) []Segment {
	if content == "" {
		return nil
	}

	var segments []Segment
	last := 0
	for _, m := range markers.FindAllStringSubmatchIndex(content, -1) {
		if m[0] > last {
			segments = append(segments, Segment{Kind: Text, Text: content[last:m[0]]})
		}
		for i, kind := range markerKinds {
			start, end := m[2+2*i], m[3+2*i]
			if start >= 0 {
				segments = append(segments, Segment{Kind: kind, Text: content[start:end]})
				break
			}
		}
		last = m[1]
	}
	if last < len(content) {
		segments = append(segments, Segment{Kind: Text, Text: content[last:]})
	}
	return segments
}

// Strip returns content with every recognized marker pair removed.
func Strip(content string) string {
	var b strings.Builder
	b.Grow(len(content))
	for _, seg := range Parse(content) {
		b.WriteString(seg.Text)
	}
	return b.String()
}
