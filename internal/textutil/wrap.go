package textutil

import "strings"

// DefaultWrapWidth is the line width used for mail bodies.
const DefaultWrapWidth = 70

// Wrap reflows text into lines of at most width columns, breaking on
// whitespace. Runs of whitespace collapse to a single space. Words longer
// than width are split across lines.
func Wrap(text string, width int) string {
	if width <= 0 {
		width = DefaultWrapWidth
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}

	var b strings.Builder
	lineLen := 0
	for _, word := range words {
		for len(word) > width {
			if lineLen > 0 {
				b.WriteByte('\n')
				lineLen = 0
			}
			b.WriteString(word[:width])
			b.WriteByte('\n')
			word = word[width:]
		}
		if word == "" {
			continue
		}
		switch {
		case lineLen == 0:
		case lineLen+1+len(word) > width:
			b.WriteByte('\n')
			lineLen = 0
		default:
			b.WriteByte(' ')
			lineLen++
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return strings.TrimRight(b.String(), "\n")
}
