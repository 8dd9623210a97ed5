package textutil

import (
	"strings"
	"unicode"
)

// ImageName turns a row identifier into a file name safe to place in
// img-generated/ and to reference from HTML. Path separators and other
// characters a browser or shell would trip on become dashes; an empty
// identifier maps to "row".
func ImageName(id string) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || unicode.IsSpace(r):
			return '-'
		case r == '?' || r == '"' || r == '<' || r == '>' || r == '|' || r == '#' || r == '%':
			return -1
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(id))
	name = strings.Trim(name, "-.")
	if name == "" {
		return "row"
	}
	return name
}

// Tag lowercases value into a token usable as an ntfy tag: letters,
// digits, '-' and '_' survive, everything else becomes '_'.
func Tag(value string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(value)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('_')
	}
	if out := strings.Trim(b.String(), "_-"); out != "" {
		return out
	}
	return "unknown"
}
