package options

import (
	"strings"
	"unicode"
)

// Slugify lower-cases s and replaces every run of characters that are not
// ASCII letters or digits with sep. Leading and trailing separators are
// stripped. Slugify(Slugify(s, sep), sep) == Slugify(s, sep).
func Slugify(s string, sep rune) string {
	var sb strings.Builder
	sb.Grow(len(s))

	pending := false
	for _, r := range strings.ToLower(s) {
		if isSlugRune(r) {
			if pending && sb.Len() > 0 {
				sb.WriteRune(sep)
			}
			pending = false
			sb.WriteRune(r)
			continue
		}
		pending = true
	}
	return sb.String()
}

func isSlugRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
}

var pythonKeywords = map[string]bool{
	"False": true, "None": true, "True": true, "and": true, "as": true,
	"assert": true, "async": true, "await": true, "break": true, "class": true,
	"continue": true, "def": true, "del": true, "elif": true, "else": true,
	"except": true, "finally": true, "for": true, "from": true, "global": true,
	"if": true, "import": true, "in": true, "is": true, "lambda": true,
	"nonlocal": true, "not": true, "or": true, "pass": true, "raise": true,
	"return": true, "try": true, "while": true, "with": true, "yield": true,
}

// IsPythonIdentifier reports whether name can be imported as a Python package.
func IsPythonIdentifier(name string) bool {
	if name == "" || pythonKeywords[name] {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
