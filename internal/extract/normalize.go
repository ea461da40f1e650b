package extract

import (
	"regexp"
	"strings"
)

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
	reMultiBlank = regexp.MustCompile(`\n{3,}`)
)

var typographic = strings.NewReplacer(
	"\t", " ",
	"\u00a0", " ",
	"\u2018", "'", "\u2019", "'", "\u201b", "'",
	"\u201c", `"`, "\u201d", `"`,
	"\u2013", "-", "\u2014", "-", "\u2212", "-",
	"\u2026", "...",
)

// glyphs outside printable ASCII that later stages look for.
var keptGlyphs = map[rune]bool{
	'•': true, '·': true,
	'€': true, '£': true, '¥': true,
}

// Normalize collapses incidental whitespace and drops unprintable characters.
// Line breaks are kept; more than one blank line collapses into one.
func Normalize(s string) string {
	if s == "" {
		return s
	}
	s = reCRLF.ReplaceAllString(s, "\n")
	s = typographic.Replace(s)
	s = strings.Map(func(r rune) rune {
		switch {
		case r == '\n':
			return r
		case r >= 0x20 && r <= 0x7e:
			return r
		case keptGlyphs[r]:
			return r
		}
		return -1
	}, s)
	s = reMultiSpace.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i := range lines {
		lines[i] = strings.TrimRight(lines[i], " ")
	}
	s = strings.Join(lines, "\n")

	s = reMultiBlank.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// ValueText coerces loosely typed input to text. Anything that is not a
// string, *string or []byte becomes "".
func ValueText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case *string:
		if t == nil {
			return ""
		}
		return *t
	case []byte:
		return string(t)
	default:
		return ""
	}
}
