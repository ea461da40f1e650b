package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// A dash or dot glyph may touch its text; '*' needs a space so "**Bold**"
// is not an item.
var (
	reListPrefix  = regexp.MustCompile(`^\s*(?:[-•·]|\*(?:\s|$)|\d+\.(?:\s|$))\s*`)
	reSentenceEnd = regexp.MustCompile(`[.!?]+(?:\s+|$)`)
)

func isListItem(line string) bool { return reListPrefix.MatchString(line) }

func stripListPrefix(line string) string {
	if loc := reListPrefix.FindStringIndex(line); loc != nil {
		return line[loc[1]:]
	}
	return line
}

// Bullets returns the list items of block in order, prefixes stripped.
// Items without a letter or digit are dropped. No items gives an empty list;
// sentence splitting is left to the caller.
func Bullets(block string) []string {
	out := []string{}
	for _, l := range strings.Split(block, "\n") {
		if !isListItem(l) {
			continue
		}
		if item := strings.TrimSpace(stripListPrefix(l)); hasAlnum(item) {
			out = append(out, item)
		}
	}
	return out
}

// SplitSentences splits block on line breaks and on sentence punctuation
// followed by whitespace. The punctuation is dropped.
func SplitSentences(block string) []string {
	out := []string{}
	for _, l := range strings.Split(block, "\n") {
		for _, part := range reSentenceEnd.Split(l, -1) {
			if part = strings.TrimSpace(part); hasAlnum(part) {
				out = append(out, part)
			}
		}
	}
	return out
}

// listOf is the responsibilities/benefits rule: bullets when present,
// otherwise sentences.
func listOf(block string) []string {
	if strings.TrimSpace(block) == "" {
		return []string{}
	}
	if items := Bullets(block); len(items) > 0 {
		return items
	}
	return SplitSentences(block)
}

func hasAlnum(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsDigit(r) }) >= 0
}
