package extract

import (
	"cmp"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

// window is the radius, in bytes, of the context inspected around a match
// for qualifiers and proficiency words.
const window = 50

type span struct{ start, end int }

func (s span) overlaps(o span) bool { return s.start < o.end && o.start < s.end }

// distance is 0 when the spans touch or overlap.
func (s span) distance(o span) int {
	switch {
	case o.end <= s.start:
		return s.start - o.end
	case o.start >= s.end:
		return o.start - s.end
	}
	return 0
}

type matcher struct {
	name string
	re   *regexp.Regexp
}

type levelMatcher struct {
	level string
	re    *regexp.Regexp
}

// compiled is the read-only regexp form of a Vocabulary.
type compiled struct {
	sections    []sectionMatcher
	employment  []matcher
	workModes   []matcher
	education   []matcher
	skills      []matcher
	languages   []matcher
	certs       []matcher
	certWords   *regexp.Regexp
	keywords    []matcher
	qualifiers  []levelMatcher
	skillLevels []levelMatcher
	langLevels  []levelMatcher
	defaultLang string

	clauseWindows bool
}

type sectionMatcher struct {
	name SectionName
	re   *regexp.Regexp
}

func compile(v *Vocabulary) (*compiled, error) {
	c := &compiled{defaultLang: v.DefaultLanguageLevel, clauseWindows: v.ClauseWindows}
	if c.defaultLang == "" {
		c.defaultLang = "conversational"
	}

	for _, r := range v.Sections {
		re, err := regexp.Compile(`(?i)` + r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("section %q: %w", r.Name, err)
		}
		c.sections = append(c.sections, sectionMatcher{name: r.Name, re: re})
	}

	tables := []struct {
		what string
		in   []Term
		out  *[]matcher
	}{
		{"employment type", v.EmploymentTypes, &c.employment},
		{"work mode", v.WorkModes, &c.workModes},
		{"education level", v.EducationLevels, &c.education},
		{"skill", v.Skills, &c.skills},
		{"language", v.Languages, &c.languages},
		{"certification", v.Certifications, &c.certs},
	}
	for _, t := range tables {
		for _, term := range t.in {
			re, err := term.compile()
			if err != nil {
				return nil, fmt.Errorf("%s %q: %w", t.what, term.Name, err)
			}
			*t.out = append(*t.out, matcher{name: term.Name, re: re})
		}
	}

	for _, w := range v.GenericKeywords {
		re, err := Term{Name: w}.compile()
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", w, err)
		}
		c.keywords = append(c.keywords, matcher{name: w, re: re})
	}

	if len(v.CertificationWords) > 0 {
		c.certWords = wordsRegexp(v.CertificationWords)
	}
	if len(v.Preferred) > 0 {
		c.qualifiers = append(c.qualifiers, levelMatcher{level: qualPreferred, re: wordsRegexp(v.Preferred)})
	}
	if len(v.Required) > 0 {
		c.qualifiers = append(c.qualifiers, levelMatcher{level: qualRequired, re: wordsRegexp(v.Required)})
	}
	c.skillLevels = levelMatchers(v.SkillLevels)
	c.langLevels = levelMatchers(v.LanguageLevels)
	return c, nil
}

func levelMatchers(rules []LevelRule) []levelMatcher {
	var out []levelMatcher
	for _, r := range rules {
		if len(r.Words) == 0 {
			continue
		}
		out = append(out, levelMatcher{level: r.Level, re: wordsRegexp(r.Words)})
	}
	return out
}

func (t Term) compile() (*regexp.Regexp, error) {
	body := t.Pattern
	if body == "" {
		body = quoteWords(t.Name)
	}
	return wholeWord(body, !t.CaseSensitive)
}

// wholeWord wraps body so it only matches when not embedded in a larger word.
// RE2 has no lookaround, so the boundaries are consumed and the term itself is
// capture group 1. '+', '#' and '.' count as word characters on the left so
// "C++" and ".NET" do not match inside other tokens.
func wholeWord(body string, fold bool) (*regexp.Regexp, error) {
	expr := `(?:^|[^\p{L}\p{N}_+#.])(` + body + `)(?:$|[^\p{L}\p{N}_+#])`
	if fold {
		expr = `(?i)` + expr
	}
	return regexp.Compile(expr)
}

// wordsRegexp is one case-insensitive whole-word alternation; longer words
// are tried first so "must have" wins over "must".
func wordsRegexp(words []string) *regexp.Regexp {
	sorted := slices.Clone(words)
	slices.SortStableFunc(sorted, func(a, b string) int { return cmp.Compare(len(b), len(a)) })
	alts := make([]string, 0, len(sorted))
	for _, w := range sorted {
		alts = append(alts, quoteWords(w))
	}
	// quoted input always compiles
	re, _ := wholeWord(strings.Join(alts, "|"), true)
	return re
}

// quoteWords escapes s and lets any run of spaces match any whitespace.
func quoteWords(s string) string {
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = regexp.QuoteMeta(f)
	}
	return strings.Join(fields, `\s+`)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '#'
}

// findAll returns the spans of group 1 of a wholeWord regexp inside
// text[lo:hi]. The search resumes at the end of each term, not the end of the
// consumed boundary, so adjacent terms ("Go,Rust") are both found.
func findAll(re *regexp.Regexp, text string, lo, hi int) []span {
	lo = max(lo, 0)
	hi = min(hi, len(text))
	var out []span
	for pos := lo; pos < hi; {
		m := re.FindStringSubmatchIndex(text[pos:hi])
		if m == nil || m[2] < 0 {
			break
		}
		s, e := pos+m[2], pos+m[3]
		if !boundaryBefore(text, s, pos) || !boundaryAfter(text, e, hi) {
			// matched only because the slice edge looked like ^ or $
			pos = s + 1
			continue
		}
		out = append(out, span{s, e})
		if e == s {
			e++
		}
		pos = e
	}
	return out
}

func first(re *regexp.Regexp, text string) (span, bool) {
	if spans := findAll(re, text, 0, len(text)); len(spans) > 0 {
		return spans[0], true
	}
	return span{}, false
}

func boundaryBefore(text string, s, lo int) bool {
	if s != lo || s == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:s])
	return !isWordRune(r) && r != '.'
}

func boundaryAfter(text string, e, hi int) bool {
	if e != hi || e >= len(text) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(text[e:])
	return !isWordRune(r)
}

var reBreak = regexp.MustCompile(`[.!?](?:\s|$)|\n`)

// around is the context inspected for at: window bytes on either side,
// cut at line and sentence breaks when clause windows are enabled.
func (c *compiled) around(text string, at span) (int, int) {
	lo, hi := max(0, at.start-window), min(len(text), at.end+window)
	if !c.clauseWindows {
		return lo, hi
	}
	if lo < at.start {
		if ms := reBreak.FindAllStringIndex(text[lo:at.start], -1); len(ms) > 0 {
			lo += ms[len(ms)-1][1]
		}
	}
	if at.end < hi {
		if m := reBreak.FindStringIndex(text[at.end:hi]); m != nil {
			hi = at.end + m[0]
		}
	}
	return lo, hi
}

// nearest returns the level whose word occurs closest to at within its
// window. On equal distance the earlier rule wins.
func (c *compiled) nearest(text string, at span, rules []levelMatcher) (string, bool) {
	lo, hi := c.around(text, at)
	best, bestDist := "", -1
	for _, r := range rules {
		for _, s := range findAll(r.re, text, lo, hi) {
			if d := at.distance(s); bestDist < 0 || d < bestDist {
				best, bestDist = r.level, d
			}
		}
	}
	return best, bestDist >= 0
}

const (
	qualPreferred = "preferred"
	qualRequired  = "required"
)

// required applies the windowed qualifier rule: the nearest qualifier
// decides, and no qualifier at all means required.
func (c *compiled) required(text string, at span) bool {
	q, ok := c.nearest(text, at, c.qualifiers)
	return !ok || q != qualPreferred
}

func (c *compiled) mentionsPreferred(text string) bool {
	for _, q := range c.qualifiers {
		if q.level == qualPreferred {
			_, ok := first(q.re, text)
			return ok
		}
	}
	return false
}

// firstTerm returns the first term in table order that occurs in text.
func firstTerm(ms []matcher, text string) (string, bool) {
	for _, m := range ms {
		if _, ok := first(m.re, text); ok {
			return m.name, true
		}
	}
	return "", false
}

type hit struct {
	name string
	span
}

// firstHits returns each term's first occurrence, ordered by position.
func firstHits(ms []matcher, text string) []hit {
	var out []hit
	for _, m := range ms {
		if s, ok := first(m.re, text); ok {
			out = append(out, hit{name: m.name, span: s})
		}
	}
	slices.SortStableFunc(out, func(a, b hit) int { return cmp.Compare(a.start, b.start) })
	return out
}
