package extract

import (
	"regexp"
	"strings"
	"unicode"
)

// Section is one named slice of a posting.
type Section struct {
	Name    SectionName
	Heading string // label as written, markdown stripped
	Inline  string // text after the heading's colon, if any
	Body    string // lines up to the next heading
	Line    int    // heading line index, -1 for the implicit description
}

// Text is the section content with any inline value first.
func (s Section) Text() string {
	switch {
	case s.Inline == "":
		return s.Body
	case s.Body == "":
		return s.Inline
	}
	return s.Inline + "\n" + s.Body
}

// FirstLine is the inline value, else the first non-blank body line.
func (s Section) FirstLine() string {
	if s.Inline != "" {
		return s.Inline
	}
	for _, l := range strings.Split(s.Body, "\n") {
		if l = strings.TrimSpace(stripListPrefix(l)); l != "" {
			return l
		}
	}
	return ""
}

// SectionMap holds the detected sections in document order.
type SectionMap struct {
	Preamble string

	sections []Section
	index    map[SectionName]int
	headings map[int]bool
}

// Get reports a section only when it has content.
func (m SectionMap) Get(name SectionName) (Section, bool) {
	i, ok := m.index[name]
	if !ok {
		return Section{}, false
	}
	s := m.sections[i]
	if strings.TrimSpace(s.Text()) == "" {
		return s, false
	}
	return s, true
}

// text returns the section content or "" when absent.
func (m SectionMap) text(name SectionName) string {
	if s, ok := m.Get(name); ok {
		return s.Text()
	}
	return ""
}

func (m SectionMap) Names() []SectionName {
	out := make([]SectionName, 0, len(m.sections))
	for _, s := range m.sections {
		out = append(out, s.Name)
	}
	return out
}

func (m SectionMap) Sections() []Section {
	out := make([]Section, len(m.sections))
	copy(out, m.sections)
	return out
}

func (m SectionMap) Len() int { return len(m.sections) }

// IsHeading reports whether line i was detected as a heading, including
// headings whose section was later replaced by a duplicate.
func (m SectionMap) IsHeading(i int) bool { return m.headings[i] }

var reDigit = regexp.MustCompile(`\d`)

const (
	maxLabelWords = 5
	maxLabelLen   = 40
	maxLineWords  = 5
	maxLineLen    = 60
)

// headingParts decides whether line looks like a heading at all and splits
// it into label and inline value. Table matching happens afterwards.
func headingParts(line string) (label, inline string, ok bool) {
	t := strings.TrimSpace(line)
	if t == "" || isListItem(t) {
		return "", "", false
	}
	t = stripDecoration(t)
	if t == "" {
		return "", "", false
	}

	if i := strings.IndexByte(t, ':'); i > 0 {
		l := stripDecoration(t[:i])
		if l != "" && len(l) <= maxLabelLen && len(strings.Fields(l)) <= maxLabelWords && !reDigit.MatchString(l) {
			return l, stripDecoration(t[i+1:]), true
		}
	}

	if len(t) > maxLineLen || len(strings.Fields(t)) > maxLineWords {
		return "", "", false
	}
	if reDigit.MatchString(t) || strings.ContainsRune(t, '$') {
		return "", "", false
	}
	if strings.ContainsAny(t[len(t)-1:], ".!?,;") {
		return "", "", false
	}
	return t, "", true
}

func stripDecoration(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return r == '#' || r == '*' || r == '_' || unicode.IsSpace(r)
	})
}

func (c *compiled) classify(label string) (SectionName, bool) {
	low := strings.ToLower(label)
	for _, r := range c.sections {
		if r.re.MatchString(low) {
			return r.name, true
		}
	}
	return "", false
}

// segment partitions normalized text into sections. With no headings the
// whole text becomes the description. A repeated section name keeps its last
// occurrence, but every heading still ends the section before it.
func (c *compiled) segment(text string) SectionMap {
	m := SectionMap{index: map[SectionName]int{}, headings: map[int]bool{}}
	if text == "" {
		return m
	}
	lines := strings.Split(text, "\n")

	var found []Section
	for i, l := range lines {
		label, inline, ok := headingParts(l)
		if !ok {
			continue
		}
		name, ok := c.classify(label)
		if !ok {
			continue
		}
		found = append(found, Section{Name: name, Heading: label, Inline: inline, Line: i})
		m.headings[i] = true
	}

	if len(found) == 0 {
		m.sections = []Section{{Name: SectionDescription, Body: text, Line: -1}}
		m.index[SectionDescription] = 0
		return m
	}

	m.Preamble = strings.TrimSpace(strings.Join(lines[:found[0].Line], "\n"))
	for k := range found {
		end := len(lines)
		if k+1 < len(found) {
			end = found[k+1].Line
		}
		found[k].Body = strings.TrimSpace(strings.Join(lines[found[k].Line+1:end], "\n"))
	}

	last := map[SectionName]int{}
	for k, s := range found {
		last[s.Name] = k
	}
	for k, s := range found {
		if last[s.Name] != k {
			continue
		}
		m.index[s.Name] = len(m.sections)
		m.sections = append(m.sections, s)
	}
	return m
}
