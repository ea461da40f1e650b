package extract

import (
	"regexp"
	"strings"
)

// capitalized name: one to five words, each starting upper-case
const capName = `[A-Z][\w&'.+#/-]*(?:\s+[A-Z][\w&'.+#/-]*){0,4}`

var (
	reTitleLabel = regexp.MustCompile(`(?im)^\s*(?:job\s+title|position\s+title|title|position|role)\s*(?::|\s-\s)\s*(.+?)\s*$`)
	reHiring     = regexp.MustCompile(`(?i:\b(?:hiring|seeking|looking\s+for))\s+(?:(?i:an?|the)\s+)?([A-Z][\w&'.+#/-]*(?:\s+[A-Z][\w&'.+#/-]*){0,5})`)

	reCompanyLabel = regexp.MustCompile(`(?im)^\s*(?:company(?:\s+name)?|employer|organi[sz]ation)\s*(?::|\s-\s)\s*(.+?)\s*$`)
	reCompanyComma = regexp.MustCompile(`(?i:\b(?:at|with|for))\s+(` + capName + `)\s*,`)
	reCompanyJoin  = regexp.MustCompile(`(?i:\b(?:at|join))\s+(` + capName + `)\b`)

	reLocationLabel = regexp.MustCompile(`(?im)^\s*(?:job\s+|work\s+)?locations?\s*:\s*(.+?)\s*$`)
	reCityState     = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ .'-][A-Z][a-z]+)*,\s*[A-Z]{2})\b`)
	reBasedIn       = regexp.MustCompile(`(?i:\b(?:based|located)\s+in)\s+(` + capName + `)`)
)

const (
	titleScanLines = 5
	maxTitleLen    = 100
	maxLocationLen = 80
)

func (p *Parser) title(d *document) string {
	if s, ok := d.sections.Get(SectionTitle); ok {
		if v := cleanValue(s.FirstLine()); v != "" {
			return v
		}
	}
	for _, re := range []*regexp.Regexp{reTitleLabel, reHiring} {
		if m := re.FindStringSubmatch(d.text); m != nil {
			if v := cleanValue(m[1]); v != "" {
				return v
			}
		}
	}
	for i, l := range d.lines {
		if i >= titleScanLines {
			break
		}
		if d.sections.IsHeading(i) {
			continue
		}
		if v := cleanValue(stripListPrefix(l)); v != "" && len(v) < maxTitleLen {
			return v
		}
	}
	return ""
}

func (p *Parser) company(d *document) string {
	if s, ok := d.sections.Get(SectionCompany); ok {
		if v := cleanValue(s.FirstLine()); v != "" {
			return v
		}
	}
	for _, re := range []*regexp.Regexp{reCompanyLabel, reCompanyComma, reCompanyJoin} {
		if m := re.FindStringSubmatch(d.text); m != nil {
			if v := cleanValue(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (p *Parser) location(d *document) string {
	if s, ok := d.sections.Get(SectionLocation); ok {
		if v := normalizeLocation(s.FirstLine()); v != "" {
			return v
		}
	}
	if m := reLocationLabel.FindStringSubmatch(d.text); m != nil {
		if v := normalizeLocation(m[1]); v != "" && len(v) <= maxLocationLen {
			return v
		}
	}
	for _, re := range []*regexp.Regexp{reCityState, reBasedIn} {
		if m := re.FindStringSubmatch(d.text); m != nil {
			if v := cleanValue(m[1]); v != "" {
				return v
			}
		}
	}
	return ""
}

// normalizeLocation trims the value and drops repeated comma parts, so
// "Austin, TX, Austin" reads "Austin, TX".
func normalizeLocation(loc string) string {
	loc = cleanValue(loc)
	if loc == "" {
		return ""
	}
	seen := map[string]bool{}
	var out []string
	for _, p := range strings.Split(loc, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		k := strings.ToLower(p)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, p)
	}
	return strings.Join(out, ", ")
}

// cleanValue strips markdown decoration and trailing separators.
func cleanValue(s string) string {
	s = stripDecoration(s)
	s = strings.TrimRight(s, ".,;: ")
	return strings.Join(strings.Fields(s), " ")
}
