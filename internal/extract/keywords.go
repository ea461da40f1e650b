package extract

import "strings"

const maxKeywords = 20

// keywords lists skills in order of first appearance, then the generic job
// terms present in the text.
func (p *Parser) keywords(d *document) []string {
	out := []string{}
	seen := map[string]bool{}
	add := func(k string) bool {
		lk := strings.ToLower(k)
		if !seen[lk] {
			seen[lk] = true
			out = append(out, k)
		}
		return len(out) < maxKeywords
	}

	for _, h := range dropContained(firstHits(p.c.skills, d.text)) {
		if !add(h.name) {
			return out
		}
	}
	for _, m := range p.c.keywords {
		if _, ok := first(m.re, d.text); !ok {
			continue
		}
		if !add(m.name) {
			return out
		}
	}
	return out
}
