package extract

import (
	"cmp"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"jdparse-engine/internal/domain"
)

var (
	reFieldIn = regexp.MustCompile(`(?i)\bin\s+([A-Za-z][\w&/+#' -]*)`)
	reClause  = regexp.MustCompile(`[.;!?(\n]`)

	// a phrase ends at the first of these words
	reStopWord = regexp.MustCompile(`(?i)\s+(?:preferred|required|or|and|with|from|a\s+plus|is|are|would|nice|desired|desirable|strongly|ideally|plus|mandatory|essential|equivalent|degree|as|at|for|to)\b`)

	reYearsRange   = regexp.MustCompile(`(?i)\b(\d{1,2})\s*(?:-|to)\s*\d{1,2}\s*\+?\s*(?:years?|yrs?)\b`)
	reYearsPlus    = regexp.MustCompile(`(?i)\b(\d{1,2})\s*\+\s*(?:years?|yrs?)\b`)
	reYearsMinimum = regexp.MustCompile(`(?i)\bminimum\s+(?:of\s+)?(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
	reYearsAtLeast = regexp.MustCompile(`(?i)\bat\s+least\s+(\d{1,2})\s*\+?\s*(?:years?|yrs?)\b`)
	reYearsPlain   = regexp.MustCompile(`(?i)\b(\d{1,2})\s+(?:years?|yrs?)\b`)

	reExperienceWord = regexp.MustCompile(`(?i)\bexperience\b`)
	reExperienceIn   = regexp.MustCompile(`(?i)^[^.;\n]{0,40}?\bexperience\s+(?:in|with|using|on)\s+([^,.;:()\n]+)`)
	reExperienceOf   = regexp.MustCompile(`(?i)^\s+of\s+([A-Za-z][\w+#/ -]{0,40}?)\s+experience\b`)
	reFieldFiller    = regexp.MustCompile(`(?i)^(?:(?:professional|relevant|related|proven|prior|hands-on|industry|work|commercial|practical|direct)\s+)+`)

	reToken  = regexp.MustCompile(`\S+`)
	reCertIn = regexp.MustCompile(`(?i)^\s+(?:in|as\s+an?|as)\s+([A-Za-z][\w&/+#' -]*)`)
)

// plain "N years" counts only when experience is mentioned shortly after
const plainYearsReach = 50

// words that cannot start the name built from context before a generic
// certification word
var certLeadStop = map[string]bool{
	"a": true, "an": true, "the": true, "and": true, "or": true, "with": true,
	"have": true, "has": true, "hold": true, "holds": true, "holding": true,
	"must": true, "any": true, "possess": true, "of": true, "is": true,
	"are": true, "required": true, "preferred": true, "relevant": true,
}

// requirementScope joins the requirements section with the secondary
// sections, falling back to the whole text.
func (d *document) requirementScope(secondary ...SectionName) string {
	var parts []string
	for _, name := range append([]SectionName{SectionRequirements}, secondary...) {
		if t := strings.TrimSpace(d.sections.text(name)); t != "" {
			parts = append(parts, t)
		}
	}
	if len(parts) == 0 {
		return d.text
	}
	return strings.Join(parts, "\n")
}

func (p *Parser) education(d *document) []domain.EducationRequirement {
	content := d.requirementScope(SectionEducation)
	// one flag for the whole content, not per match
	required := !p.c.mentionsPreferred(content)

	out := []domain.EducationRequirement{}
	for _, m := range p.c.education {
		s, ok := first(m.re, content)
		if !ok {
			continue
		}
		out = append(out, domain.EducationRequirement{
			Level:    m.name,
			Field:    fieldAfter(content, s.start),
			Required: required,
		})
	}
	return out
}

// fieldAfter finds an "in <field>" phrase in the clause starting at pos.
func fieldAfter(text string, pos int) string {
	rest := trimClause(text[pos:min(len(text), pos+80)])
	m := reFieldIn.FindStringSubmatch(rest)
	if m == nil {
		return ""
	}
	return cutPhrase(m[1])
}

// trimClause cuts rest at the first clause boundary after its first token,
// so "B.S. in Physics" keeps its dotted abbreviation.
func trimClause(rest string) string {
	head := strings.IndexFunc(rest, func(r rune) bool { return r == ' ' || r == '\n' })
	if head < 0 {
		return rest
	}
	if loc := reClause.FindStringIndex(rest[head:]); loc != nil {
		return rest[:head+loc[0]]
	}
	return rest
}

// cutPhrase shortens a captured phrase at the first stop word or separator.
func cutPhrase(s string) string {
	if i := strings.IndexAny(s, ",:;()"); i >= 0 {
		s = s[:i]
	}
	if loc := reStopWord.FindStringIndex(s); loc != nil {
		s = s[:loc[0]]
	}
	return strings.TrimSpace(strings.TrimRight(s, " -/&"))
}

type yearsMatch struct {
	years int
	span
}

func (p *Parser) experience(d *document) []domain.ExperienceRequirement {
	content := d.requirementScope(SectionExperience)

	var found []yearsMatch
	for _, re := range []*regexp.Regexp{reYearsRange, reYearsPlus, reYearsMinimum, reYearsAtLeast, reYearsPlain} {
		for _, m := range re.FindAllStringSubmatchIndex(content, -1) {
			s := span{m[0], m[1]}
			if slices.ContainsFunc(found, func(y yearsMatch) bool { return y.overlaps(s) }) {
				continue
			}
			if re == reYearsPlain && !experienceFollows(content, s.end) {
				continue
			}
			n, err := strconv.Atoi(content[m[2]:m[3]])
			if err != nil {
				continue
			}
			found = append(found, yearsMatch{years: n, span: s})
		}
	}
	slices.SortFunc(found, func(a, b yearsMatch) int { return cmp.Compare(a.start, b.start) })

	out := []domain.ExperienceRequirement{}
	for _, y := range found {
		field, end := experienceField(content, y.end)
		out = append(out, domain.ExperienceRequirement{
			Years:    y.years,
			Field:    field,
			Required: p.c.required(content, span{y.start, max(y.end, end)}),
		})
	}
	return out
}

func experienceFollows(text string, pos int) bool {
	rest := text[pos:min(len(text), pos+plainYearsReach)]
	if i := strings.IndexAny(rest, ".\n"); i >= 0 {
		rest = rest[:i]
	}
	return reExperienceWord.MatchString(rest)
}

// experienceField reads "experience in X" or "of X experience" right after
// a years match and returns the field and the offset where its phrase ends.
func experienceField(text string, pos int) (string, int) {
	rest := text[pos:min(len(text), pos+120)]
	for _, re := range []*regexp.Regexp{reExperienceIn, reExperienceOf} {
		m := re.FindStringSubmatchIndex(rest)
		if m == nil {
			continue
		}
		field := cutPhrase(reFieldFiller.ReplaceAllString(rest[m[2]:m[3]], ""))
		if field == "" {
			continue
		}
		return field, pos + m[3]
	}
	return "", pos
}

func (p *Parser) skills(d *document) []domain.SkillRequirement {
	content := d.requirementScope(SectionSkills)
	out := []domain.SkillRequirement{}
	for _, h := range dropContained(firstHits(p.c.skills, content)) {
		level, _ := p.c.nearest(content, h.span, p.c.skillLevels)
		out = append(out, domain.SkillRequirement{
			Name:     h.name,
			Level:    domain.SkillLevel(level),
			Required: p.c.required(content, h.span),
		})
	}
	return out
}

func (p *Parser) languages(d *document) []domain.LanguageRequirement {
	content := d.requirementScope(SectionSkills)
	out := []domain.LanguageRequirement{}
	for _, h := range firstHits(p.c.languages, content) {
		level, ok := p.c.nearest(content, h.span, p.c.langLevels)
		if !ok {
			level = p.c.defaultLang
		}
		out = append(out, domain.LanguageRequirement{
			Name:        h.name,
			Proficiency: domain.LanguageProficiency(level),
			Required:    p.c.required(content, h.span),
		})
	}
	return out
}

func (p *Parser) certifications(d *document) []domain.CertificationRequirement {
	content := d.requirementScope()

	var hits []hit
	for _, h := range dropContained(firstHits(p.c.certs, content)) {
		hits = append(hits, hit{name: strings.Join(strings.Fields(content[h.start:h.end]), " "), span: h.span})
	}
	named := len(hits)
	if p.c.certWords != nil {
		for _, s := range findAll(p.c.certWords, content, 0, len(content)) {
			name, at := certName(content, s)
			if name == "" || slices.ContainsFunc(hits[:named], func(h hit) bool { return h.overlaps(at) }) {
				continue
			}
			hits = append(hits, hit{name: name, span: at})
		}
	}
	slices.SortStableFunc(hits, func(a, b hit) int { return cmp.Compare(a.start, b.start) })

	out := []domain.CertificationRequirement{}
	seen := map[string]bool{}
	for _, h := range hits {
		k := strings.ToLower(h.name)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, domain.CertificationRequirement{Name: h.name, Required: p.c.required(content, h.span)})
	}
	return out
}

// certName names a generic certification word from its context: a
// following "in <phrase>", else up to three words before it in the same
// clause. The returned span covers the whole name. A bare keyword is its
// own name.
func certName(text string, s span) (string, span) {
	if m := reCertIn.FindStringSubmatchIndex(text[s.end:]); m != nil {
		if name := cutPhrase(text[s.end+m[2] : s.end+m[3]]); name != "" {
			return name, span{s.start, s.end + m[2] + len(name)}
		}
	}

	clauseStart := strings.LastIndexAny(text[:s.start], "\n.,;:()") + 1
	var words []span
	for _, loc := range reToken.FindAllStringIndex(text[clauseStart:s.start], -1) {
		w := span{clauseStart + loc[0], clauseStart + loc[1]}
		tok := text[w.start:w.end]
		switch {
		case certLeadStop[strings.ToLower(tok)]:
			words = words[:0]
		case hasAlnum(tok):
			words = append(words, w)
		}
	}
	if len(words) > 3 {
		words = words[len(words)-3:]
	}
	if len(words) == 0 {
		return text[s.start:s.end], s
	}
	at := span{words[0].start, s.end}
	return strings.Join(strings.Fields(text[at.start:at.end]), " "), at
}

// dropContained removes hits lying inside a longer hit, so "React" is not
// reported again inside "React Native".
func dropContained(hits []hit) []hit {
	var out []hit
	for _, h := range hits {
		inside := slices.ContainsFunc(hits, func(o hit) bool {
			return o != h && o.start <= h.start && h.end <= o.end && o.end-o.start > h.end-h.start
		})
		if !inside {
			out = append(out, h)
		}
	}
	return out
}
