package extract

import (
	"regexp"
	"strings"

	"jdparse-engine/internal/domain"
)

var reParagraphBreak = regexp.MustCompile(`\n\s*\n`)

const minDescriptionLen = 100

func (p *Parser) employmentType(d *document) string {
	return vocabTerm(p.c.employment, d.scope(SectionEmploymentType), domain.DefaultEmploymentType)
}

func (p *Parser) workMode(d *document) string {
	return vocabTerm(p.c.workModes, d.scope(SectionWorkMode), domain.DefaultWorkMode)
}

// vocabTerm is the first vocabulary term present, in table order.
func vocabTerm(ms []matcher, text, def string) string {
	if name, ok := firstTerm(ms, text); ok {
		return name
	}
	return def
}

func (p *Parser) description(d *document) string {
	if s, ok := d.sections.Get(SectionDescription); ok {
		return strings.TrimSpace(s.Text())
	}
	for _, para := range reParagraphBreak.Split(d.text, -1) {
		if para = strings.TrimSpace(para); len(para) > minDescriptionLen {
			return para
		}
	}
	return ""
}

func (p *Parser) responsibilities(d *document) []string {
	return listOf(d.sections.text(SectionResponsibilities))
}

func (p *Parser) benefits(d *document) []string {
	return listOf(d.sections.text(SectionBenefits))
}
