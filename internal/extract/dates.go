package extract

import (
	"regexp"
	"strings"
)

var (
	reDeadlineLead = regexp.MustCompile(`(?im)\b(?:(?:application\s+)?deadline|closing\s+date|apply\s+by|applications?\s+close(?:\s+on)?)\s*:[ \t]*(.+?)\s*$`)
	rePostedLead   = regexp.MustCompile(`(?im)\b(?:date\s+posted|posted(?:\s+on)?|published(?:\s+on)?)\s*:[ \t]*(.+?)\s*$`)

	// without a colon the capture has to hold a date: "apply by email" is not a deadline
	reApplyBy = regexp.MustCompile(`(?im)\b(?:apply\s+by|applications?\s+close(?:\s+on)?)[ \t]+(.+?)\s*$`)

	dateShapes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(?:jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|june?|july?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\.?\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}\b`),
		regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		regexp.MustCompile(`\b\d{4}-\d{1,2}-\d{1,2}\b`),
	}
)

const postedScanLines = 10

func (p *Parser) deadline(d *document) string {
	if m := reDeadlineLead.FindStringSubmatch(d.text); m != nil {
		return refineDate(m[1])
	}
	if m := reApplyBy.FindStringSubmatch(d.text); m != nil {
		if v, ok := earliestDate(m[1]); ok {
			return v
		}
	}
	// a "Deadline" heading with the date on the following line
	if s, ok := d.sections.Get(SectionDeadline); ok {
		if v := strings.TrimSpace(s.FirstLine()); v != "" {
			return refineDate(v)
		}
	}
	return ""
}

func (p *Parser) postedDate(d *document) string {
	if m := rePostedLead.FindStringSubmatch(d.text); m != nil {
		return refineDate(m[1])
	}
	head := strings.Join(d.lines[:min(len(d.lines), postedScanLines)], "\n")
	if v, ok := earliestDate(head); ok {
		return v
	}
	return ""
}

// refineDate narrows a lead-in capture to the earliest recognizable date,
// keeping the raw capture when none is found.
func refineDate(capture string) string {
	if v, ok := earliestDate(capture); ok {
		return v
	}
	return strings.TrimSpace(capture)
}

func earliestDate(s string) (string, bool) {
	best, at := "", -1
	for _, re := range dateShapes {
		if loc := re.FindStringIndex(s); loc != nil && (at < 0 || loc[0] < at) {
			best, at = s[loc[0]:loc[1]], loc[0]
		}
	}
	return best, at >= 0
}
