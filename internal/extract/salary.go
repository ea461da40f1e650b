package extract

import (
	"regexp"
	"strconv"
	"strings"

	"jdparse-engine/internal/domain"
)

const (
	// grouped thousands ("45.000", "45,000") or plain digits; cents are ignored
	num = `(\d{1,3}(?:[.,]\d{3})+|\d+)(?:\.\d{1,2}\b)?`
	sym = `([$€£¥])`

	// a symbol amount with an optional k suffix
	amount = sym + `\s?` + num + `(?:\s*([kK])\b)?`
)

type salaryKind int

const (
	symbolRange salaryKind = iota // $X - $Y
	kRange                        // Nk - Mk
	upTo                          // max only
	startingAt                    // min only
	exact                         // min = max
)

type salaryPattern struct {
	kind salaryKind
	re   *regexp.Regexp

	// only tried inside a salary section
	sectionOnly bool
}

var salaryPatterns = []salaryPattern{
	{kind: symbolRange, re: regexp.MustCompile(sym + `\s?` + num + `\s*([kK])?\s*(?:-|to)\s*[$€£¥]?\s?` + num + `\s*([kK])?`)},
	{kind: kRange, re: regexp.MustCompile(`\b(\d{1,3})\s*([kK])\s*(?:-|to)\s*([$€£¥])?\s?(\d{1,3})\s*([kK])\b`)},
	{kind: upTo, re: regexp.MustCompile(`(?i:\b(?:up\s+to|maximum(?:\s+of)?))\s*` + amount)},
	{kind: startingAt, re: regexp.MustCompile(`(?i:\b(?:starting\s+(?:at|from)|minimum(?:\s+of)?))\s*` + amount)},
	{kind: exact, re: regexp.MustCompile(amount + `\s*(?i:per|/|an?)\s*(?i:hour|hr|year|yr|annum|month|mo|week|wk)\b`)},
	{kind: exact, re: regexp.MustCompile(amount), sectionOnly: true},
}

var currencySymbols = map[string]string{"$": "USD", "€": "EUR", "£": "GBP", "¥": "JPY"}

var (
	reCurrencyCode = regexp.MustCompile(`\b(USD|EUR|GBP|JPY|CAD|AUD|INR|CHF)\b`)

	// the pay period phrase right after an amount
	rePayPeriod = regexp.MustCompile(`(?i)^\s*(?:(?:per|/|an?)\s*(hour|hr|year|yr|annum|month|mo|week|wk)s?\b|(hourly|annually|annual|yearly|monthly|weekly)\b)`)
	reNonDigit  = regexp.MustCompile(`\D`)
)

// salary tries the salary section first, then the whole text, and stops at
// the first pattern that matches.
func (p *Parser) salary(d *document) domain.SalaryInfo {
	if s, ok := d.sections.Get(SectionSalary); ok {
		if info, ok := parseSalary(s.Text(), true); ok {
			return info
		}
	}
	info, _ := parseSalary(d.text, false)
	return info
}

func parseSalary(text string, inSection bool) (domain.SalaryInfo, bool) {
	for _, pat := range salaryPatterns {
		if pat.sectionOnly && !inSection {
			continue
		}
		m := pat.re.FindStringSubmatchIndex(text)
		if m == nil {
			continue
		}
		g := groups(text, m)
		info := domain.SalaryInfo{}
		var symbol string

		switch pat.kind {
		case symbolRange:
			symbol = g[1]
			hi, ok2 := parseAmount(g[4], g[5] != "")
			lo, ok1 := parseAmount(g[2], g[3] != "")
			// "$60-80k": a lone trailing k covers both ends
			if ok1 && g[3] == "" && g[5] != "" && lo < 1000 {
				lo *= 1000
			}
			if !ok1 || !ok2 {
				continue
			}
			info.Min, info.Max = &lo, &hi
		case kRange:
			symbol = g[3]
			lo, ok1 := parseAmount(g[1], true)
			hi, ok2 := parseAmount(g[4], true)
			if !ok1 || !ok2 {
				continue
			}
			info.Min, info.Max = &lo, &hi
		case upTo, startingAt:
			symbol = g[1]
			v, ok := parseAmount(g[2], g[3] != "")
			if !ok {
				continue
			}
			if pat.kind == upTo {
				info.Max = &v
			} else {
				info.Min = &v
			}
		default:
			symbol = g[1]
			v, ok := parseAmount(g[2], g[3] != "")
			if !ok {
				continue
			}
			lo, hi := v, v
			info.Min, info.Max = &lo, &hi
		}

		info.Currency = currency(text, symbol, span{m[0], m[1]})
		info.Period = period(text[amountEnd(m):])
		return info, true
	}
	return domain.SalaryInfo{}, false
}

// groups returns every capture group as a string, "" when unset.
func groups(text string, m []int) []string {
	out := make([]string, len(m)/2)
	for i := range out {
		if m[2*i] >= 0 {
			out[i] = text[m[2*i]:m[2*i+1]]
		}
	}
	return out
}

// amountEnd is where the last captured group of the match ends.
func amountEnd(m []int) int {
	end := m[0]
	for i := 3; i < len(m); i += 2 {
		end = max(end, m[i])
	}
	return end
}

// parseAmount keeps only the digits of s, times 1000 when thousands is set.
func parseAmount(s string, thousands bool) (int, bool) {
	n, err := strconv.Atoi(reNonDigit.ReplaceAllString(s, ""))
	if err != nil {
		return 0, false
	}
	if thousands {
		n *= 1000
	}
	return n, true
}

// currency maps the symbol, else an ISO code near the match.
func currency(text, symbol string, at span) string {
	if c, ok := currencySymbols[symbol]; ok {
		return c
	}
	lo, hi := max(0, at.start-window), min(len(text), at.end+window)
	if m := reCurrencyCode.FindString(text[lo:hi]); m != "" {
		return m
	}
	return ""
}

// period reads a "per year" style phrase at the start of tail.
func period(tail string) string {
	m := rePayPeriod.FindStringSubmatch(tail)
	if m == nil {
		return ""
	}
	switch w := strings.ToLower(m[1] + m[2]); {
	case strings.HasPrefix(w, "h"):
		return "hourly"
	case strings.HasPrefix(w, "mo"):
		return "monthly"
	case strings.HasPrefix(w, "w"):
		return "weekly"
	default:
		return "annual"
	}
}
