// Package htmltext flattens HTML job pages into the plain text the parser
// reads: one block per heading or paragraph, "- " lines for list items.
package htmltext

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	reTag   = regexp.MustCompile(`<[^>]*>`)
	reSpace = regexp.MustCompile(`\s+`)
	reHTML  = regexp.MustCompile(`(?i)<(?:!doctype|html|head|body|div|p|br|ul|ol|li|h[1-6]|span|strong|em|b|i|a|table|section|article)\b[^>]*>`)
)

// LooksLikeHTML reports whether s contains common HTML tags.
func LooksLikeHTML(s string) bool {
	return reHTML.MatchString(s)
}

func ToText(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return stripTags(html)
	}
	doc.Find("script, style, nav, header, footer, iframe, noscript").Remove()

	var b strings.Builder
	inList := false
	doc.Find("p, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		item := goquery.NodeName(s) == "li"
		if !item && s.ParentsFiltered("li").Length() > 0 {
			return
		}
		text := blockText(s, item)
		if text == "" {
			return
		}
		if item {
			text = "- " + text
		}
		if b.Len() > 0 {
			if item && inList {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}
		b.WriteString(text)
		inList = item
	})
	if b.Len() > 0 {
		return b.String()
	}

	if body := cleanText(doc.Find("body").Text()); body != "" {
		return body
	}
	return cleanText(doc.Text())
}

// blockText is the text of s; a list item leaves out its nested lists,
// which are emitted as items of their own.
func blockText(s *goquery.Selection, item bool) string {
	if !item {
		return cleanText(s.Text())
	}
	c := s.Clone()
	c.Find("ul, ol").Remove()
	return cleanText(c.Text())
}

func stripTags(html string) string {
	return cleanText(reTag.ReplaceAllString(html, " "))
}

func cleanText(text string) string {
	return strings.TrimSpace(reSpace.ReplaceAllString(text, " "))
}
