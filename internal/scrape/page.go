package scrape

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	citationSelector = "section.pmc-layout__citation"
	contentSelector  = "section[id^=s] p"
)

// yearPattern matches a four-digit year in the decades 1900-2099.
var yearPattern = regexp.MustCompile(`\b(19|20)\d{2}\b`)

// Page is a parsed publication page.
type Page struct {
	doc *goquery.Document
}

// ParsePage parses raw HTML into a Page.
func ParsePage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}
	return &Page{doc: doc}, nil
}

// Year returns the publication year from the citation section: the first
// four-digit year in 1900-2099. ok is false when the section is missing or
// carries no such year.
func (p *Page) Year() (int, bool) {
	text := p.doc.Find(citationSelector).Text()
	match := yearPattern.FindString(text)
	if match == "" {
		return 0, false
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}

// BodyText returns the paragraph text of the page's content sections, one
// paragraph per line. Empty when the page has no content sections.
func (p *Page) BodyText() string {
	var paragraphs []string
	p.doc.Find(contentSelector).Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	return strings.Join(paragraphs, "\n")
}
