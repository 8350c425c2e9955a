package scraper

import (
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"webagent/internal/markdown"
	"webagent/pkg/models"
)

// minParagraphLen filters out stray fragments (icons, single words in
// nav chrome) from extracted paragraph text.
const minParagraphLen = 5

// Units extracts heading+paragraphs blocks from a page body. Markdown
// and plain-text bodies are sectioned by their headings; HTML bodies
// are walked section-by-section. Units with no text are dropped, so
// they are never persisted.
func Units(pageURL, contentType, body string) []models.ContentUnit {
	if markdown.Detect(pageURL, contentType, body) {
		return markdown.Sections(body)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return flattened(body)
	}

	sections := doc.Find("section, article")
	if sections.Length() == 0 {
		sections = doc.Find("body")
	}

	var units []models.ContentUnit
	sections.Each(func(_ int, sec *goquery.Selection) {
		unit := models.ContentUnit{
			Heading: models.Heading(collapse(sec.Find("h1, h2, h3, h4, h6, h5").First().Text())),
		}
		sec.Find("p, li, td, blockquote, pre").Each(func(_ int, el *goquery.Selection) {
			if text := collapse(el.Text()); len(text) > minParagraphLen {
				unit.Paragraphs = append(unit.Paragraphs, text)
			}
		})
		if !unit.Empty() {
			units = append(units, unit)
		}
	})

	if len(units) == 0 {
		return flattened(body)
	}
	return units
}

// flattened is the last-resort path for pages with no extractable
// structure: convert the whole body to markdown and section that.
func flattened(body string) []models.ContentUnit {
	md, err := htmltomarkdown.ConvertString(body)
	if err != nil {
		return nil
	}
	md = strings.TrimSpace(md)
	if md == "" {
		return nil
	}
	if units := markdown.Sections(md); len(units) > 0 {
		return units
	}
	return []models.ContentUnit{{Paragraphs: []string{md}}}
}

// collapse trims and squashes internal whitespace runs.
func collapse(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// pageTitle extracts the <title> content from an HTML body.
func pageTitle(body string) string {
	doc, err := html.Parse(strings.NewReader(body))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" {
			if n.FirstChild != nil {
				title = n.FirstChild.Data
			}
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.TrimSpace(title)
}
