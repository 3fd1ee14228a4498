
package parser

import (
	"bytes"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"seo-tag-analyzer/internal/models"
)

type Parser struct{}

func New() *Parser { return &Parser{} }

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract pulls title, description, Open Graph and Twitter Card tags out of
// an HTML document. Only tags with non-empty content are kept; when a key
// repeats, the first occurrence wins.
func (p *Parser) Extract(r io.Reader, contentType string) (models.Page, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Page{}, err
	}

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		if !utf8.Valid(data) {
			return models.Page{}, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return models.Page{}, err
	}

	og := collect(doc, `meta[property^="og:"]`, "property")
	twitter := collect(doc, `meta[name^="twitter:"]`, "name")
	// some publishers put twitter:* in the property attribute
	for k, v := range collect(doc, `meta[property^="twitter:"]`, "property") {
		if _, ok := twitter[k]; !ok {
			twitter[k] = v
		}
	}

	title := clean(doc.Find("title").First().Text())
	if title == "" {
		title = og["og:title"]
	}
	desc := clean(doc.Find(`meta[name="description"]`).First().AttrOr("content", ""))
	if desc == "" {
		desc = og["og:description"]
	}

	lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", ""))
	if lang == "" {
		lang = og["og:locale"]
	}

	return models.Page{
		Title:       title,
		Description: desc,
		OGTags:      og,
		TwitterTags: twitter,
		Canonical:   strings.TrimSpace(doc.Find(`link[rel="canonical"]`).AttrOr("href", "")),
		Language:    lang,
	}, nil
}

func collect(doc *goquery.Document, selector, keyAttr string) map[string]string {
	out := map[string]string{}
	doc.Find(selector).Each(func(i int, s *goquery.Selection) {
		key := strings.ToLower(strings.TrimSpace(s.AttrOr(keyAttr, "")))
		content := clean(s.AttrOr("content", ""))
		if key == "" || content == "" {
			return
		}
		if _, seen := out[key]; !seen {
			out[key] = content
		}
	})
	return out
}

func clean(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
