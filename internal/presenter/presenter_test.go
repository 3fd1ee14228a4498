package presenter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"seo-tag-analyzer/internal/analyzer"
	"seo-tag-analyzer/internal/models"
)

func fullPage() models.Page {
	return models.Page{
		Title:       strings.Repeat("t", 45),
		Description: strings.Repeat("d", 140),
		OGTags: map[string]string{
			"og:title":       "Shared title",
			"og:description": "Shared description",
			"og:image":       "https://cdn.example.com/card.png",
			"og:url":         "https://www.example.com/",
		},
		TwitterTags: map[string]string{
			"twitter:card":        "summary",
			"twitter:title":       "t",
			"twitter:description": "d",
		},
	}
}

func reportFor(rawURL string, page models.Page) models.Report {
	res := analyzer.Analyze(page.Title, page.Description, page.OGTags, page.TwitterTags)
	return models.NewReport(rawURL, page, res)
}

func TestStatusStyle(t *testing.T) {
	require.Equal(t, Style{Label: "Good", Icon: "✓", Color: ColorGreen}, StatusStyle(analyzer.StatusGood))
	require.Equal(t, Style{Label: "Warning", Icon: "!", Color: ColorYellow}, StatusStyle(analyzer.StatusWarning))
	require.Equal(t, Style{Label: "Missing", Icon: "✗", Color: ColorRed}, StatusStyle(analyzer.StatusError))
	require.Equal(t, StatusStyle(analyzer.StatusError), StatusStyle("bogus"))
}

func TestScoreStatus(t *testing.T) {
	require.Equal(t, analyzer.StatusGood, ScoreStatus(100))
	require.Equal(t, analyzer.StatusGood, ScoreStatus(80))
	require.Equal(t, analyzer.StatusWarning, ScoreStatus(79))
	require.Equal(t, analyzer.StatusWarning, ScoreStatus(60))
	require.Equal(t, analyzer.StatusError, ScoreStatus(59))
	require.Equal(t, analyzer.StatusError, ScoreStatus(0))
}

func TestDomain(t *testing.T) {
	require.Equal(t, "example.com", Domain("https://www.example.com/path?q=1"))
	require.Equal(t, "blog.example.com", Domain("http://blog.example.com:8080/"))
	require.Equal(t, "not a url", Domain("not a url"))
}

func TestSearchPreviewFallbacks(t *testing.T) {
	p := NewSearchPreview("https://example.com", "", "", nil)
	require.Equal(t, "No title", p.Title)
	require.Equal(t, "No description", p.Description)

	p = NewSearchPreview("https://example.com", "", "  ", map[string]string{
		"og:title":       "<b>Bold</b> & plain",
		"og:description": "From OG",
	})
	require.Equal(t, "Bold & plain", p.Title)
	require.Equal(t, "From OG", p.Description)
}

func TestSocialPreview(t *testing.T) {
	p := NewSocialPreview("https://www.example.com", "Page title", "", nil, analyzer.StatusError)
	require.Equal(t, "example.com", p.Domain)
	require.Equal(t, "Page title", p.Title)
	require.Equal(t, "No description", p.Description)
	require.Equal(t, PlaceholderImage, p.Image)
	require.True(t, p.ImageFallback)
	require.True(t, p.TwitterFallback)

	page := fullPage()
	p = NewSocialPreview("https://example.com", page.Title, page.Description, page.OGTags, analyzer.StatusGood)
	require.Equal(t, "Shared title", p.Title)
	require.Equal(t, "https://cdn.example.com/card.png", p.Image)
	require.False(t, p.ImageFallback)
	require.False(t, p.TwitterFallback)
}

func TestPrioritizedRecommendations(t *testing.T) {
	res := analyzer.Analyze("", "", nil, nil)
	got := PrioritizedRecommendations(res.Recommendations, res)

	var priorities []analyzer.Priority
	for _, r := range got {
		priorities = append(priorities, r.Priority)
	}
	require.Equal(t, []analyzer.Priority{
		analyzer.PriorityHigh, analyzer.PriorityHigh, analyzer.PriorityMedium, analyzer.PriorityMedium,
	}, priorities)
	require.Equal(t, "Add a title tag to your page", got[0].Text)
	require.Equal(t, "Add Twitter Card meta tags for social media sharing", got[1].Text)
	require.Equal(t, "Add a meta description to your page", got[2].Text)

	// input untouched
	require.Equal(t, "Add a meta description to your page", res.Recommendations[1].Text)
}

func TestPrioritizedRecommendationsGeneralAdvice(t *testing.T) {
	page := fullPage()
	res := analyzer.Analyze(page.Title, page.Description, nil, nil)
	got := PrioritizedRecommendations(res.Recommendations, res)
	require.Len(t, got, 3)
	require.Equal(t, GeneralRecommendation, got[2].Text)
	require.Equal(t, analyzer.PriorityLow, got[2].Priority)
}

func TestFromRecordMatchesFromReport(t *testing.T) {
	r := reportFor("https://example.com", models.Page{Title: "short", OGTags: map[string]string{"og:title": "x", "og:url": "y"}})
	fresh := FromReport(r)
	stored := FromRecord(&r.Record)

	require.Equal(t, fresh.Rows, stored.Rows)
	require.Equal(t, fresh.Recommendations, stored.Recommendations)
	require.Equal(t, fresh.Search, stored.Search)
}

func TestTextNoColor(t *testing.T) {
	r := reportFor("https://www.example.com/", fullPage())
	r.ID = "01HTESTID"
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, FromReport(r), false))

	out := buf.String()
	require.Contains(t, out, "Score:   100/100")
	require.Contains(t, out, "ID:      01HTESTID")
	require.Contains(t, out, "✓ Title")
	require.Contains(t, out, "example.com")
	require.Contains(t, out, GeneralRecommendation)
	require.NotContains(t, out, "\033[")
}

func TestTextColor(t *testing.T) {
	r := reportFor("https://example.com", models.Page{})
	var buf bytes.Buffer
	require.NoError(t, Text(&buf, FromReport(r), true))
	require.Contains(t, buf.String(), ansiRed+"0/100"+ansiReset)
}

func TestMarkdown(t *testing.T) {
	r := reportFor("https://example.com", models.Page{Title: "a | b"})
	r.ID = "01HX"
	r.CreatedAt = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	out := Markdown(FromReport(r))

	require.Contains(t, out, "# SEO report for https://example.com")
	require.Contains(t, out, "**Score:** 0/100 (Missing)")
	require.Contains(t, out, "created 2024-05-01 12:30 UTC")
	require.Contains(t, out, "| Title | ! Warning | 5 chars |")
	require.Contains(t, out, `a \| b`)
	require.Contains(t, out, "- **High:** Add Twitter Card meta tags for social media sharing")
	require.Contains(t, out, "- **Low:** Extend title to 30-60 characters")
}

func TestHTMLIsSanitized(t *testing.T) {
	page := fullPage()
	page.Title = `<script>alert(1)</script>Title`
	page.OGTags["og:image"] = `javascript:alert(1)`
	r := reportFor("https://example.com", page)

	out, err := HTML(FromReport(r))
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(out))
	require.NoError(t, err)
	require.Zero(t, doc.Find("body script").Length())
	require.Equal(t, 1, doc.Find("table").Length())
	require.Equal(t, 4, doc.Find("table tbody tr").Length())
	require.Contains(t, doc.Find("p.score").AttrOr("class", ""), ColorGreen)
	require.Equal(t, "100/100", doc.Find("p.score").Text())
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		require.NotContains(t, s.AttrOr("src", ""), "javascript:")
	})
	require.Contains(t, doc.Find("title").Text(), "SEO report: https://example.com")
}

func TestRenderFormats(t *testing.T) {
	v := FromReport(reportFor("https://example.com", fullPage()))
	for _, format := range []string{"", FormatText, FormatMarkdown, FormatHTML} {
		var buf bytes.Buffer
		require.NoError(t, Render(&buf, v, format, false), format)
		require.NotZero(t, buf.Len(), format)
	}
	require.Error(t, Render(&bytes.Buffer{}, v, "pdf", false))
}
