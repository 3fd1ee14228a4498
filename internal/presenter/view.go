package presenter

import (
	"fmt"
	"html"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"

	"seo-tag-analyzer/internal/analyzer"
	"seo-tag-analyzer/internal/classifier"
	"seo-tag-analyzer/internal/models"
)

// PlaceholderImage stands in for a missing og:image in the social preview.
const PlaceholderImage = "https://images.unsplash.com/photo-1460925895917-afdab827c52f?ixlib=rb-4.0.3&auto=format&fit=crop&w=800&h=400"

const (
	noTitle       = "No title"
	noDescription = "No description"

	// GeneralRecommendation is appended once the basics are in place.
	GeneralRecommendation = "Consider adding structured data markup for rich snippets"
)

var stripPolicy = bluemonday.StrictPolicy()

// SearchPreview approximates a search engine result entry.
type SearchPreview struct {
	URL         string `json:"url"`
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// SocialPreview approximates a shared-link card.
type SocialPreview struct {
	Domain          string `json:"domain"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Image           string `json:"image"`
	ImageFallback   bool   `json:"imageFallback"`
	TwitterFallback bool   `json:"twitterFallback"`
}

// Row is one category line of the breakdown table.
type Row struct {
	Name    string
	Status  analyzer.Status
	Detail  string
	Message string
}

// View is everything a renderer needs for one analysis.
type View struct {
	ID              string
	URL             string
	CreatedAt       time.Time
	Score           int
	ScoreStatus     analyzer.Status
	Rows            []Row
	Search          SearchPreview
	Social          SocialPreview
	Recommendations []analyzer.Recommendation
}

// FromReport builds a view for a fresh analysis.
func FromReport(r models.Report) View {
	return build(r.Record, r.Result(), r.Advice)
}

// FromRecord builds a view for a stored record. The breakdown is recomputed
// from the stored tags; recommendation priorities are recovered from the
// stored text.
func FromRecord(rec *models.Record) View {
	res := analyzer.Analyze(rec.Title, rec.Description, rec.OGTags, rec.TwitterTags)
	return build(*rec, res, classifier.New().ClassifyAll(rec.Recommendations))
}

func build(rec models.Record, res analyzer.Result, recs []analyzer.Recommendation) View {
	return View{
		ID:              rec.ID,
		URL:             rec.URL,
		CreatedAt:       rec.CreatedAt,
		Score:           rec.Score,
		ScoreStatus:     ScoreStatus(rec.Score),
		Rows:            rows(res),
		Search:          NewSearchPreview(rec.URL, rec.Title, rec.Description, rec.OGTags),
		Social:          NewSocialPreview(rec.URL, rec.Title, rec.Description, rec.OGTags, res.Twitter.Status),
		Recommendations: PrioritizedRecommendations(recs, res),
	}
}

func rows(res analyzer.Result) []Row {
	return []Row{
		{Name: "Title", Status: res.Title.Status, Detail: fmt.Sprintf("%d chars", res.Title.Length), Message: res.Title.Message},
		{Name: "Meta description", Status: res.Description.Status, Detail: fmt.Sprintf("%d chars", res.Description.Length), Message: res.Description.Message},
		{Name: "Open Graph", Status: res.OpenGraph.Status, Detail: fmt.Sprintf("%d/%d tags", res.OpenGraph.Present, res.OpenGraph.Total), Message: res.OpenGraph.Message},
		{Name: "Twitter Card", Status: res.Twitter.Status, Detail: fmt.Sprintf("%d/%d tags", res.Twitter.Present, res.Twitter.Total), Message: res.Twitter.Message},
	}
}

// NewSearchPreview falls back to Open Graph values when the page's own title
// or description is missing.
func NewSearchPreview(rawURL, title, description string, og map[string]string) SearchPreview {
	return SearchPreview{
		URL:         rawURL,
		Domain:      Domain(rawURL),
		Title:       firstText(noTitle, title, og["og:title"]),
		Description: firstText(noDescription, description, og["og:description"]),
	}
}

// NewSocialPreview prefers Open Graph values. twitterStatus error marks the
// card as derived from Open Graph only.
func NewSocialPreview(rawURL, title, description string, og map[string]string, twitterStatus analyzer.Status) SocialPreview {
	p := SocialPreview{
		Domain:          Domain(rawURL),
		Title:           firstText(noTitle, og["og:title"], title),
		Description:     firstText(noDescription, og["og:description"], description),
		Image:           strings.TrimSpace(og["og:image"]),
		TwitterFallback: twitterStatus == analyzer.StatusError,
	}
	if p.Image == "" {
		p.Image, p.ImageFallback = PlaceholderImage, true
	}
	return p
}

// Domain is the URL's host without a leading "www.".
func Domain(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return rawURL
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

func firstText(fallback string, candidates ...string) string {
	for _, c := range candidates {
		if s := stripMarkup(c); s != "" {
			return s
		}
	}
	return fallback
}

func stripMarkup(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

var priorityRank = map[analyzer.Priority]int{
	analyzer.PriorityHigh:   0,
	analyzer.PriorityMedium: 1,
	analyzer.PriorityLow:    2,
}

// PrioritizedRecommendations orders recs high, medium, low, keeping input
// order within a priority, and appends the general structured-data advice
// when both title and description are good. recs is not modified.
func PrioritizedRecommendations(recs []analyzer.Recommendation, res analyzer.Result) []analyzer.Recommendation {
	out := make([]analyzer.Recommendation, len(recs), len(recs)+1)
	copy(out, recs)
	sort.SliceStable(out, func(i, j int) bool {
		return rank(out[i].Priority) < rank(out[j].Priority)
	})
	if res.Title.Status == analyzer.StatusGood && res.Description.Status == analyzer.StatusGood {
		out = append(out, analyzer.Recommendation{Priority: analyzer.PriorityLow, Text: GeneralRecommendation})
	}
	return out
}

func rank(p analyzer.Priority) int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return priorityRank[analyzer.PriorityLow]
}
