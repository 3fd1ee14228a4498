
package models

import (
	"time"

	"seo-tag-analyzer/internal/analyzer"
)

// Page is what the extractor pulls out of a fetched document.
type Page struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	OGTags      map[string]string `json:"ogTags"`
	TwitterTags map[string]string `json:"twitterTags"`
	Canonical   string            `json:"canonical,omitempty"`
	Language    string            `json:"language,omitempty"`
}

// Record is a persisted analysis.
type Record struct {
	ID              string            `json:"id"`
	URL             string            `json:"url"`
	Title           string            `json:"title"`
	Description     string            `json:"description"`
	OGTags          map[string]string `json:"ogTags"`
	TwitterTags     map[string]string `json:"twitterTags"`
	Score           int               `json:"score"`
	Recommendations []string          `json:"recommendations"`
	CreatedAt       time.Time         `json:"createdAt"`
}

type Breakdown struct {
	TitleAnalysis       analyzer.LengthCheck `json:"titleAnalysis"`
	DescriptionAnalysis analyzer.LengthCheck `json:"descriptionAnalysis"`
	OGAnalysis          analyzer.TagCheck    `json:"ogAnalysis"`
	TwitterAnalysis     analyzer.TagCheck    `json:"twitterAnalysis"`
}

// Report is the response for a fresh analysis: the record plus the
// per-category breakdown and the structured recommendations.
type Report struct {
	Record
	FinalURL  string                    `json:"finalUrl,omitempty"`
	FetchMs   int64                     `json:"fetchMs"`
	Canonical string                    `json:"canonical,omitempty"`
	Language  string                    `json:"language,omitempty"`
	Analysis  Breakdown                 `json:"analysis"`
	Advice    []analyzer.Recommendation `json:"advice"`
}

// NewReport assembles a report from the extracted page and its analysis.
func NewReport(rawURL string, page Page, res analyzer.Result) Report {
	return Report{
		Record: Record{
			URL:             rawURL,
			Title:           page.Title,
			Description:     page.Description,
			OGTags:          nonNil(page.OGTags),
			TwitterTags:     nonNil(page.TwitterTags),
			Score:           res.Score,
			Recommendations: res.RecommendationTexts(),
		},
		Canonical: page.Canonical,
		Language:  page.Language,
		Analysis: Breakdown{
			TitleAnalysis:       res.Title,
			DescriptionAnalysis: res.Description,
			OGAnalysis:          res.OpenGraph,
			TwitterAnalysis:     res.Twitter,
		},
		Advice: res.Recommendations,
	}
}

// Result rebuilds the analyzer result carried by the report.
func (r Report) Result() analyzer.Result {
	return analyzer.Result{
		Score:           r.Score,
		Recommendations: r.Advice,
		Title:           r.Analysis.TitleAnalysis,
		Description:     r.Analysis.DescriptionAnalysis,
		OpenGraph:       r.Analysis.OGAnalysis,
		Twitter:         r.Analysis.TwitterAnalysis,
	}
}

func nonNil(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}
