
package classifier

import (
	"regexp"

	"seo-tag-analyzer/internal/analyzer"
)

// Classifier recovers priority and category from recommendation text. Fresh
// analyses carry structured priorities; this is only needed for records read
// back from storage, which keep the plain strings.
type Classifier struct{}

func New() *Classifier { return &Classifier{} }

var (
	twitterRe      = regexp.MustCompile(`(?i)twitter`)
	titleMissingRe = regexp.MustCompile(`(?i)title\s+tag\s+is\s+missing|add\s+a\s+title\s+tag`)
	titleRe        = regexp.MustCompile(`(?i)\btitle\b`)
	descriptionRe  = regexp.MustCompile(`(?i)meta\s+description`)
	openGraphRe    = regexp.MustCompile(`(?i)open\s+graph`)
)

// Classify maps one recommendation string to a structured recommendation.
func (c *Classifier) Classify(text string) analyzer.Recommendation {
	rec := analyzer.Recommendation{Text: text, Priority: analyzer.PriorityLow}

	switch {
	case twitterRe.MatchString(text):
		rec.Category, rec.Priority = analyzer.CategoryTwitter, analyzer.PriorityHigh
	case titleMissingRe.MatchString(text):
		rec.Category, rec.Priority = analyzer.CategoryTitle, analyzer.PriorityHigh
	case descriptionRe.MatchString(text):
		rec.Category, rec.Priority = analyzer.CategoryDescription, analyzer.PriorityMedium
	case openGraphRe.MatchString(text):
		rec.Category, rec.Priority = analyzer.CategoryOpenGraph, analyzer.PriorityMedium
	case titleRe.MatchString(text):
		rec.Category = analyzer.CategoryTitle
	}
	return rec
}

// ClassifyAll classifies texts, preserving order.
func (c *Classifier) ClassifyAll(texts []string) []analyzer.Recommendation {
	out := make([]analyzer.Recommendation, 0, len(texts))
	for _, t := range texts {
		out = append(out, c.Classify(t))
	}
	return out
}
