// Package analyzer scores extracted SEO tags. Analyze is pure: it keeps no
// state between calls, performs no I/O and is safe for concurrent use.
package analyzer

import (
	"fmt"
	"unicode/utf8"
)

const (
	categoryPoints = 25
	maxScore       = 100
)

// lengthRule describes a bounded-length text check.
type lengthRule struct {
	category Category
	min, max int

	missingMsg, shortMsg, longMsg, goodMsg string
	missingRec, shortRec, longRec          string

	missingPriority, sizePriority Priority
}

var titleRule = lengthRule{
	category:        CategoryTitle,
	min:             30,
	max:             60,
	missingMsg:      "Title tag is missing",
	shortMsg:        "Title is too short",
	longMsg:         "Title is too long",
	goodMsg:         "Title length is optimal",
	missingRec:      "Add a title tag to your page",
	shortRec:        "Extend title to 30-60 characters",
	longRec:         "Shorten title to under 60 characters",
	missingPriority: PriorityHigh,
	sizePriority:    PriorityLow,
}

var descriptionRule = lengthRule{
	category:        CategoryDescription,
	min:             120,
	max:             160,
	missingMsg:      "Meta description is missing",
	shortMsg:        "Description is too short",
	longMsg:         "Description is too long",
	goodMsg:         "Description length is optimal",
	missingRec:      "Add a meta description to your page",
	shortRec:        "Extend meta description to 120-160 characters",
	longRec:         "Shorten meta description to under 160 characters",
	missingPriority: PriorityMedium,
	sizePriority:    PriorityMedium,
}

// tagRule describes a required-tag presence check with three tiers.
type tagRule struct {
	category Category
	required []string
	label    string

	partialMin    int
	partialPoints int

	goodMsg             string
	partialRec, noneRec string
	priority            Priority
}

var openGraphRule = tagRule{
	category:      CategoryOpenGraph,
	required:      []string{"og:title", "og:description", "og:image", "og:url"},
	label:         "Open Graph",
	partialMin:    2,
	partialPoints: 15,
	goodMsg:       "All essential Open Graph tags are present",
	partialRec:    "Add missing Open Graph tags for better social sharing",
	noneRec:       "Add Open Graph tags for social media sharing",
	priority:      PriorityMedium,
}

var twitterRule = tagRule{
	category:      CategoryTwitter,
	required:      []string{"twitter:card", "twitter:title", "twitter:description"},
	label:         "Twitter Card",
	partialMin:    1,
	partialPoints: 10,
	goodMsg:       "All essential Twitter Card tags are present",
	partialRec:    "Add missing Twitter Card tags for better social sharing",
	noneRec:       "Add Twitter Card meta tags for social media sharing",
	priority:      PriorityHigh,
}

// RequiredOpenGraphTags returns the Open Graph keys the analyzer checks for.
func RequiredOpenGraphTags() []string { return append([]string(nil), openGraphRule.required...) }

// RequiredTwitterTags returns the Twitter Card keys the analyzer checks for.
func RequiredTwitterTags() []string { return append([]string(nil), twitterRule.required...) }

// Analyze scores the four tag categories and collects recommendations.
// Empty strings and nil maps are valid and mean "tag missing".
func Analyze(title, description string, og, twitter map[string]string) Result {
	var recs []Recommendation

	titleCheck, rec := titleRule.evaluate(title)
	recs = appendRec(recs, rec)
	descCheck, rec := descriptionRule.evaluate(description)
	recs = appendRec(recs, rec)
	ogCheck, rec := openGraphRule.evaluate(og)
	recs = appendRec(recs, rec)
	twCheck, rec := twitterRule.evaluate(twitter)
	recs = appendRec(recs, rec)

	score := titleCheck.Points + descCheck.Points + ogCheck.Points + twCheck.Points
	if score > maxScore {
		score = maxScore
	}
	if score < 0 {
		score = 0
	}
	if recs == nil {
		recs = []Recommendation{}
	}

	return Result{
		Score:           score,
		Recommendations: recs,
		Title:           titleCheck,
		Description:     descCheck,
		OpenGraph:       ogCheck,
		Twitter:         twCheck,
	}
}

func appendRec(recs []Recommendation, rec *Recommendation) []Recommendation {
	if rec == nil || rec.Text == "" {
		return recs
	}
	return append(recs, *rec)
}

func (r lengthRule) evaluate(text string) (LengthCheck, *Recommendation) {
	n := utf8.RuneCountInString(text)
	check := LengthCheck{Length: n}

	switch {
	case n == 0:
		check.Status, check.Message = StatusError, r.missingMsg
		return check, &Recommendation{Category: r.category, Priority: r.missingPriority, Text: r.missingRec}
	case n < r.min:
		check.Status, check.Message = StatusWarning, r.shortMsg
		return check, &Recommendation{Category: r.category, Priority: r.sizePriority, Text: r.shortRec}
	case n > r.max:
		check.Status, check.Message = StatusWarning, r.longMsg
		return check, &Recommendation{Category: r.category, Priority: r.sizePriority, Text: r.longRec}
	}

	check.Status, check.Message, check.Points = StatusGood, r.goodMsg, categoryPoints
	return check, nil
}

func (r tagRule) evaluate(tags map[string]string) (TagCheck, *Recommendation) {
	check := TagCheck{Total: len(r.required)}
	for _, key := range r.required {
		if tags[key] != "" {
			check.Present++
		} else {
			check.Missing = append(check.Missing, key)
		}
	}

	if check.Present == check.Total {
		check.Status, check.Message, check.Points = StatusGood, r.goodMsg, categoryPoints
		return check, nil
	}

	check.Message = fmt.Sprintf("Missing %d %s tags", check.Total-check.Present, r.label)
	if check.Present >= r.partialMin {
		check.Status, check.Points = StatusWarning, r.partialPoints
		return check, &Recommendation{Category: r.category, Priority: r.priority, Text: r.partialRec}
	}

	check.Status = StatusError
	return check, &Recommendation{Category: r.category, Priority: r.priority, Text: r.noneRec}
}
