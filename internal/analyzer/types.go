package analyzer

// Status classifies a single category check.
type Status string

const (
	StatusGood    Status = "good"
	StatusWarning Status = "warning"
	StatusError   Status = "error"
)

// Category names one of the four independent checks.
type Category string

const (
	CategoryTitle       Category = "title"
	CategoryDescription Category = "description"
	CategoryOpenGraph   Category = "open_graph"
	CategoryTwitter     Category = "twitter"
)

// Priority is the urgency attached to a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// LengthCheck is the outcome of a title or description check.
type LengthCheck struct {
	Length  int    `json:"length"`
	Status  Status `json:"status"`
	Message string `json:"message"`
	Points  int    `json:"-"`
}

// TagCheck is the outcome of an Open Graph or Twitter Card check.
type TagCheck struct {
	Present int      `json:"present"`
	Total   int      `json:"total"`
	Status  Status   `json:"status"`
	Message string   `json:"message"`
	Missing []string `json:"missing,omitempty"`
	Points  int      `json:"-"`
}

type Recommendation struct {
	Category Category `json:"category"`
	Priority Priority `json:"priority"`
	Text     string   `json:"text"`
}

// Result is the composite outcome of Analyze. Recommendations follow the
// fixed evaluation order: title, description, Open Graph, Twitter.
type Result struct {
	Score           int              `json:"score"`
	Recommendations []Recommendation `json:"recommendations"`
	Title           LengthCheck      `json:"titleAnalysis"`
	Description     LengthCheck      `json:"descriptionAnalysis"`
	OpenGraph       TagCheck         `json:"ogAnalysis"`
	Twitter         TagCheck         `json:"twitterAnalysis"`
}

// RecommendationTexts returns the recommendation strings in evaluation order.
// The result is never nil.
func (r Result) RecommendationTexts() []string {
	out := make([]string, 0, len(r.Recommendations))
	for _, rec := range r.Recommendations {
		out = append(out, rec.Text)
	}
	return out
}

// Status returns the status of the given category.
func (r Result) Status(c Category) Status {
	switch c {
	case CategoryTitle:
		return r.Title.Status
	case CategoryDescription:
		return r.Description.Status
	case CategoryOpenGraph:
		return r.OpenGraph.Status
	case CategoryTwitter:
		return r.Twitter.Status
	}
	return StatusError
}
