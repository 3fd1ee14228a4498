// Package presenter turns analysis results into previews, prioritized
// advice and rendered reports (terminal text, markdown, HTML).
package presenter

import "seo-tag-analyzer/internal/analyzer"

const (
	ColorGreen  = "green"
	ColorYellow = "yellow"
	ColorRed    = "red"
)

// Style is how a status is displayed.
type Style struct {
	Label string
	Icon  string
	Color string
}

var styles = map[analyzer.Status]Style{
	analyzer.StatusGood:    {Label: "Good", Icon: "✓", Color: ColorGreen},
	analyzer.StatusWarning: {Label: "Warning", Icon: "!", Color: ColorYellow},
	analyzer.StatusError:   {Label: "Missing", Icon: "✗", Color: ColorRed},
}

// StatusStyle is the single status-to-display mapping used by every renderer.
// Unknown statuses display like errors.
func StatusStyle(s analyzer.Status) Style {
	if st, ok := styles[s]; ok {
		return st
	}
	return styles[analyzer.StatusError]
}

// ScoreStatus bands an overall score.
func ScoreStatus(score int) analyzer.Status {
	switch {
	case score >= 80:
		return analyzer.StatusGood
	case score >= 60:
		return analyzer.StatusWarning
	default:
		return analyzer.StatusError
	}
}

var priorityLabels = map[analyzer.Priority]string{
	analyzer.PriorityHigh:   "High",
	analyzer.PriorityMedium: "Medium",
	analyzer.PriorityLow:    "Low",
}

func priorityLabel(p analyzer.Priority) string {
	if l, ok := priorityLabels[p]; ok {
		return l
	}
	return priorityLabels[analyzer.PriorityLow]
}

var priorityColors = map[analyzer.Priority]string{
	analyzer.PriorityHigh:   ColorRed,
	analyzer.PriorityMedium: ColorYellow,
	analyzer.PriorityLow:    ColorGreen,
}
