package presenter

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

var ansiColors = map[string]string{
	ColorGreen:  ansiGreen,
	ColorYellow: ansiYellow,
	ColorRed:    ansiRed,
}

// ColorEnabled reports whether f is a terminal and NO_COLOR is unset.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

type painter bool

func (p painter) paint(color, text string) string {
	if !p {
		return text
	}
	code, ok := ansiColors[color]
	if !ok {
		code = ansiBold
	}
	return code + text + ansiReset
}

// Text writes a terminal report. color enables ANSI escapes.
func Text(w io.Writer, v View, color bool) error {
	p := painter(color)
	var sb strings.Builder

	scoreStyle := StatusStyle(v.ScoreStatus)
	fmt.Fprintf(&sb, "%s %s\n", p.paint("", "SEO report for"), v.URL)
	if v.ID != "" {
		fmt.Fprintf(&sb, "ID:      %s\n", v.ID)
	}
	if !v.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "Created: %s\n", v.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	}
	fmt.Fprintf(&sb, "Score:   %s\n\n", p.paint(scoreStyle.Color, fmt.Sprintf("%d/100", v.Score)))

	for _, r := range v.Rows {
		st := StatusStyle(r.Status)
		fmt.Fprintf(&sb, "  %s %-17s %-9s %-10s %s\n",
			p.paint(st.Color, st.Icon), r.Name, p.paint(st.Color, fmt.Sprintf("%-7s", st.Label)), r.Detail, r.Message)
	}

	sb.WriteString("\nSearch preview\n")
	fmt.Fprintf(&sb, "  %s\n  %s\n  %s\n", v.Search.Title, v.Search.Domain, v.Search.Description)

	sb.WriteString("\nSocial preview\n")
	fmt.Fprintf(&sb, "  %s\n  %s\n  %s\n", v.Social.Title, v.Social.Domain, v.Social.Description)
	image := v.Social.Image
	if v.Social.ImageFallback {
		image += " (placeholder)"
	}
	fmt.Fprintf(&sb, "  image: %s\n", image)
	if v.Social.TwitterFallback {
		sb.WriteString("  Twitter Card tags missing; platforms fall back to Open Graph.\n")
	}

	sb.WriteString("\nRecommendations\n")
	if len(v.Recommendations) == 0 {
		sb.WriteString("  None. All checks passed.\n")
	}
	for _, rec := range v.Recommendations {
		fmt.Fprintf(&sb, "  [%s] %s\n", p.paint(priorityColors[rec.Priority], fmt.Sprintf("%-6s", priorityLabel(rec.Priority))), rec.Text)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

// Markdown renders the report as GitHub-flavoured markdown.
func Markdown(v View) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# SEO report for %s\n\n", escapeMarkdown(v.URL))
	st := StatusStyle(v.ScoreStatus)
	fmt.Fprintf(&sb, "**Score:** %d/100 (%s)\n\n", v.Score, st.Label)
	if v.ID != "" {
		fmt.Fprintf(&sb, "Analysis `%s`", v.ID)
		if !v.CreatedAt.IsZero() {
			fmt.Fprintf(&sb, ", created %s", v.CreatedAt.UTC().Format("2006-01-02 15:04 UTC"))
		}
		sb.WriteString("\n\n")
	}

	sb.WriteString("| Check | Status | Detail | Message |\n")
	sb.WriteString("| --- | --- | --- | --- |\n")
	for _, r := range v.Rows {
		rs := StatusStyle(r.Status)
		fmt.Fprintf(&sb, "| %s | %s %s | %s | %s |\n", r.Name, rs.Icon, rs.Label, r.Detail, escapeMarkdown(r.Message))
	}

	sb.WriteString("\n## Search preview\n\n")
	fmt.Fprintf(&sb, "**%s**  \n%s  \n%s\n", escapeMarkdown(v.Search.Title), escapeMarkdown(v.Search.Domain), escapeMarkdown(v.Search.Description))

	sb.WriteString("\n## Social preview\n\n")
	fmt.Fprintf(&sb, "![preview image](<%s>)\n\n", destinationEscaper.Replace(v.Social.Image))
	fmt.Fprintf(&sb, "**%s**  \n%s  \n%s\n", escapeMarkdown(v.Social.Title), escapeMarkdown(v.Social.Domain), escapeMarkdown(v.Social.Description))
	if v.Social.ImageFallback {
		sb.WriteString("\n_No og:image found; a placeholder is shown._\n")
	}
	if v.Social.TwitterFallback {
		sb.WriteString("\n_Twitter Card tags are missing; platforms fall back to Open Graph._\n")
	}

	sb.WriteString("\n## Recommendations\n\n")
	if len(v.Recommendations) == 0 {
		sb.WriteString("All checks passed.\n")
	}
	for _, rec := range v.Recommendations {
		fmt.Fprintf(&sb, "- **%s:** %s\n", priorityLabel(rec.Priority), escapeMarkdown(rec.Text))
	}
	return sb.String()
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	"*", `\*`,
	"_", `\_`,
	"`", "\\`",
	"|", `\|`,
	"[", `\[`,
	"]", `\]`,
	"<", "&lt;",
	">", "&gt;",
)

func escapeMarkdown(s string) string { return markdownEscaper.Replace(s) }

var destinationEscaper = strings.NewReplacer("<", "%3C", ">", "%3E", "\n", "", "\r", "")

var (
	md = goldmark.New(goldmark.WithExtensions(extension.Table))

	reportPolicy = func() *bluemonday.Policy {
		p := bluemonday.UGCPolicy()
		p.AllowAttrs("loading").OnElements("img")
		p.RequireNoFollowOnLinks(true)
		return p
	}()

	pageTmpl = template.Must(template.New("report").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>SEO report: {{.URL}}</title>
<style>
body{font-family:system-ui,sans-serif;max-width:860px;margin:2rem auto;padding:0 1rem;color:#1f2933}
table{border-collapse:collapse;width:100%}th,td{border:1px solid #d9e2ec;padding:.4rem .6rem;text-align:left}
img{max-width:100%;border-radius:6px}
.score{font-size:2rem;font-weight:700}
.green{color:#2f855a}.yellow{color:#b7791f}.red{color:#c53030}
</style>
</head>
<body>
<p class="score {{.ScoreClass}}">{{.Score}}/100</p>
{{.Body}}
</body>
</html>
`))
)

// HTML renders the markdown report into a standalone page. The converted
// body is sanitized before it is placed in the page shell.
func HTML(v View) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert([]byte(Markdown(v)), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	safe := reportPolicy.SanitizeBytes(body.Bytes())

	var out bytes.Buffer
	err := pageTmpl.Execute(&out, struct {
		URL        string
		Score      int
		ScoreClass string
		Body       template.HTML
	}{
		URL:        v.URL,
		Score:      v.Score,
		ScoreClass: StatusStyle(v.ScoreStatus).Color,
		Body:       template.HTML(safe),
	})
	if err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}
	return out.Bytes(), nil
}

// Render writes v in the named format: text, markdown or html.
func Render(w io.Writer, v View, format string, color bool) error {
	switch format {
	case "", FormatText:
		return Text(w, v, color)
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(v))
		return err
	case FormatHTML:
		page, err := HTML(v)
		if err != nil {
			return err
		}
		_, err = w.Write(page)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
)
