package mcpserver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"

	"seo-tag-analyzer/internal/analyzer"
	"seo-tag-analyzer/internal/crawler"
	"seo-tag-analyzer/internal/models"
	"seo-tag-analyzer/internal/pipeline"
)

type fakeService struct {
	report    models.Report
	analyzeFn func(rawURL string) error
	records   map[string]*models.Record
	gotURL    string
}

func (f *fakeService) Analyze(_ context.Context, rawURL string) (models.Report, error) {
	f.gotURL = rawURL
	if f.analyzeFn != nil {
		if err := f.analyzeFn(rawURL); err != nil {
			return models.Report{}, err
		}
	}
	return f.report, nil
}

func (f *fakeService) Get(_ context.Context, id string) (*models.Record, error) {
	if f.records == nil {
		return nil, pipeline.ErrNoStore
	}
	rec, ok := f.records[id]
	if !ok {
		return nil, pipeline.ErrNotFound
	}
	return rec, nil
}

func (f *fakeService) Recent(context.Context, int) ([]*models.Record, error) {
	out := []*models.Record{}
	for _, r := range f.records {
		out = append(out, r)
	}
	return out, nil
}

func sampleReport() models.Report {
	page := models.Page{Title: "A reasonably descriptive page title here"}
	r := models.NewReport("https://example.com", page, analyzer.Analyze(page.Title, "", nil, nil))
	r.ID = "01HSAMPLE"
	r.CreatedAt = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return r
}

func callTool(name string, args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestAnalyzeTool(t *testing.T) {
	svc := &fakeService{report: sampleReport()}
	s := New(svc, nil)

	res, err := s.handleAnalyze(context.Background(), callTool("analyze_seo", map[string]any{"url": "  https://example.com "}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Equal(t, "https://example.com", svc.gotURL)

	text := resultText(t, res)
	require.Contains(t, text, "# SEO report for https://example.com")
	require.Contains(t, text, "Analysis `01HSAMPLE`")
	require.Contains(t, text, "Add a meta description to your page")
}

func TestAnalyzeToolErrors(t *testing.T) {
	cases := map[string]struct {
		err  error
		want string
	}{
		"validation": {&pipeline.ValidationError{Err: crawler.ErrInvalidURL}, crawler.ErrInvalidURL.Error()},
		"upstream":   {&pipeline.UpstreamError{URL: "u", Err: errors.New("fetch u: timed out")}, "could not fetch page: fetch u: timed out"},
		"internal":   {errors.New("disk on fire"), "internal error"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			svc := &fakeService{analyzeFn: func(string) error { return tc.err }}
			res, err := New(svc, nil).handleAnalyze(context.Background(), callTool("analyze_seo", map[string]any{"url": "https://x.test"}))
			require.NoError(t, err)
			require.True(t, res.IsError)
			require.Equal(t, tc.want, resultText(t, res))
		})
	}
}

func TestAnalyzeToolRequiresURL(t *testing.T) {
	res, err := New(&fakeService{}, nil).handleAnalyze(context.Background(), callTool("analyze_seo", nil))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "url parameter required", resultText(t, res))
}

func TestGetTool(t *testing.T) {
	rep := sampleReport()
	svc := &fakeService{records: map[string]*models.Record{rep.ID: &rep.Record}}
	s := New(svc, nil)

	res, err := s.handleGet(context.Background(), callTool("get_seo_analysis", map[string]any{"id": rep.ID}))
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.Contains(t, resultText(t, res), "**Score:** 25/100")

	res, err = s.handleGet(context.Background(), callTool("get_seo_analysis", map[string]any{"id": "missing"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "analysis not found", resultText(t, res))
}

func TestGetToolWithoutStore(t *testing.T) {
	res, err := New(&fakeService{}, nil).handleGet(context.Background(), callTool("get_seo_analysis", map[string]any{"id": "x"}))
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Equal(t, "analysis storage is disabled", resultText(t, res))
}

func TestRecentResource(t *testing.T) {
	rep := sampleReport()
	s := New(&fakeService{records: map[string]*models.Record{rep.ID: &rep.Record}}, nil)

	contents, err := s.handleRecent(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)
	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	require.Equal(t, "text/markdown", text.MIMEType)
	require.Contains(t, text.Text, "| 01HSAMPLE | https://example.com | 25 | 2024-01-02 03:04 |")

	require.Equal(t, "No analyses stored yet.\n", formatRecent(nil))
}

func TestServerRegistersTools(t *testing.T) {
	s := New(&fakeService{}, nil)
	require.NotNil(t, s.MCP())
	require.NotNil(t, s.Handler())
}
