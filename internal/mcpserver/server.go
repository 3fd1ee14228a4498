// Package mcpserver exposes the analyzer to MCP clients as tools and a
// resource listing recent analyses.
package mcpserver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"seo-tag-analyzer/internal/models"
	"seo-tag-analyzer/internal/pipeline"
	"seo-tag-analyzer/internal/presenter"
	"seo-tag-analyzer/pkg/logger"
)

const (
	serverName    = "seo-tag-analyzer"
	serverVersion = "1.0.0"

	recentURI   = "seo://analyses/recent"
	recentLimit = 20
)

// Service is the subset of the analysis pipeline the tools call.
type Service interface {
	Analyze(ctx context.Context, rawURL string) (models.Report, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Recent(ctx context.Context, limit int) ([]*models.Record, error)
}

type Server struct {
	svc Service
	log *zap.Logger
	mcp *server.MCPServer
}

// New registers the tools and resources on a fresh MCP server.
func New(svc Service, log *zap.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{svc: svc, log: log}
	s.mcp = server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	s.registerTools()
	s.registerResources()
	return s
}

func (s *Server) MCP() *server.MCPServer { return s.mcp }

// Handler serves the streamable HTTP transport.
func (s *Server) Handler() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(s.mcp)
}

func (s *Server) registerTools() {
	analyzeTool := mcp.NewTool("analyze_seo",
		mcp.WithDescription("Fetch a web page and score its title, meta description, Open Graph and Twitter Card tags. Returns a markdown report."),
		mcp.WithString("url",
			mcp.Required(),
			mcp.Description("Absolute http(s) URL of the page to analyze"),
		),
	)
	s.mcp.AddTool(analyzeTool, s.handleAnalyze)

	getTool := mcp.NewTool("get_seo_analysis",
		mcp.WithDescription("Return the markdown report of a stored analysis."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Analysis identifier returned by analyze_seo"),
		),
	)
	s.mcp.AddTool(getTool, s.handleGet)
}

func (s *Server) registerResources() {
	recent := mcp.NewResource(recentURI,
		"Recent SEO analyses",
		mcp.WithMIMEType("text/markdown"),
		mcp.WithResourceDescription("The most recent stored analyses, newest first"),
	)
	s.mcp.AddResource(recent, s.handleRecent)
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rawURL := strings.TrimSpace(request.GetString("url", ""))
	if rawURL == "" {
		return mcp.NewToolResultError("url parameter required"), nil
	}

	ctx = logger.WithContext(ctx, s.log.With(zap.String("tool", "analyze_seo")))
	report, err := s.svc.Analyze(ctx, rawURL)
	if err != nil {
		return s.toolError(err), nil
	}
	return mcp.NewToolResultText(presenter.Markdown(presenter.FromReport(report))), nil
}

func (s *Server) handleGet(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(request.GetString("id", ""))
	if id == "" {
		return mcp.NewToolResultError("id parameter required"), nil
	}

	rec, err := s.svc.Get(ctx, id)
	if err != nil {
		return s.toolError(err), nil
	}
	return mcp.NewToolResultText(presenter.Markdown(presenter.FromRecord(rec))), nil
}

func (s *Server) handleRecent(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	recs, err := s.svc.Recent(ctx, recentLimit)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      recentURI,
			MIMEType: "text/markdown",
			Text:     formatRecent(recs),
		},
	}, nil
}

func formatRecent(recs []*models.Record) string {
	if len(recs) == 0 {
		return "No analyses stored yet.\n"
	}
	var sb strings.Builder
	sb.WriteString("| ID | URL | Score | Created |\n| --- | --- | --- | --- |\n")
	for _, r := range recs {
		fmt.Fprintf(&sb, "| %s | %s | %d | %s |\n", r.ID, r.URL, r.Score, r.CreatedAt.UTC().Format("2006-01-02 15:04"))
	}
	return sb.String()
}

// toolError keeps internal failures opaque to the client.
func (s *Server) toolError(err error) *mcp.CallToolResult {
	var (
		verr *pipeline.ValidationError
		uerr *pipeline.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		return mcp.NewToolResultError(verr.Error())
	case errors.As(err, &uerr):
		return mcp.NewToolResultError("could not fetch page: " + uerr.Error())
	case errors.Is(err, pipeline.ErrNotFound):
		return mcp.NewToolResultError("analysis not found")
	case errors.Is(err, pipeline.ErrNoStore):
		return mcp.NewToolResultError("analysis storage is disabled")
	}
	s.log.Error("mcp tool failed", zap.Error(err))
	return mcp.NewToolResultError("internal error")
}
