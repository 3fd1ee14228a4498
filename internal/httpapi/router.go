// Package httpapi serves the analysis API over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"seo-tag-analyzer/internal/models"
	"seo-tag-analyzer/internal/presenter"
	"seo-tag-analyzer/pkg/logger"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	maxBodyBytes     = 64 << 10
)

type Service interface {
	Analyze(ctx context.Context, rawURL string) (models.Report, error)
	Get(ctx context.Context, id string) (*models.Record, error)
	Recent(ctx context.Context, limit int) ([]*models.Record, error)
}

type options struct {
	log *zap.Logger
	mcp http.Handler
}

type Option func(*options)

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMCP mounts an MCP transport at /mcp.
func WithMCP(h http.Handler) Option {
	return func(o *options) { o.mcp = h }
}

type handler struct {
	svc Service
}

// NewRouter wires the API routes and middleware.
func NewRouter(svc Service, opts ...Option) http.Handler {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Nop()
	}

	h := &handler{svc: svc}
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(o.log))
	r.Use(recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/analyze-seo", h.analyze)
		r.Get("/seo-analysis/{id}", h.getAnalysis)
		r.Get("/seo-analyses", h.listAnalyses)
	})
	r.Get("/report/{id}", h.report)

	if o.mcp != nil {
		r.Handle("/mcp", o.mcp)
		r.Handle("/mcp/*", o.mcp)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, NewError("not_found", "route not found", http.StatusNotFound))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(r.Context(), w, NewError("method_not_allowed", "method not allowed", http.StatusMethodNotAllowed))
	})
	return r
}

type analyzeRequest struct {
	URL string `json:"url"`
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req analyzeRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		WriteError(ctx, w, NewError("invalid_payload", "request body must be a JSON object with a url field", http.StatusBadRequest))
		return
	}
	if strings.TrimSpace(req.URL) == "" {
		WriteError(ctx, w, NewError("invalid_url", "url is required", http.StatusBadRequest))
		return
	}

	report, err := h.svc.Analyze(ctx, strings.TrimSpace(req.URL))
	if err != nil {
		WriteError(ctx, w, classify(ctx, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *handler) getAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(ctx, w, classify(ctx, err))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *handler) listAnalyses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit, err := parseLimit(r.URL.Query().Get("limit"))
	if err != nil {
		WriteError(ctx, w, NewError("invalid_limit", err.Error(), http.StatusBadRequest))
		return
	}
	recs, err := h.svc.Recent(ctx, limit)
	if err != nil {
		WriteError(ctx, w, classify(ctx, err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": recs, "limit": limit})
}

func (h *handler) report(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rec, err := h.svc.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		WriteError(ctx, w, classify(ctx, err))
		return
	}
	page, err := presenter.HTML(presenter.FromRecord(rec))
	if err != nil {
		WriteError(ctx, w, classify(ctx, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

var errLimit = errors.New("limit must be a positive integer")

// parseLimit defaults an absent limit and caps large ones.
func parseLimit(raw string) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultListLimit, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, errLimit
	}
	if n > maxListLimit {
		n = maxListLimit
	}
	return n, nil
}
