package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"seo-tag-analyzer/internal/pipeline"
	"seo-tag-analyzer/pkg/logger"
)

// Error is the JSON error envelope returned by the API.
type Error struct {
	Code    string
	Message string
	Status  int
}

func NewError(code, message string, status int) Error {
	if status == 0 {
		status = http.StatusInternalServerError
	}
	return Error{Code: sanitize(code, 80), Message: sanitize(message, 512), Status: status}
}

// WriteError writes err with the request id attached when one is known.
func WriteError(ctx context.Context, w http.ResponseWriter, err Error) {
	payload := map[string]any{
		"error":   err.Code,
		"message": err.Message,
		"status":  err.Status,
	}
	if id := sanitize(middleware.GetReqID(ctx), 80); id != "" {
		payload["request_id"] = id
	}
	writeJSON(w, err.Status, payload)
}

// classify maps pipeline failures onto client or server errors. Unknown
// errors are logged and reported without detail.
func classify(ctx context.Context, err error) Error {
	var (
		verr *pipeline.ValidationError
		uerr *pipeline.UpstreamError
	)
	switch {
	case errors.As(err, &verr):
		return NewError("invalid_url", verr.Error(), http.StatusBadRequest)
	case errors.As(err, &uerr):
		return NewError("fetch_failed", uerr.Error(), http.StatusBadRequest)
	case errors.Is(err, pipeline.ErrNotFound):
		return NewError("not_found", "analysis not found", http.StatusNotFound)
	case errors.Is(err, pipeline.ErrNoStore):
		return NewError("storage_disabled", "analysis storage is disabled", http.StatusNotFound)
	}
	logger.FromContext(ctx).Error("request failed", zap.Error(err))
	return NewError("internal_error", "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func sanitize(value string, limit int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	value = strings.ReplaceAll(value, "\r", " ")
	value = strings.TrimSpace(value)
	if len(value) > limit {
		value = value[:limit]
	}
	return value
}
