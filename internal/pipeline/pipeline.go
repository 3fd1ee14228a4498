// Package pipeline runs one analysis request end to end: validate the URL,
// fetch the page, extract its tags, score them and persist the record.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"seo-tag-analyzer/internal/analyzer"
	"seo-tag-analyzer/internal/crawler"
	"seo-tag-analyzer/internal/models"
	"seo-tag-analyzer/internal/store"
	"seo-tag-analyzer/pkg/logger"
)

// ValidationError means the request was rejected before any fetch.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string { return e.Err.Error() }
func (e *ValidationError) Unwrap() error { return e.Err }

// UpstreamError means the page could not be fetched or parsed. No partial
// result is produced.
type UpstreamError struct {
	URL string
	Err error
}

func (e *UpstreamError) Error() string { return e.Err.Error() }
func (e *UpstreamError) Unwrap() error { return e.Err }

// ErrNotFound is returned by Get when no record exists.
var ErrNotFound = store.ErrNotFound

// ErrNoStore is returned by Get and Recent when persistence is disabled.
var ErrNoStore = errors.New("persistence is not configured")

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (*crawler.Response, error)
}

type Extractor interface {
	Extract(r io.Reader, contentType string) (models.Page, error)
}

// Store is the persistence the service needs. Get wraps ErrNotFound for
// unknown ids.
type Store interface {
	Insert(ctx context.Context, rec *models.Record) error
	Get(ctx context.Context, id string) (*models.Record, error)
	List(ctx context.Context, limit int) ([]*models.Record, error)
}

type Service struct {
	fetcher   Fetcher
	extractor Extractor
	store     Store
	timeout   time.Duration
}

type Option func(*Service)

// WithStore enables persistence.
func WithStore(s Store) Option {
	return func(svc *Service) { svc.store = s }
}

// WithFetchTimeout bounds each fetch. Zero leaves the caller's context as is.
func WithFetchTimeout(d time.Duration) Option {
	return func(svc *Service) { svc.timeout = d }
}

func New(f Fetcher, e Extractor, opts ...Option) *Service {
	svc := &Service{fetcher: f, extractor: e}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Persistent reports whether records are stored.
func (s *Service) Persistent() bool { return s.store != nil }

// Analyze fetches rawURL and returns its report. The record is persisted
// when a store is configured; ID and CreatedAt are empty otherwise.
func (s *Service) Analyze(ctx context.Context, rawURL string) (models.Report, error) {
	log := logger.FromContext(ctx)

	if _, err := crawler.ValidateURL(rawURL); err != nil {
		return models.Report{}, &ValidationError{Err: err}
	}

	fetchCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.fetcher.Fetch(fetchCtx, rawURL)
	if err != nil {
		if errors.Is(err, crawler.ErrInvalidURL) {
			return models.Report{}, &ValidationError{Err: err}
		}
		log.Warn("fetch failed", zap.String("url", rawURL), zap.Error(err))
		return models.Report{}, &UpstreamError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	page, err := s.extractor.Extract(resp.Body, resp.ContentType)
	if err != nil {
		log.Warn("extract failed", zap.String("url", rawURL), zap.Error(err))
		return models.Report{}, &UpstreamError{URL: rawURL, Err: fmt.Errorf("parse %s: %w", rawURL, err)}
	}

	result := analyzer.Analyze(page.Title, page.Description, page.OGTags, page.TwitterTags)
	report := models.NewReport(rawURL, page, result)
	report.FinalURL = resp.FinalURL
	report.FetchMs = resp.Elapsed.Milliseconds()

	if s.store != nil {
		if err := s.store.Insert(ctx, &report.Record); err != nil {
			log.Error("persist analysis failed", zap.String("url", rawURL), zap.Error(err))
			return models.Report{}, fmt.Errorf("persist analysis: %w", err)
		}
	}

	log.Info("analysis complete",
		zap.String("url", rawURL),
		zap.String("id", report.ID),
		zap.Int("score", report.Score),
		zap.Int64("fetch_ms", report.FetchMs),
	)
	return report, nil
}

// Get returns a stored record.
func (s *Service) Get(ctx context.Context, id string) (*models.Record, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.Get(ctx, id)
}

// Recent returns up to limit stored records, newest first.
func (s *Service) Recent(ctx context.Context, limit int) ([]*models.Record, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	return s.store.List(ctx, limit)
}
