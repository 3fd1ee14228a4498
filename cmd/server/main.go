package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"seo-tag-analyzer/internal/app"
	"seo-tag-analyzer/internal/config"
	"seo-tag-analyzer/internal/crawler"
	"seo-tag-analyzer/internal/parser"
	"seo-tag-analyzer/internal/pipeline"
	"seo-tag-analyzer/internal/store"
	"seo-tag-analyzer/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	l, err := logger.New(cfg.Log.Level)
	if err != nil {
		return err
	}
	defer func() { _ = l.Sync() }()

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	l.Info("store ready", zap.String("path", cfg.Store.Path))

	client := crawler.NewHTTPClient(cfg.Fetch.Timeout, cfg.Fetch.DialTimeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
	svc := pipeline.New(client, parser.New(),
		pipeline.WithStore(st),
		pipeline.WithFetchTimeout(cfg.Fetch.Timeout),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Serve(ctx, cfg, svc, l)
}
