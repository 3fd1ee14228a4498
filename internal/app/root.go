// Package app implements the seo-analyzer command line.
package app

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seo-tag-analyzer/internal/config"
	"seo-tag-analyzer/internal/crawler"
	"seo-tag-analyzer/internal/parser"
	"seo-tag-analyzer/internal/pipeline"
	"seo-tag-analyzer/internal/presenter"
	"seo-tag-analyzer/internal/store"
	"seo-tag-analyzer/pkg/logger"
)

type globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "seo-analyzer",
		Short: "Score a page's title, description, Open Graph and Twitter Card tags",
		Long: `seo-analyzer fetches web pages and scores their SEO meta tags from 0 to 100.

Each page gets 25 points per category when the category is in good shape:
  - title: 30-60 characters
  - meta description: 120-160 characters
  - Open Graph: og:title, og:description, og:image, og:url
  - Twitter Card: twitter:card, twitter:title, twitter:description

Configuration comes from defaults, a YAML file (--config or SEO_CONFIG_FILE)
and SEO_* environment variables, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "YAML config file (default: $SEO_CONFIG_FILE)")
	root.PersistentFlags().StringVar(&g.dbPath, "db", "", "database path (overrides SEO_STORE_PATH)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides SEO_LOG_LEVEL)")
	root.SuggestionsMinimumDistance = 2

	root.AddCommand(
		newAnalyzeCmd(g),
		newBatchCmd(g),
		newShowCmd(g),
		newListCmd(g),
		newServeCmd(g),
	)
	return root
}

// Execute runs the command line with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

// env is what a command needs at run time.
type env struct {
	cfg   config.Config
	log   *zap.Logger
	store *store.Store
	svc   *pipeline.Service
}

// loadEnv resolves configuration and builds the service. withStore opens
// the database.
func (g *globalFlags) loadEnv(withStore bool) (*env, error) {
	var opts []config.Option
	if g.configPath != "" {
		opts = append(opts, config.WithFile(g.configPath))
	}
	overrides := map[string]string{}
	if g.dbPath != "" {
		overrides["SEO_STORE_PATH"] = g.dbPath
	}
	if g.logLevel != "" {
		overrides["SEO_LOG_LEVEL"] = g.logLevel
	}
	opts = append(opts, config.WithEnvMap(overrides))

	cfg, err := config.Load(opts...)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	e := &env{cfg: cfg, log: log}
	svcOpts := []pipeline.Option{pipeline.WithFetchTimeout(cfg.Fetch.Timeout)}
	if withStore {
		st, err := store.Open(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		e.store = st
		svcOpts = append(svcOpts, pipeline.WithStore(st))
	}

	client := crawler.NewHTTPClient(cfg.Fetch.Timeout, cfg.Fetch.DialTimeout, cfg.Fetch.MaxBytes, cfg.Fetch.UserAgent)
	e.svc = pipeline.New(client, parser.New(), svcOpts...)
	return e, nil
}

func (e *env) Close() {
	if e.store != nil {
		_ = e.store.Close()
	}
	_ = e.log.Sync()
}

func validateFormat(format string, allowed ...string) error {
	for _, f := range allowed {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q (want one of %v)", format, allowed)
}

func colorFor(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && presenter.ColorEnabled(f)
}
