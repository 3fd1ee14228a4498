package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"seo-tag-analyzer/internal/config"
	"seo-tag-analyzer/internal/httpapi"
	"seo-tag-analyzer/internal/mcpserver"
	"seo-tag-analyzer/internal/pipeline"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd(g *globalFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API (and the MCP endpoint when enabled)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := g.loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()
			if addr != "" {
				e.cfg.Server.Addr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return Serve(ctx, e.cfg, e.svc, e.log)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides SEO_SERVER_ADDR)")
	return cmd
}

// NewHandler builds the HTTP handler for svc, mounting MCP when enabled.
func NewHandler(cfg config.Config, svc *pipeline.Service, log *zap.Logger) http.Handler {
	opts := []httpapi.Option{httpapi.WithLogger(log)}
	if cfg.MCP.Enabled {
		opts = append(opts, httpapi.WithMCP(mcpserver.New(svc, log).Handler()))
	}
	return httpapi.NewRouter(svc, opts...)
}

// Serve listens on cfg.Server.Addr until ctx is done, then drains
// in-flight requests.
func Serve(ctx context.Context, cfg config.Config, svc *pipeline.Service, log *zap.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      NewHandler(cfg, svc, log),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("addr", ln.Addr().String()),
			zap.Bool("mcp", cfg.MCP.Enabled),
			zap.Bool("persistent", svc.Persistent()),
		)
		if err := srv.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("bye")
	return nil
}
