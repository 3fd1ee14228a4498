package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"seo-tag-analyzer/internal/ioformats"
	"seo-tag-analyzer/internal/models"
	"seo-tag-analyzer/pkg/logger"
)

// batchLine is one NDJSON output record.
type batchLine struct {
	URL    string         `json:"url"`
	Result *models.Report `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
}

type analyzeFunc func(ctx context.Context, rawURL string) (models.Report, error)

func newBatchCmd(g *globalFlags) *cobra.Command {
	var (
		input       string
		output      string
		concurrency int
		save        bool
	)
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Analyze every URL in a CSV or NDJSON file",
		Long: `Analyze a list of URLs and write one NDJSON line per URL, in input order.

The input is a CSV file with a "url" header column, or an NDJSON file with
one URL per line (bare or as {"url": "..."}). A failed URL produces a line
with an "error" field; the batch itself keeps going.`,
		Example: `  seo-analyzer batch --input urls.csv
  seo-analyzer batch --input urls.ndjson --output results.ndjson --concurrency 4 --save`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if input == "" {
				return errors.New("missing --input")
			}
			if concurrency <= 0 {
				return fmt.Errorf("invalid concurrency: %d (must be positive)", concurrency)
			}
			urls, err := ioformats.ReadURLsFile(input)
			if err != nil {
				return fmt.Errorf("read input: %w", err)
			}

			e, err := g.loadEnv(save)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := logger.WithContext(cmd.Context(), e.log)
			lines := runBatch(ctx, e.svc.Analyze, urls, concurrency)

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create output: %w", err)
				}
				defer f.Close()
				w = f
			}
			if err := ioformats.WriteNDJSON(w, lines); err != nil {
				return err
			}

			failed := 0
			for _, l := range lines {
				if l.Error != "" {
					failed++
				}
			}
			e.log.Info("batch complete", zap.Int("urls", len(lines)), zap.Int("failed", failed))
			return nil
		},
	}
	cmd.Flags().StringVarP(&input, "input", "i", "", "input file (csv with 'url' column or ndjson)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output NDJSON file (default stdout)")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 10, "number of pages fetched at once")
	cmd.Flags().BoolVar(&save, "save", false, "store each analysis in the database")
	return cmd
}

// runBatch analyzes urls with at most limit in flight. Per-URL failures are
// recorded on the line rather than aborting the batch.
func runBatch(ctx context.Context, analyze analyzeFunc, urls []string, limit int) []batchLine {
	lines := make([]batchLine, len(urls))
	var g errgroup.Group
	g.SetLimit(limit)
	for i, u := range urls {
		g.Go(func() error {
			lines[i].URL = u
			report, err := analyze(ctx, u)
			if err != nil {
				lines[i].Error = err.Error()
				return nil
			}
			lines[i].Result = &report
			return nil
		})
	}
	_ = g.Wait()
	return lines
}
