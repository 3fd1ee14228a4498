package app

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"seo-tag-analyzer/internal/presenter"
	"seo-tag-analyzer/pkg/logger"
)

var reportFormats = []string{presenter.FormatText, presenter.FormatJSON, presenter.FormatMarkdown, presenter.FormatHTML}

func newAnalyzeCmd(g *globalFlags) *cobra.Command {
	var (
		format string
		save   bool
	)
	cmd := &cobra.Command{
		Use:   "analyze <url>",
		Short: "Fetch a page and report on its SEO tags",
		Example: `  seo-analyzer analyze https://example.com
  seo-analyzer analyze https://example.com --format json
  seo-analyzer analyze https://example.com --format html --save > report.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, reportFormats...); err != nil {
				return err
			}
			e, err := g.loadEnv(save)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := logger.WithContext(cmd.Context(), e.log)
			report, err := e.svc.Analyze(ctx, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format == presenter.FormatJSON {
				return writeIndented(out, report)
			}
			return presenter.Render(out, presenter.FromReport(report), format, colorFor(out))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", presenter.FormatText, "output format: text, json, markdown, html")
	cmd.Flags().BoolVar(&save, "save", false, "store the analysis in the database")
	return cmd
}

func writeIndented(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
