package app

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"seo-tag-analyzer/internal/presenter"
)

func newShowCmd(g *globalFlags) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:     "show <id>",
		Short:   "Show a stored analysis",
		Example: `  seo-analyzer show 01HY4R7J3XQ2W5V8N6M1K0B9CD --format markdown`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(format, reportFormats...); err != nil {
				return err
			}
			e, err := g.loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()

			rec, err := e.svc.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == presenter.FormatJSON {
				return writeIndented(out, rec)
			}
			return presenter.Render(out, presenter.FromRecord(rec), format, colorFor(out))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", presenter.FormatText, "output format: text, json, markdown, html")
	return cmd
}

func newListCmd(g *globalFlags) *cobra.Command {
	var (
		limit  int
		format string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent stored analyses, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("invalid limit: %d (must be positive)", limit)
			}
			if err := validateFormat(format, presenter.FormatText, presenter.FormatJSON); err != nil {
				return err
			}
			e, err := g.loadEnv(true)
			if err != nil {
				return err
			}
			defer e.Close()

			recs, err := e.svc.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if format == presenter.FormatJSON {
				return writeIndented(out, recs)
			}
			if len(recs) == 0 {
				_, err := fmt.Fprintln(out, "No analyses stored yet.")
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tSCORE\tCREATED\tURL")
			for _, r := range recs {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", r.ID, r.Score, r.CreatedAt.Local().Format("2006-01-02 15:04"), r.URL)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of analyses")
	cmd.Flags().StringVarP(&format, "format", "f", presenter.FormatText, "output format: text, json")
	return cmd
}
