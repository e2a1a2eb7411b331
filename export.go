package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sent-hil/plos-articles/metrics"
	"github.com/sent-hil/plos-articles/report"
)

const (
	formatPDF      = "pdf"
	formatMarkdown = "md"
)

func newReportCmd(a *app) *cobra.Command {
	var (
		output string
		format string
	)

	cmd := &cobra.Command{
		Use:   "report [query]",
		Short: "Export articles as a PDF or Markdown report",
		Long: `Write the articles matching query (all of them by default) to a report file.

Examples:
  plos-articles report                          # plos_report.pdf with every article
  plos-articles report malaria -o malaria.pdf   # Only matching articles
  plos-articles report --format md              # Markdown list instead of PDF`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			if format != formatPDF && format != formatMarkdown {
				return fmt.Errorf("unknown report format %q (want %s or %s)", format, formatPDF, formatMarkdown)
			}

			if output == "" {
				output = a.cfg.Report.FileName
				if format == formatMarkdown {
					output = strings.TrimSuffix(output, ".pdf") + ".md"
				}
			}

			snap, err := a.search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("create report: %w", err)
			}
			defer f.Close()

			switch format {
			case formatMarkdown:
				err = report.WriteMarkdown(f, snap.Articles, a.cfg.Report.Title)
				metrics.RecordReport("markdown")
			default:
				err = report.WritePDF(f, snap.Articles, report.Options{
					Title:     a.cfg.Report.Title,
					Generated: time.Now(),
					FontSize:  a.cfg.Report.FontSize,
				})
				metrics.RecordReport("pdf")
			}
			if err != nil {
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close report: %w", err)
			}

			color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "✓ Wrote %s to %s\n", plural(len(snap.Articles), "article"), output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default is report.file_name from config)")
	cmd.Flags().StringVar(&format, "format", formatPDF, "report format: pdf or md")

	return cmd
}
