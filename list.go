package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/sent-hil/plos-articles/article"
)

const maxTitleWidth = 60

func newListCmd(a *app) *cobra.Command {
	var (
		jsonOutput bool
		limit      int
	)

	cmd := &cobra.Command{
		Use:     "list [query]",
		Aliases: []string{"ls"},
		Short:   "List articles, optionally filtered by a search query",
		Long: `List the articles returned by the API as a table.

Examples:
  plos-articles list                 # List every article
  plos-articles list "gene therapy"  # Only articles matching the query
  plos-articles list --limit 10      # First ten articles
  plos-articles list --json          # Output as JSON`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.search(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			articles := snap.Articles
			if limit > 0 && len(articles) > limit {
				articles = articles[:limit]
			}

			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(articles)
			}

			printArticleTable(out, articles)

			summary := color.New(color.FgGreen)
			if len(snap.Articles) == 0 {
				summary = color.New(color.FgYellow)
			}
			summary.Fprintf(out, "\nFound %s\n", plural(len(snap.Articles), "article"))

			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum number of articles to print (0 means all)")

	return cmd
}

func printArticleTable(w io.Writer, articles []article.Article) {
	if len(articles) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)

	rows := make([][]string, 0, len(articles))
	for i, a := range articles {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			truncate(a.DisplayTitle(), maxTitleWidth),
			a.Date(),
			truncate(a.AuthorList(), maxTitleWidth/2),
			a.ID,
		})
	}

	table.Header([]string{"#", "Title", "Date", "Authors", "DOI"})
	table.Bulk(rows)
	table.Render()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
