package report

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/sent-hil/plos-articles/article"
)

var markdownEscaper = strings.NewReplacer(`[`, `\[`, `]`, `\]`, `*`, `\*`, `_`, `\_`)

// WriteMarkdown writes articles as a Markdown list, one
// "- Title [[doi](url)]" entry per article.
func WriteMarkdown(w io.Writer, articles []article.Article, title string) error {
	const op = "report.WriteMarkdown"

	bw := bufio.NewWriter(w)

	if title != "" {
		fmt.Fprintf(bw, "# %s\n\n", title)
	}

	if len(articles) == 0 {
		fmt.Fprintln(bw, "_No articles to report._")
	}

	for _, a := range articles {
		fmt.Fprintf(bw, "- %s [[doi](%s)]\n", markdownEscaper.Replace(a.DisplayTitle()), a.DOIURL())
		fmt.Fprintf(bw, "  - Date: %s\n", a.Date())
		fmt.Fprintf(bw, "  - Authors: %s\n", markdownEscaper.Replace(a.AuthorList()))
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
