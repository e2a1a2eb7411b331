// Package article defines the bibliographic record served by the articles API
// and the helpers used to display, decode and search it.
package article

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NotAvailable is shown in place of a missing value.
const NotAvailable = "N/A"

const (
	doiBaseURL   = "https://doi.org/"
	missingTitle = "No title"
)

// ErrNoDocs is returned by Decode when an object payload carries no docs list.
var ErrNoDocs = errors.New("payload has no docs field")

// Article is a single bibliographic record.
type Article struct {
	ID              string   `json:"id"`
	Title           string   `json:"title_display"`
	PublicationDate string   `json:"publication_date,omitempty"`
	Authors         []string `json:"author_display,omitempty"`
}

// DOIURL links the article through the doi.org resolver.
func (a Article) DOIURL() string {
	return doiBaseURL + a.ID
}

// PlainTitle returns the title with inline markup removed and entities decoded.
func (a Article) PlainTitle() string {
	title := strings.TrimSpace(a.Title)
	if !strings.ContainsAny(title, "<&") {
		return title
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(title))
	if err != nil {
		return title
	}
	doc.Find("script, style").Remove()

	return strings.Join(strings.Fields(doc.Text()), " ")
}

// DisplayTitle is PlainTitle with a placeholder for untitled records.
func (a Article) DisplayTitle() string {
	if title := a.PlainTitle(); title != "" {
		return title
	}
	return missingTitle
}

// AuthorList joins the author names, or returns NotAvailable when there are none.
func (a Article) AuthorList() string {
	if len(a.Authors) == 0 {
		return NotAvailable
	}
	return strings.Join(a.Authors, ", ")
}

// Decode reads an articles payload. The API answers either with an object
// wrapping the list in "docs" or with a bare JSON array.
func Decode(r io.Reader) ([]Article, error) {
	const op = "article.Decode"

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: empty payload", op)
	}

	if trimmed[0] == '[' {
		var list []Article
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return list, nil
	}

	var envelope struct {
		Docs []Article `json:"docs"`
	}
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if envelope.Docs == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrNoDocs)
	}

	return envelope.Docs, nil
}
