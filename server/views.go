package server

import (
	"html/template"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sent-hil/plos-articles/article"
	"github.com/sent-hil/plos-articles/catalog"
)

// titlePolicy keeps the inline markup the API uses in titles.
var titlePolicy = bluemonday.NewPolicy().AllowElements("i", "em", "b", "strong", "sub", "sup", "u", "sc")

// RowView represents an article for view in the UI
type RowView struct {
	Number  int
	Title   template.HTML
	Date    string
	Authors string
	DOIURL  string
}

type tableView struct {
	Rows        []RowView
	State       catalog.State
	Message     string
	Query       string
	Count       int
	CurrentPage int
	TotalPages  int
	PageSize    int

	articles []article.Article
	offset   int
}

func buildTable(snap catalog.Snapshot, page, pageSize int) tableView {
	total := len(snap.Articles)

	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	offset := (page - 1) * pageSize
	end := offset + pageSize
	if end > total {
		end = total
	}

	visible := snap.Articles[offset:end]

	rows := make([]RowView, 0, len(visible))
	for i, a := range visible {
		rows = append(rows, RowView{
			Number:  offset + i + 1,
			Title:   titleHTML(a),
			Date:    a.Date(),
			Authors: a.AuthorList(),
			DOIURL:  a.DOIURL(),
		})
	}

	return tableView{
		Rows:        rows,
		State:       snap.State,
		Query:       snap.Query,
		Count:       total,
		CurrentPage: page,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		articles:    visible,
		offset:      offset,
	}
}

// stateMessage is the text of the single row shown instead of articles.
func stateMessage(state catalog.State) string {
	switch state {
	case catalog.StateLoading:
		return "Loading articles..."
	case catalog.StateError:
		return "Error loading articles"
	case catalog.StateEmpty:
		return "No results found"
	default:
		return ""
	}
}

func titleHTML(a article.Article) template.HTML {
	if a.PlainTitle() == "" {
		return template.HTML(template.HTMLEscapeString(a.DisplayTitle()))
	}
	return template.HTML(titlePolicy.Sanitize(a.Title))
}

type articleJSON struct {
	Number          int      `json:"number"`
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	PublicationDate string   `json:"publicationDate,omitempty"`
	Date            string   `json:"date"`
	Authors         []string `json:"authors"`
	DOIURL          string   `json:"doiUrl"`
}

// JSON returns the visible page of articles for the JSON API.
func (t tableView) JSON() []articleJSON {
	out := make([]articleJSON, 0, len(t.articles))
	for i, a := range t.articles {
		authors := a.Authors
		if authors == nil {
			authors = []string{}
		}
		out = append(out, articleJSON{
			Number:          t.offset + i + 1,
			ID:              a.ID,
			Title:           a.PlainTitle(),
			PublicationDate: a.PublicationDate,
			Date:            a.Date(),
			Authors:         authors,
			DOIURL:          a.DOIURL(),
		})
	}
	return out
}
