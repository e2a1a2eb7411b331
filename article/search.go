package article

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter returns the articles whose title, authors or identifier contain
// query, ignoring case. A blank query returns articles unchanged.
func Filter(articles []Article, query string) []Article {
	query = strings.TrimSpace(query)
	if query == "" {
		return articles
	}

	fold := cases.Fold()
	needle := fold.String(query)

	matched := make([]Article, 0, len(articles))
	for _, a := range articles {
		if a.contains(fold, needle) {
			matched = append(matched, a)
		}
	}
	return matched
}

func (a Article) contains(fold cases.Caser, needle string) bool {
	if strings.Contains(fold.String(a.PlainTitle()), needle) {
		return true
	}
	for _, author := range a.Authors {
		if strings.Contains(fold.String(author), needle) {
			return true
		}
	}
	return strings.Contains(fold.String(a.ID), needle)
}
