package article

import (
	"strings"
	"time"
)

const displayDateLayout = "02-01-2006"

// Layouts accepted for publication dates, tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate parses an ISO-like date string.
func ParseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders raw as DD-MM-YYYY. Missing or unparseable input yields NotAvailable.
func FormatDate(raw string) string {
	t, ok := ParseDate(raw)
	if !ok {
		return NotAvailable
	}
	return t.Format(displayDateLayout)
}

// Date returns the formatted publication date.
func (a Article) Date() string {
	return FormatDate(a.PublicationDate)
}
