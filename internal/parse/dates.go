package parse

import (
	"strings"
	"time"
)

// Date layouts observed across site revisions, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"Monday, January 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"1/2/2006",
}

// NormalizeDate converts a parseable source date to ISO YYYY-MM-DD.
// Unrecognized text ("See Schedule", day-of-week ranges) is returned
// verbatim; a date is never fabricated.
func NormalizeDate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return trimmed
}
