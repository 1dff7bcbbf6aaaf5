package utils

import (
	"fmt"
	"time"
)

// DefaultDateFormat is the ISO 8601 calendar-date layout used by the
// transaction feed and all serialized gain records.
const DefaultDateFormat = "2006-01-02"

// ParseDate parses an ISO 8601 date string (YYYY-MM-DD).
func ParseDate(dateStr string) (time.Time, error) {
	t, err := time.Parse(DefaultDateFormat, dateStr)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", dateStr, err)
	}
	return t, nil
}

// FormatDate renders a time as an ISO 8601 date string.
func FormatDate(t time.Time) string {
	return t.Format(DefaultDateFormat)
}
