package repository

import (
	"time"
)

// timeLayout keeps sub-second precision so timestamps round-trip exactly
const timeLayout = time.RFC3339Nano

// dateLayout stores calendar dates (issue and due dates) without a time part
const dateLayout = "2006-01-02"

// parseTime parses a stored timestamp
func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

// parseDate parses a calendar date. Timestamps written by older tools are accepted as well.
func parseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err == nil {
		return t, nil
	}
	return time.Parse(timeLayout, s)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// formatTime returns t in the storage layout, substituting the current time for a zero value
func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.Format(timeLayout)
}
