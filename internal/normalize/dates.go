package normalize

import (
	"fmt"
	"strings"
	"time"
)

// dateLayouts are tried in order. Four-digit-year layouts only, so that
// no century has to be guessed. GOOGLEFINANCE renders "1/2/2006 16:00:00".
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006 15:04:05",
	"1/2/2006 15:04",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2.1.2006",
	"02.01.2006",
	"2006.01.02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"20060102",
}

// ParseDate parses a spreadsheet date cell into a UTC calendar date.
// Any time-of-day component is dropped.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format")
}
