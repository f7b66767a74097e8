package grid

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// dateHeaderLayouts covers the header forms the institution publishes:
// optional weekday prefix (full or abbreviated), long or abbreviated month.
var dateHeaderLayouts = []string{
	"Monday 2 January 2006",
	"Monday 2 Jan 2006",
	"Mon 2 January 2006",
	"Mon 2 Jan 2006",
	"2 January 2006",
	"2 Jan 2006",
}

var reHeaderSuffix = regexp.MustCompile(`\(\d+\)$`)

// StripHeaderSuffix removes the positional " (i)" disambiguation suffix
// appended to duplicate column headers.
func StripHeaderSuffix(label string) string {
	return strings.TrimSpace(reHeaderSuffix.ReplaceAllString(strings.TrimSpace(label), ""))
}

// ParseDateHeader parses a weekday-date column header into a calendar date.
// Commas and "/" or "-" separators are tolerated, and matching is
// case-insensitive in the weekday and month names.
func ParseDateHeader(label string) (time.Time, error) {
	cleaned := cleanDateHeader(label)
	for _, layout := range dateHeaderLayouts {
		if t, err := time.Parse(layout, cleaned); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("grid: header %q is not a date", label)
}

// IsDateHeader reports whether label parses as a calendar date header.
func IsDateHeader(label string) bool {
	_, err := ParseDateHeader(label)
	return err == nil
}

func cleanDateHeader(label string) string {
	s := strings.NewReplacer(",", " ", "/", " ", "-", " ").Replace(label)
	fields := strings.Fields(s)
	for i, f := range fields {
		fields[i] = titleToken(f)
	}
	return strings.Join(fields, " ")
}

// titleToken capitalizes the first letter and lowercases the rest, so that
// "MONDAY" and "monday" both satisfy Go's case-sensitive layouts.
func titleToken(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
