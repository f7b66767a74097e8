package grid

import (
	"strings"

	"ttextract/internal/model"
)

// ValidationResult is the verdict on one raw page extraction.
type ValidationResult struct {
	Valid bool
	// HeaderRow is the index of the row whose first cell is "Time".
	// Meaningless when Valid is false and no header was found.
	HeaderRow int
	// Reason describes why the grid was rejected.
	Reason string
}

// minColumns is 1 time column plus at least 5 distinct weekday columns.
const minColumns = 6

// IsKeyTable reports whether the grid is the "Key" legend table. Legend
// tables are excluded before validation is ever attempted.
func IsKeyTable(g model.RawGrid) bool {
	if g.Rows() == 0 || len(g.Cells[0]) == 0 {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(g.Cells[0][0]), "key")
}

// Validate judges whether a raw extraction looks like a genuine weekly
// calendar grid: a "Time" header row exists, the grid is wide enough, the
// header cells are sufficiently unique, and every non-Time header parses as
// a calendar date.
func Validate(g model.RawGrid) ValidationResult {
	headerRow := -1
	for i, row := range g.Cells {
		if len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), "time") {
			headerRow = i
			break
		}
	}
	if headerRow == -1 {
		return ValidationResult{Valid: false, HeaderRow: -1, Reason: "no header row with a Time column"}
	}

	header := g.Cells[headerRow]
	if g.Cols() < minColumns {
		return ValidationResult{Valid: false, HeaderRow: headerRow, Reason: "too few columns"}
	}

	// The extractor sometimes splits a day column in two when a slot holds
	// two events; the duplicate headers give that away.
	unique := make(map[string]bool, len(header))
	for _, cell := range header {
		unique[cell] = true
	}
	if len(unique) < minColumns {
		return ValidationResult{Valid: false, HeaderRow: headerRow, Reason: "too few unique header cells"}
	}

	for _, cell := range header[1:] {
		if !IsDateHeader(cell) {
			return ValidationResult{Valid: false, HeaderRow: headerRow, Reason: "header cell is not a date: " + strings.TrimSpace(cell)}
		}
	}

	return ValidationResult{Valid: true, HeaderRow: headerRow}
}
