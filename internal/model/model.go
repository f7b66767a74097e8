package model

// RawGrid is one table extraction attempt for a single PDF page, exactly as
// the table engine produced it. Cells are untrimmed text and may contain
// embedded newlines or whitespace runs; nothing has been validated yet.
type RawGrid struct {
	// Page is the 1-based PDF page number the grid came from.
	Page int
	// Sensitivity is the line-detection parameter used for this attempt.
	Sensitivity int
	// Cells is a rectangular matrix of cell text, rows outermost.
	Cells [][]string
}

// Rows returns the number of rows in the grid.
func (g RawGrid) Rows() int {
	return len(g.Cells)
}

// Cols returns the number of columns in the grid (width of the first row,
// zero for an empty grid).
func (g RawGrid) Cols() int {
	if len(g.Cells) == 0 {
		return 0
	}
	return len(g.Cells[0])
}

// Row is one time slot of a normalized week grid.
type Row struct {
	// Time is a zero-padded "HH:MM" label for timed rows, or the raw time
	// cell for online (untimed) rows.
	Time string
	// Cells holds one entry per day column, aligned with WeekGrid.Days().
	Cells []string
}

// WeekGrid is the canonical weekly calendar grid: sorted, gap-filled
// half-hour slots followed by any untimed online rows.
type WeekGrid struct {
	// Week is the week number taken from the page's table title.
	Week int
	// Columns is "Time" plus one header per weekday-date column. Duplicate
	// date headers are disambiguated with a positional " (i)" suffix.
	Columns []string
	// Rows holds timed rows sorted ascending by Time, then online rows in
	// source order.
	Rows []Row
}

// Days returns the day-column headers, i.e. Columns without the leading
// "Time" label.
func (g WeekGrid) Days() []string {
	if len(g.Columns) == 0 {
		return nil
	}
	return g.Columns[1:]
}

// Event is one atomic calendar entry flattened out of a week grid. The time
// span and description are set by the flattener; the remaining fields are
// progressively filled by the enrichment pipeline.
type Event struct {
	Week        int    `json:"week"`
	Day         string `json:"day"`
	Date        string `json:"date"` // ISO date, YYYY-MM-DD
	Description string `json:"description"`

	// StartTime / EndTime are "HH:MM", or empty for online/untimed events.
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`

	Location    string `json:"location"`
	SessionType string `json:"session_type"`
	Subject     string `json:"subject"`
	Presenter   string `json:"presenter"`
	Topic       string `json:"topic"`

	// Groups is the raw group-range token (e.g. "1-3"); GroupsList is its
	// expansion into individual group identifiers.
	Groups     string   `json:"groups"`
	GroupsList []string `json:"groups_list"`

	IsMandatory bool `json:"is_mandatory"`

	// EventLength is the duration in hours, nil when not derivable.
	EventLength *float64 `json:"event_length"`
}
