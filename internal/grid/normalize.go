package grid

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	appLog "ttextract/internal/log"
	"ttextract/internal/model"
)

// ErrMalformedGrid marks a validated grid that still cannot be normalized,
// e.g. because no row below the header carries a parseable time value.
var ErrMalformedGrid = errors.New("malformed week grid")

// WeekNumber extracts the week number from the table title cell via its
// trailing "Week N" token. Returns 0 when the title carries no number.
func WeekNumber(g model.RawGrid) int {
	if g.Rows() == 0 || len(g.Cells[0]) == 0 {
		return 0
	}
	fields := strings.Fields(g.Cells[0][0])
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		appLog.Warn("grid: table title has no trailing week number",
			"page", g.Page, "title", g.Cells[0][0])
		return 0
	}
	return n
}

// Normalize canonicalizes a validated raw grid into a complete half-hour
// week grid: header labels become column names (duplicates disambiguated),
// online rows are split off, time labels are zero-padded, duplicate-time
// runs become :00/:30 pairs, and every lone hourly row gets a synthetic :30
// twin so the time axis is uniform. Timed rows come out sorted ascending
// with online rows appended after them.
func Normalize(g model.RawGrid, headerRow int) (model.WeekGrid, error) {
	if headerRow < 0 || headerRow >= g.Rows() {
		return model.WeekGrid{}, fmt.Errorf("grid: page %d: header row %d out of range: %w", g.Page, headerRow, ErrMalformedGrid)
	}

	columns := columnLabels(g.Cells[headerRow])
	dayCount := len(columns) - 1

	var online, timed []model.Row
	for _, raw := range g.Cells[headerRow+1:] {
		row := makeRow(raw, dayCount)
		switch {
		case IsOnlineLabel(row.Time):
			online = append(online, row)
		case len(timed) == 0 && !IsValidTimeValue(row.Time):
			// Preamble rows (legend text etc.) carry no slots.
			appLog.Debug("grid: skipping preamble row", "page", g.Page, "label", row.Time)
		case !IsValidTimeValue(row.Time):
			appLog.Warn("grid: dropped row with unparseable time",
				"page", g.Page, "time", row.Time)
		default:
			timed = append(timed, row)
		}
	}

	if len(timed) == 0 {
		return model.WeekGrid{}, fmt.Errorf("grid: page %d: no parseable time rows: %w", g.Page, ErrMalformedGrid)
	}

	for i := range timed {
		t, err := StandardizeTimeFormat(timed[i].Time)
		if err != nil {
			return model.WeekGrid{}, fmt.Errorf("grid: page %d: %w", g.Page, err)
		}
		timed[i].Time = t
	}

	rows := expandHalfHours(timed)
	rows = append(rows, online...)

	return model.WeekGrid{
		Week:    WeekNumber(g),
		Columns: columns,
		Rows:    rows,
	}, nil
}

// columnLabels builds the column names from the header row: column 0 is
// forced to "Time" and any duplicate label at position i is renamed to
// "label (i)".
func columnLabels(header []string) []string {
	columns := make([]string, len(header))
	copy(columns, header)
	columns[0] = "Time"

	seen := make(map[string]bool, len(columns))
	for i, label := range columns {
		if seen[label] {
			columns[i] = fmt.Sprintf("%s (%d)", label, i)
		}
		seen[label] = true
	}
	return columns
}

func makeRow(raw []string, dayCount int) model.Row {
	row := model.Row{Cells: make([]string, dayCount)}
	if len(raw) > 0 {
		row.Time = raw[0]
	}
	for i := 0; i < dayCount && i+1 < len(raw); i++ {
		row.Cells[i] = raw[i+1]
	}
	return row
}

// expandHalfHours turns hour-labeled rows into a uniform half-hour axis.
// A run of two identical times means the source already encodes the :00/:30
// pair; a lone hourly row is kept as :00 and cloned into a synthetic :30 twin
// because the source only writes one row per hour when nothing new starts at
// half past.
func expandHalfHours(timed []model.Row) []model.Row {
	// Pairing deliberately stops once i+1 reaches the second-to-last row;
	// this mirrors how the published grids terminate and is relied upon.
	maxIndex := len(timed) - 1
	halfPast := make(map[int]bool)
	for i := range timed {
		if i+1 == maxIndex {
			break
		}
		if i+1 <= maxIndex && timed[i].Time == timed[i+1].Time {
			halfPast[i+1] = true
		}
	}

	rows := make([]model.Row, 0, 2*len(timed))
	var synthesized []model.Row
	for i, row := range timed {
		switch {
		case halfPast[i]:
			row.Time = halfPastLabel(row.Time)
		case halfPast[i+1]:
			// First half of an explicit pair; keep as the :00 slot.
		default:
			if strings.HasSuffix(row.Time, ":00") {
				twin := model.Row{Time: halfPastLabel(row.Time), Cells: row.Cells}
				synthesized = append(synthesized, twin)
			}
		}
		rows = append(rows, row)
	}
	rows = append(rows, synthesized...)

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Time < rows[j].Time })

	// Collapse any time collision introduced by synthesis; first row wins.
	out := make([]model.Row, 0, len(rows))
	for _, row := range rows {
		if len(out) > 0 && row.Time == out[len(out)-1].Time {
			continue
		}
		out = append(out, row)
	}
	return out
}

// halfPastLabel rewrites "HH:MM" to "HH:30".
func halfPastLabel(t string) string {
	hh, _, ok := strings.Cut(t, ":")
	if !ok {
		return t + ":30"
	}
	return hh + ":30"
}
