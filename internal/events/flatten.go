// Package events turns normalized week grids into flat calendar event
// records and enriches them with inferred metadata.
package events

import (
	"regexp"
	"strings"

	"ttextract/internal/grid"
	appLog "ttextract/internal/log"
	"ttextract/internal/model"
)

// onlineEndOfDay is the wall-clock sentinel used when a timed event runs
// into the online block at the bottom of the grid.
const onlineEndOfDay = "19:00"

var reWhitespaceRun = regexp.MustCompile(`\s+`)

// CollapseWhitespace reduces all whitespace runs (including newlines from
// multi-line cells) to single spaces and trims the ends.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(reWhitespaceRun.ReplaceAllString(s, " "))
}

// Flatten converts one normalized week grid into atomic events. Each
// distinct non-empty cell value in a day column becomes one event whose time
// span covers the contiguous run of slots the value occupies.
func Flatten(g model.WeekGrid) []model.Event {
	var out []model.Event
	for dayIdx, label := range g.Days() {
		day, date, ok := resolveColumnDate(label)
		if !ok {
			appLog.Warn("events: skipping column with unparseable date header",
				"week", g.Week, "header", label)
			continue
		}

		for _, value := range distinctValues(g.Rows, dayIdx) {
			ev, ok := buildEvent(g, dayIdx, value)
			if !ok {
				continue
			}
			ev.Day = day
			ev.Date = date
			out = append(out, ev)
		}
	}
	return out
}

// buildEvent computes the time span for one distinct cell value within a day
// column. The span runs from the slot of its first occurrence to the slot of
// its last, converted to a wall-clock end time.
func buildEvent(g model.WeekGrid, dayIdx int, value string) (model.Event, bool) {
	description := CollapseWhitespace(value)
	if description == "" {
		return model.Event{}, false
	}

	var startTime, endTime string
	for _, row := range g.Rows {
		if dayIdx >= len(row.Cells) || row.Cells[dayIdx] != value {
			continue
		}
		if startTime == "" {
			startTime = row.Time
		}
		endTime = row.Time
	}

	ev := model.Event{
		Week:        g.Week,
		Description: description,
		StartTime:   startTime,
		EndTime:     endTime,
	}

	switch {
	case grid.IsOnlineLabel(startTime):
		// Untimed remotely-delivered session.
		ev.Location = "Online"
		ev.SessionType = "Lecture"
		ev.StartTime = ""
		ev.EndTime = ""
	case grid.IsClockTime(startTime):
		if grid.IsOnlineLabel(endTime) {
			// The run extends into the online rows; clamp to end of day.
			ev.EndTime = onlineEndOfDay
		} else {
			// The last slot contains the event; the event ends when the
			// slot does.
			ev.EndTime = grid.AddHalfHour(endTime)
		}
	}
	return ev, true
}

// distinctValues returns the distinct non-empty cell values of one day
// column in first-occurrence order.
func distinctValues(rows []model.Row, dayIdx int) []string {
	var values []string
	seen := make(map[string]bool)
	for _, row := range rows {
		if dayIdx >= len(row.Cells) {
			continue
		}
		v := row.Cells[dayIdx]
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		values = append(values, v)
	}
	return values
}

// resolveColumnDate resolves a day-column header (suffix-stripped) to a
// weekday name and ISO date.
func resolveColumnDate(label string) (day, date string, ok bool) {
	t, err := grid.ParseDateHeader(grid.StripHeaderSuffix(label))
	if err != nil {
		return "", "", false
	}
	return t.Weekday().String(), t.Format("2006-01-02"), true
}
