// Package export serializes the enriched event table into the formats the
// calendar applications consume.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"ttextract/internal/model"
)

// eventColumns is the flat event-table header, in the order downstream
// tooling expects.
var eventColumns = []string{
	"week", "day", "date", "description", "start_time", "end_time",
	"location", "session_type", "subject", "presenter", "topic",
	"groups", "groups_list", "is_mandatory", "event_length",
}

// WriteEventsCSV writes the enriched event table as CSV.
func WriteEventsCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(eventColumns); err != nil {
		return err
	}
	for _, ev := range events {
		record := []string{
			strconv.Itoa(ev.Week),
			ev.Day,
			ev.Date,
			ev.Description,
			ev.StartTime,
			ev.EndTime,
			ev.Location,
			ev.SessionType,
			ev.Subject,
			ev.Presenter,
			ev.Topic,
			ev.Groups,
			strings.Join(ev.GroupsList, ";"),
			boolFlag(ev.IsMandatory),
			formatHours(ev.EventLength),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteEventsCSVFile writes the event table to path, creating parent
// directories as needed.
func WriteEventsCSVFile(path string, events []model.Event) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteEventsCSV(f, events); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	return f.Close()
}

// boolFlag renders the mandatory flag the way the spreadsheets expect.
func boolFlag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatHours(hours *float64) string {
	if hours == nil {
		return ""
	}
	return strconv.FormatFloat(*hours, 'g', -1, 64)
}

func createFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("export: create output dir for %q: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("export: create %q: %w", path, err)
	}
	return f, nil
}
