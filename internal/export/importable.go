package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"ttextract/internal/model"
)

// importableColumns is the calendar-import CSV header understood by the
// usual personal calendar applications.
var importableColumns = []string{
	"Subject", "Start Date", "Start Time", "End Date", "End Time",
	"All Day Event", "Description", "Location", "Private",
}

var (
	reSubjectPrefix = regexp.MustCompile(`(\w+):`)
	reAfterColon    = regexp.MustCompile(`\w+:\s?(.+)`)
)

// WriteImportableCSV writes events as calendar-import rows: one row per
// event, named "<subject> - <session type>", with US-style dates, 12-hour
// clock times and an all-day flag for untimed events.
func WriteImportableCSV(w io.Writer, events []model.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(importableColumns); err != nil {
		return err
	}
	for _, ev := range events {
		record, err := importableRecord(ev)
		if err != nil {
			return err
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteImportableCSVFile writes the importable calendar to path.
func WriteImportableCSVFile(path string, events []model.Event) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := WriteImportableCSV(f, events); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	return f.Close()
}

func importableRecord(ev model.Event) ([]string, error) {
	date, err := time.Parse("2006-01-02", ev.Date)
	if err != nil {
		return nil, fmt.Errorf("export: event has unparseable date %q", ev.Date)
	}
	usDate := date.Format("01/02/2006")

	startTime, err := clock12(ev.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := clock12(ev.EndTime)
	if err != nil {
		return nil, err
	}
	allDay := startTime == ""

	return []string{
		importableSubject(ev),
		usDate,
		startTime,
		usDate,
		endTime,
		pyBool(allDay),
		importableDescription(ev.Description),
		ev.Location,
		pyBool(false),
	}, nil
}

// importableSubject names the calendar entry "<subject> - <session type>",
// recovering the subject from a "Word:" description prefix when the
// enrichment left it blank.
func importableSubject(ev model.Event) string {
	subject := ev.Subject
	if subject == "" {
		if m := reSubjectPrefix.FindStringSubmatch(ev.Description); m != nil {
			subject = m[1]
		}
	}
	return subject + " - " + ev.SessionType
}

// importableDescription strips a leading "Word:" prefix; the prefix is
// already carried by the entry name.
func importableDescription(description string) string {
	if m := reAfterColon.FindStringSubmatch(description); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(description)
}

// clock12 converts "HH:MM" to "HH:MM AM/PM"; blank stays blank.
func clock12(hhmm string) (string, error) {
	if hhmm == "" {
		return "", nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return "", fmt.Errorf("export: unparseable event time %q", hhmm)
	}
	return t.Format("03:04 PM"), nil
}

// pyBool renders booleans the way the original spreadsheets expect.
func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}
