package export

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"ttextract/internal/model"
)

// BuildCalendar renders the enriched events as an iCalendar document.
// Timed events become local date-time VEVENTs; untimed (online) events
// become all-day entries on their date.
func BuildCalendar(events []model.Event, loc *time.Location) (*ics.Calendar, error) {
	if loc == nil {
		loc = time.Local
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//ttextract//timetable export//EN")

	for _, ev := range events {
		date, err := time.ParseInLocation("2006-01-02", ev.Date, loc)
		if err != nil {
			return nil, fmt.Errorf("export: event has unparseable date %q", ev.Date)
		}

		vevent := cal.AddEvent(eventUID(ev))
		vevent.SetDtStampTime(time.Now().UTC())
		vevent.SetSummary(eventSummary(ev))
		if ev.Location != "" {
			vevent.SetLocation(ev.Location)
		}
		vevent.SetDescription(ev.Description)

		if ev.StartTime == "" {
			vevent.SetAllDayStartAt(date)
			vevent.SetAllDayEndAt(date.AddDate(0, 0, 1))
			continue
		}

		start, err := atClock(date, ev.StartTime, loc)
		if err != nil {
			return nil, err
		}
		end, err := atClock(date, ev.EndTime, loc)
		if err != nil {
			return nil, err
		}
		vevent.SetStartAt(start)
		vevent.SetEndAt(end)
	}
	return cal, nil
}

// WriteICSFile writes the events to path as an .ics file.
func WriteICSFile(path string, events []model.Event, loc *time.Location) error {
	cal, err := BuildCalendar(events, loc)
	if err != nil {
		return err
	}
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteString(cal.Serialize()); err != nil {
		return fmt.Errorf("export: write %q: %w", path, err)
	}
	return f.Close()
}

// eventUID derives a stable UID so re-imports update rather than duplicate.
func eventUID(ev model.Event) string {
	key := fmt.Sprintf("%s|%s|%s", ev.Date, ev.StartTime, ev.Description)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@ttextract"
}

func eventSummary(ev model.Event) string {
	switch {
	case ev.Subject != "" && ev.SessionType != "":
		return ev.Subject + " - " + ev.SessionType
	case ev.Subject != "":
		return ev.Subject
	case ev.SessionType != "":
		return ev.SessionType
	default:
		return ev.Topic
	}
}

func atClock(date time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, fmt.Errorf("export: unparseable event time %q", hhmm)
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
