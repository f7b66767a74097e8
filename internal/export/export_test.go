package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttextract/internal/model"
)

func sampleEvent() model.Event {
	length := 1.5
	return model.Event{
		Week:        3,
		Day:         "Monday",
		Date:        "2025-02-03",
		Description: "Anatomy - upper limb (JS) [Ross LT]",
		StartTime:   "09:00",
		EndTime:     "10:30",
		Location:    "Ross Lecture Theatre",
		SessionType: "Lecture",
		Subject:     "Anatomy",
		Presenter:   "Jane Smith",
		Topic:       "upper limb",
		Groups:      "1-3",
		GroupsList:  []string{"1", "2", "3"},
		IsMandatory: true,
		EventLength: &length,
	}
}

func parseCSV(t *testing.T, buf *bytes.Buffer) [][]string {
	t.Helper()
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteEventsCSV(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteEventsCSV(&buf, []model.Event{sampleEvent()}))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, eventColumns, records[0])
	assert.Equal(t, []string{
		"3", "Monday", "2025-02-03", "Anatomy - upper limb (JS) [Ross LT]",
		"09:00", "10:30", "Ross Lecture Theatre", "Lecture", "Anatomy",
		"Jane Smith", "upper limb", "1-3", "1;2;3", "1", "1.5",
	}, records[1])
}

func TestWriteEventsCSV_BlankOptionalFields(t *testing.T) {
	var buf bytes.Buffer
	ev := model.Event{Week: 1, Day: "Monday", Date: "2025-02-03", Description: "x"}

	require.NoError(t, WriteEventsCSV(&buf, []model.Event{ev}))

	records := parseCSV(t, &buf)
	row := records[1]
	assert.Equal(t, "", row[12], "groups_list")
	assert.Equal(t, "0", row[13], "is_mandatory")
	assert.Equal(t, "", row[14], "event_length")
}

func TestWriteImportableCSV_TimedEvent(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, WriteImportableCSV(&buf, []model.Event{sampleEvent()}))

	records := parseCSV(t, &buf)
	require.Len(t, records, 2)
	assert.Equal(t, importableColumns, records[0])
	assert.Equal(t, []string{
		"Anatomy - Lecture", "02/03/2025", "09:00 AM", "02/03/2025", "10:30 AM",
		"False", "Anatomy - upper limb (JS) [Ross LT]", "Ross Lecture Theatre", "False",
	}, records[1])
}

func TestWriteImportableCSV_UntimedEventIsAllDay(t *testing.T) {
	var buf bytes.Buffer
	ev := model.Event{
		Date:        "2025-02-03",
		Description: "Pop Health intro",
		Location:    "Online",
		SessionType: "Lecture",
		Subject:     "Population Health",
	}

	require.NoError(t, WriteImportableCSV(&buf, []model.Event{ev}))

	row := parseCSV(t, &buf)[1]
	assert.Equal(t, "", row[2], "start time")
	assert.Equal(t, "", row[4], "end time")
	assert.Equal(t, "True", row[5], "all day")
}

func TestWriteImportableCSV_AfternoonTimes(t *testing.T) {
	var buf bytes.Buffer
	ev := sampleEvent()
	ev.StartTime = "13:00"
	ev.EndTime = "14:30"

	require.NoError(t, WriteImportableCSV(&buf, []model.Event{ev}))

	row := parseCSV(t, &buf)[1]
	assert.Equal(t, "01:00 PM", row[2])
	assert.Equal(t, "02:30 PM", row[4])
}

func TestWriteImportableCSV_BadDate(t *testing.T) {
	var buf bytes.Buffer

	err := WriteImportableCSV(&buf, []model.Event{{Date: "not-a-date"}})

	assert.Error(t, err)
}

func TestImportableSubject_RecoveredFromDescriptionPrefix(t *testing.T) {
	ev := model.Event{Description: "CAL: complete module 2", SessionType: "Lecture"}

	assert.Equal(t, "CAL - Lecture", importableSubject(ev))
}

func TestImportableDescription_StripsPrefix(t *testing.T) {
	assert.Equal(t, "complete module 2", importableDescription("CAL: complete module 2"))
	assert.Equal(t, "Anatomy lecture", importableDescription("Anatomy lecture"))
}

func TestBuildCalendar_TimedEvent(t *testing.T) {
	cal, err := BuildCalendar([]model.Event{sampleEvent()}, time.UTC)
	require.NoError(t, err)

	out := cal.Serialize()
	assert.Contains(t, out, "SUMMARY:Anatomy - Lecture")
	assert.Contains(t, out, "LOCATION:Ross Lecture Theatre")
	assert.Contains(t, out, "DTSTART:20250203T090000Z")
	assert.Contains(t, out, "DTEND:20250203T103000Z")
}

func TestBuildCalendar_UntimedEventIsAllDay(t *testing.T) {
	ev := model.Event{
		Date:        "2025-02-03",
		Description: "Pop Health intro",
		Location:    "Online",
		SessionType: "Lecture",
	}

	cal, err := BuildCalendar([]model.Event{ev}, time.UTC)
	require.NoError(t, err)

	out := cal.Serialize()
	assert.Contains(t, out, "VALUE=DATE")
	assert.Contains(t, out, "SUMMARY:Lecture")
}

func TestBuildCalendar_BadDate(t *testing.T) {
	_, err := BuildCalendar([]model.Event{{Date: "03/02/2025"}}, time.UTC)

	assert.Error(t, err)
}

func TestEventUID_StableAndTagged(t *testing.T) {
	ev := sampleEvent()

	uid := eventUID(ev)

	assert.Equal(t, uid, eventUID(ev))
	assert.True(t, strings.HasSuffix(uid, "@ttextract"))

	other := ev
	other.StartTime = "11:00"
	assert.NotEqual(t, uid, eventUID(other))
}

func TestEventSummary_Fallbacks(t *testing.T) {
	assert.Equal(t, "Anatomy - Lecture", eventSummary(model.Event{Subject: "Anatomy", SessionType: "Lecture"}))
	assert.Equal(t, "Anatomy", eventSummary(model.Event{Subject: "Anatomy"}))
	assert.Equal(t, "Lecture", eventSummary(model.Event{SessionType: "Lecture"}))
	assert.Equal(t, "upper limb", eventSummary(model.Event{Topic: "upper limb"}))
}
