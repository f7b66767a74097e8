package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ttextract/internal/model"
)

func mondayGrid(rows []model.Row) model.WeekGrid {
	return model.WeekGrid{
		Week:    3,
		Columns: []string{"Time", "Monday 3 February 2025"},
		Rows:    rows,
	}
}

func TestFlatten_MergesContiguousRun(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "09:00", Cells: []string{"Lab (Group 1-3)"}},
		{Time: "09:30", Cells: []string{"Lab (Group 1-3)"}},
		{Time: "10:00", Cells: []string{"Lab (Group 1-3)"}},
		{Time: "10:30", Cells: []string{""}},
	})

	got := Flatten(g)

	require.Len(t, got, 1)
	ev := got[0]
	assert.Equal(t, 3, ev.Week)
	assert.Equal(t, "Monday", ev.Day)
	assert.Equal(t, "2025-02-03", ev.Date)
	assert.Equal(t, "Lab (Group 1-3)", ev.Description)
	assert.Equal(t, "09:00", ev.StartTime)
	assert.Equal(t, "10:30", ev.EndTime)
}

func TestFlatten_AdjacentDistinctValues(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "09:00", Cells: []string{"Anatomy lecture"}},
		{Time: "09:30", Cells: []string{"Physiology lecture"}},
	})

	got := Flatten(g)

	require.Len(t, got, 2)
	assert.Equal(t, "09:00", got[0].StartTime)
	assert.Equal(t, "09:30", got[0].EndTime)
	assert.Equal(t, "09:30", got[1].StartTime)
	assert.Equal(t, "10:00", got[1].EndTime)
}

func TestFlatten_OnlineRowBecomesUntimedEvent(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "09:00", Cells: []string{""}},
		{Time: "Online lectures", Cells: []string{"Pop Health intro"}},
	})

	got := Flatten(g)

	require.Len(t, got, 1)
	ev := got[0]
	assert.Equal(t, "Pop Health intro", ev.Description)
	assert.Equal(t, "Online", ev.Location)
	assert.Equal(t, "Lecture", ev.SessionType)
	assert.Empty(t, ev.StartTime)
	assert.Empty(t, ev.EndTime)
}

func TestFlatten_RunIntoOnlineRowsClampsToEndOfDay(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "18:00", Cells: []string{"Evening briefing"}},
		{Time: "18:30", Cells: []string{"Evening briefing"}},
		{Time: "Online lectures", Cells: []string{"Evening briefing"}},
	})

	got := Flatten(g)

	require.Len(t, got, 1)
	assert.Equal(t, "18:00", got[0].StartTime)
	assert.Equal(t, "19:00", got[0].EndTime)
}

func TestFlatten_SkipsUnparseableDayColumn(t *testing.T) {
	g := model.WeekGrid{
		Week:    3,
		Columns: []string{"Time", "Monday 3 February 2025", "Notes"},
		Rows: []model.Row{
			{Time: "09:00", Cells: []string{"Anatomy lecture", "bring coats"}},
		},
	}

	got := Flatten(g)

	require.Len(t, got, 1)
	assert.Equal(t, "Monday", got[0].Day)
}

func TestFlatten_SplitColumnHeaderStillResolves(t *testing.T) {
	g := model.WeekGrid{
		Week:    3,
		Columns: []string{"Time", "Tuesday 4 February 2025 (2)"},
		Rows: []model.Row{
			{Time: "09:00", Cells: []string{"Anatomy lecture"}},
		},
	}

	got := Flatten(g)

	require.Len(t, got, 1)
	assert.Equal(t, "Tuesday", got[0].Day)
	assert.Equal(t, "2025-02-04", got[0].Date)
}

func TestFlatten_MultiLineCellCollapsed(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "09:00", Cells: []string{"Anatomy\nlecture  (JS)"}},
	})

	got := Flatten(g)

	require.Len(t, got, 1)
	assert.Equal(t, "Anatomy lecture (JS)", got[0].Description)
}

func TestFlatten_BlankCellsProduceNoEvents(t *testing.T) {
	g := mondayGrid([]model.Row{
		{Time: "09:00", Cells: []string{"  "}},
		{Time: "09:30", Cells: []string{""}},
	})

	assert.Empty(t, Flatten(g))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\n b\t\tc "))
	assert.Equal(t, "", CollapseWhitespace(" \n\t "))
}
