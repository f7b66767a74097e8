package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ttextract/internal/model"
)

func weekHeaderRow() []string {
	return []string{
		"Time",
		"Monday 3 February 2025",
		"Tuesday 4 February 2025",
		"Wednesday 5 February 2025",
		"Thursday 6 February 2025",
		"Friday 7 February 2025",
	}
}

func validRawGrid() model.RawGrid {
	return model.RawGrid{
		Page:        1,
		Sensitivity: 60,
		Cells: [][]string{
			{"Week 3", "", "", "", "", ""},
			weekHeaderRow(),
			{"9", "Anatomy Lecture", "", "", "", ""},
		},
	}
}

func TestValidate_AcceptsCalendarGrid(t *testing.T) {
	got := Validate(validRawGrid())

	assert.True(t, got.Valid, got.Reason)
	assert.Equal(t, 1, got.HeaderRow)
}

func TestValidate_NoHeaderRow(t *testing.T) {
	g := validRawGrid()
	g.Cells[1][0] = "Times of day"

	got := Validate(g)

	assert.False(t, got.Valid)
	assert.Equal(t, -1, got.HeaderRow)
}

func TestValidate_TooFewColumns(t *testing.T) {
	g := model.RawGrid{Cells: [][]string{
		{"Week 3", "", ""},
		{"Time", "Monday 3 February 2025", "Tuesday 4 February 2025"},
	}}

	got := Validate(g)

	assert.False(t, got.Valid)
}

func TestValidate_DuplicateHeadersReduceUniqueCount(t *testing.T) {
	// A split day column leaves two identical headers; with only six
	// columns that drops the unique count below the minimum.
	g := validRawGrid()
	g.Cells[1][2] = g.Cells[1][1]

	got := Validate(g)

	assert.False(t, got.Valid)
}

func TestValidate_AnyNonDateHeaderInvalidates(t *testing.T) {
	// Swapping any single date header to a non-date string flips validity.
	for col := 1; col < 6; col++ {
		g := validRawGrid()
		g.Cells[1][col] = "Not A Date"

		got := Validate(g)

		assert.False(t, got.Valid, "column %d", col)
	}
}

func TestValidate_AbbreviatedHeadersAccepted(t *testing.T) {
	g := validRawGrid()
	g.Cells[1] = []string{
		"Time", "Mon 3 Feb 2025", "Tue 4 Feb 2025", "Wed 5 Feb 2025",
		"Thu 6 Feb 2025", "Fri 7 Feb 2025",
	}

	got := Validate(g)

	assert.True(t, got.Valid, got.Reason)
}

func TestIsKeyTable(t *testing.T) {
	key := model.RawGrid{Cells: [][]string{{"Key", "Lecture"}, {"L", "Lecture"}}}
	assert.True(t, IsKeyTable(key))
	assert.True(t, IsKeyTable(model.RawGrid{Cells: [][]string{{" KEY ", ""}}}))
	assert.False(t, IsKeyTable(validRawGrid()))
	assert.False(t, IsKeyTable(model.RawGrid{}))
}
