package pdftab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCopyText_RepairsVerticalHoleInSpan(t *testing.T) {
	cells := [][]string{
		{"09:00", "Lab (Group 1-3)"},
		{"09:30", ""},
		{"10:00", "Lab (Group 1-3)"},
	}

	got := copyText(cells, "v")

	assert.Equal(t, "Lab (Group 1-3)", got[1][1])
}

func TestCopyText_FreeSlotBetweenEventsStaysEmpty(t *testing.T) {
	// A free period between two different events must not inherit either
	// one, or its neighbor's time span would stretch over the gap.
	cells := [][]string{
		{"9", "Anatomy lecture"},
		{"10", ""},
		{"11", "Physiology lecture"},
	}

	got := copyText(cells, "v")

	assert.Equal(t, "", got[1][1])
}

func TestCopyText_LongEmptyRunsStayEmpty(t *testing.T) {
	cells := [][]string{
		{"9", "Anatomy lecture"},
		{"10", ""},
		{"11", ""},
		{"12", "Anatomy lecture"},
	}

	got := copyText(cells, "v")

	assert.Equal(t, "", got[1][1])
	assert.Equal(t, "", got[2][1])
}

func TestCopyText_Horizontal(t *testing.T) {
	cells := [][]string{
		{"Lecture", "", "Lecture"},
		{"A", "", "B"},
	}

	got := copyText(cells, "h")

	assert.Equal(t, []string{"Lecture", "Lecture", "Lecture"}, got[0])
	assert.Equal(t, []string{"A", "", "B"}, got[1])
}

func TestCopyText_UnknownAxisIsNoop(t *testing.T) {
	cells := [][]string{{"a", ""}}

	got := copyText(cells, "d")

	assert.Equal(t, [][]string{{"a", ""}}, got)
}

func TestShapeThresholds(t *testing.T) {
	cases := []struct {
		sensitivity, rows, cols int
	}{
		{100, 3, 3},
		{80, 3, 3},
		{60, 2, 2},
		{50, 2, 2},
		{40, 1, 1},
		{0, 1, 1},
	}
	for _, tc := range cases {
		rows, cols := shapeThresholds(tc.sensitivity)
		assert.Equal(t, tc.rows, rows, "sensitivity %d", tc.sensitivity)
		assert.Equal(t, tc.cols, cols, "sensitivity %d", tc.sensitivity)
	}
}

func TestNormalizeCell(t *testing.T) {
	assert.Equal(t, "Anatomy lecture", normalizeCell("  Anatomy   lecture "))
	assert.Equal(t, "Lab\n(Group 1-3)", normalizeCell("Lab\r\n(Group  1-3)"))
	assert.Equal(t, "", normalizeCell(" \t\n"))
	// Compatibility forms decompose to plain ASCII.
	assert.Equal(t, "ffi 12", normalizeCell("ﬃ １２"))
}
