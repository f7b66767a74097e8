package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateHeader(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Monday 3 February 2025", "2025-02-03"},
		{"Monday, 3 February 2025", "2025-02-03"},
		{"Mon 3 Feb 2025", "2025-02-03"},
		{"monday 3 february 2025", "2025-02-03"},
		{"TUESDAY 4 FEB 2025", "2025-02-04"},
		{"3 February 2025", "2025-02-03"},
		{"3 Feb 2025", "2025-02-03"},
		{"Monday 3/February/2025", "2025-02-03"},
		{"Monday 3-February-2025", "2025-02-03"},
	}
	for _, tc := range cases {
		got, err := ParseDateHeader(tc.in)
		require.NoError(t, err, "input %q", tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02"), "input %q", tc.in)
	}
}

func TestParseDateHeader_Rejects(t *testing.T) {
	for _, in := range []string{"", "Time", "Key", "Week 3", "Monday", "February 2025", "32 February 2025"} {
		_, err := ParseDateHeader(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseDateHeader_WeekdayConsistency(t *testing.T) {
	got, err := ParseDateHeader("3 February 2025")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, got.Weekday())
}

func TestStripHeaderSuffix(t *testing.T) {
	assert.Equal(t, "Monday 3 February 2025", StripHeaderSuffix("Monday 3 February 2025 (4)"))
	assert.Equal(t, "Monday 3 February 2025", StripHeaderSuffix("Monday 3 February 2025"))
	assert.Equal(t, "Time", StripHeaderSuffix("Time"))
}
