package grid

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reBareHour  = regexp.MustCompile(`^\d{1,2}$`)
	reHourMin   = regexp.MustCompile(`^(\d{1,2})[:.](\d{1,2})$`)
	reClockTime = regexp.MustCompile(`\d{2}:\d{2}`)
)

// StandardizeTimeFormat canonicalizes a raw time label to zero-padded
// 24-hour "HH:MM". Accepted inputs: bare hour ("9", "09"), "H:MM"/"HH:MM",
// and "H.MM"/"HH.MM" with a dot as minute separator.
func StandardizeTimeFormat(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	var hour, minute int
	switch {
	case reBareHour.MatchString(s):
		hour, _ = strconv.Atoi(s)
	case reHourMin.MatchString(s):
		m := reHourMin.FindStringSubmatch(s)
		hour, _ = strconv.Atoi(m[1])
		minute, _ = strconv.Atoi(m[2])
	default:
		return "", fmt.Errorf("grid: unrecognized time value %q", raw)
	}

	if hour < 0 || hour >= 24 {
		return "", fmt.Errorf("grid: hour out of range in %q", raw)
	}
	if minute < 0 || minute >= 60 {
		return "", fmt.Errorf("grid: minute out of range in %q", raw)
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// IsValidTimeValue reports whether raw parses as a time label.
func IsValidTimeValue(raw string) bool {
	_, err := StandardizeTimeFormat(raw)
	return err == nil
}

// IsClockTime reports whether s contains a canonical "HH:MM" value.
func IsClockTime(s string) bool {
	return reClockTime.MatchString(s)
}

// AddHalfHour advances a canonical "HH:MM" label by one half-hour slot:
// ":00" becomes ":30" and ":30" becomes the next hour's ":00".
func AddHalfHour(t string) string {
	hh, mm, ok := strings.Cut(t, ":")
	if !ok {
		return t
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return t
	}
	if mm == "00" {
		return fmt.Sprintf("%02d:30", hour)
	}
	return fmt.Sprintf("%02d:00", hour+1)
}

// IsOnlineLabel reports whether a time cell marks an online (untimed) row.
func IsOnlineLabel(s string) bool {
	return strings.Contains(strings.ToLower(s), "online")
}
