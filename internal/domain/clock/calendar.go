package clock

import (
	"fmt"
	"time"
)

// DateOnly truncates t to midnight in t's own location.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar date in a's location.
func SameDay(a, b time.Time) bool {
	return DateOnly(a).Equal(DateOnly(b.In(a.Location())))
}

// WeekStart returns midnight of the Monday on or before t.
func WeekStart(t time.Time) time.Time {
	// time.Weekday: Sunday=0 ... Saturday=6; shift so Monday=0.
	offset := (int(t.Weekday()) + 6) % 7
	return DateOnly(t).AddDate(0, 0, -offset)
}

// WeekKey identifies the Monday-anchored week containing t as an unpadded
// "YYYY-M-D" string of that Monday's date.
func WeekKey(t time.Time) string {
	return DayKey(WeekStart(t))
}

// DayKey formats t's calendar date as an unpadded "YYYY-M-D" string.
func DayKey(t time.Time) string {
	y, m, d := t.Date()
	return fmt.Sprintf("%d-%d-%d", y, int(m), d)
}
