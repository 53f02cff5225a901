package utils

import (
	"time"
)

const layoutDateTime = "2006-01-02 15:04:05"

// FormatDateTime formats time in the operator timezone. The result is
// lexically ordered, which keeps date-range SQL string-comparable.
func FormatDateTime(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(layoutDateTime)
}

// DayBounds returns the [start, end) booking_time strings for the day
// containing t in the operator timezone.
func DayBounds(t time.Time, loc *time.Location) (string, string) {
	day := t.In(loc)
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start.Format(layoutDateTime), start.AddDate(0, 0, 1).Format(layoutDateTime)
}
