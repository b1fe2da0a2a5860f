package utils

import "time"

// DateOnly truncates a timestamp to its UTC calendar day. All date
// arithmetic in the engine operates on UTC midnights so that feed
// timestamps near midnight cannot shift a block by a day.
func DateOnly(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current UTC calendar day.
func Today() time.Time {
	return DateOnly(time.Now())
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight.
func ParseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}

// FormatDate renders a UTC midnight as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// Overlaps reports whether the half-open intervals [a1, b1) and
// [a2, b2) intersect. Equal boundaries do not overlap, so a check-in on
// another booking's check-out day is legal.
func Overlaps(a1, b1, a2, b2 time.Time) bool {
	return a1.Before(b2) && b1.After(a2)
}

// DaysBetween returns every day in the half-open range [from, to).
func DaysBetween(from, to time.Time) []time.Time {
	var days []time.Time
	for d := DateOnly(from); d.Before(DateOnly(to)); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// DaysInclusive returns every day in the closed range [from, to].
func DaysInclusive(from, to time.Time) []time.Time {
	return DaysBetween(from, DateOnly(to).AddDate(0, 0, 1))
}
