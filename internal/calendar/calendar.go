// Package calendar holds the pure date arithmetic the leave engine is built
// on. Everything here is stateless and safe for concurrent use.
package calendar

import "time"

type DayClass string

const (
	Weekday DayClass = "WEEKDAY"
	Weekend DayClass = "WEEKEND"
)

const DateLayout = "2006-01-02"

// ClassifyDay reports whether a date falls on a Saturday or Sunday.
func ClassifyDay(date time.Time) DayClass {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Weekday
	}
}

// EnumerateDays returns every date from from to to inclusive, ascending.
// Returns nil when from is after to; callers validate ranges before counting.
func EnumerateDays(from, to time.Time) []time.Time {
	from = truncateToDay(from)
	to = truncateToDay(to)
	if from.After(to) {
		return nil
	}

	days := make([]time.Time, 0, int(to.Sub(from).Hours()/24)+1)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// WeekdaysInRange counts the days in [from, to] that are not Saturday or
// Sunday. Both endpoints are included.
func WeekdaysInRange(from, to time.Time) int {
	count := 0
	for _, d := range EnumerateDays(from, to) {
		if ClassifyDay(d) == Weekday {
			count++
		}
	}
	return count
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
