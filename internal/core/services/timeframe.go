package services

import (
	"strconv"
	"strings"
	"time"
)

type timeframeUnit struct {
	keyword  string
	fallback int
	add      func(t time.Time, n int) time.Time
}

// Checked in order; "2 weeks, 3 days" resolves to weeks.
var timeframeUnits = []timeframeUnit{
	{"week", 4, func(t time.Time, n int) time.Time { return t.AddDate(0, 0, 7*n) }},
	{"month", 3, addMonths},
	{"year", 1, func(t time.Time, n int) time.Time { return addMonths(t, 12*n) }},
	{"day", 30, func(t time.Time, n int) time.Time { return t.AddDate(0, 0, n) }},
}

const defaultTimeframeMonths = 3

// ParseTimeframe turns free text such as "6 months" or "3 weeks" into an
// end time counted from start. Unknown input falls back to three months.
func ParseTimeframe(text string, start time.Time) time.Time {
	lower := strings.ToLower(text)
	for _, unit := range timeframeUnits {
		if !strings.Contains(lower, unit.keyword) {
			continue
		}
		n := firstNumber(lower)
		if n <= 0 {
			n = unit.fallback
		}
		return unit.add(start, n)
	}
	return addMonths(start, defaultTimeframeMonths)
}

// firstNumber returns the first whitespace-separated token made only of
// digits, or 0 when there is none or it does not fit in an int.
func firstNumber(text string) int {
	for _, field := range strings.Fields(text) {
		if !isDigits(field) {
			continue
		}
		n, err := strconv.Atoi(field)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// addMonths adds n calendar months, clamping the day to the end of the
// target month (Jan 31 + 1 month = Feb 28/29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	if last := daysIn(first.Year(), first.Month()); d > last {
		d = last
	}
	return first.AddDate(0, 0, d-1)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
