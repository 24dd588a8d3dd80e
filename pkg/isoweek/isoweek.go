// Package isoweek converts between ISO-8601 week strings ("2024-W01") and dates.
//
// Week 1 of a year is the week containing the year's first Thursday, which is
// equivalent to the week containing January 4th. Weeks start on Monday.
package isoweek

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

var pattern = regexp.MustCompile(`^(\d{4})-W(\d{2})$`)

// Week identifies one ISO week.
type Week struct {
	Year int
	Week int
}

// String formats the week as YYYY-Www.
func (w Week) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// Monday returns the first day of the week at UTC midnight.
func (w Week) Monday() time.Time {
	return Monday(w.Year, w.Week)
}

// Days returns the seven dates of the week, Monday first.
func (w Week) Days() []time.Time {
	start := w.Monday()
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Parse validates and decodes a YYYY-Www string.
func Parse(raw string) (Week, error) {
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Week{}, fmt.Errorf("invalid iso week %q: expected YYYY-Www", raw)
	}
	year, _ := strconv.Atoi(m[1])
	week, _ := strconv.Atoi(m[2])
	if week < 1 || week > WeeksInYear(year) {
		return Week{}, fmt.Errorf("invalid iso week %q: year %d has %d weeks", raw, year, WeeksInYear(year))
	}
	return Week{Year: year, Week: week}, nil
}

// Valid reports whether raw is a well-formed, existing ISO week.
func Valid(raw string) bool {
	_, err := Parse(raw)
	return err == nil
}

// Monday returns the Monday starting the given ISO week at UTC midnight.
func Monday(year, week int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	week1 := jan4.AddDate(0, 0, -offset)
	return week1.AddDate(0, 0, (week-1)*7)
}

// WeeksInYear returns 52 or 53.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// FromDate returns the ISO week containing t.
func FromDate(t time.Time) Week {
	year, week := t.ISOWeek()
	return Week{Year: year, Week: week}
}
