// Package schedule holds the pure date and status rules of the attendance
// grid: date ranges, default status resolution, daily counts and the
// presentation table for each work type.
package schedule

import (
	"fmt"
	"time"
)

// DateLayout is the canonical date representation (YYYY-MM-DD).
const DateLayout = time.DateOnly

// MaxPeriodDays caps how many dates one period may span.
const MaxPeriodDays = 366

var weekdayShort = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// ParseDate parses a YYYY-MM-DD string as midnight in loc. A nil loc means
// time.Local.
func ParseDate(s string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// DatesInRange returns every date from start to end inclusive, ascending.
// An unparsable bound or start after end yields an empty slice.
func DatesInRange(start, end string, loc *time.Location) []string {
	curr, ok := ParseDate(start, loc)
	if !ok {
		return []string{}
	}
	last, ok := ParseDate(end, loc)
	if !ok {
		return []string{}
	}

	dates := []string{}
	for !curr.After(last) {
		dates = append(dates, curr.Format(DateLayout))
		// AddDate keeps wall-clock midnight across DST changes.
		curr = curr.AddDate(0, 0, 1)
	}
	return dates
}

// PeriodWithin reports whether start..end is a forward range of at most
// maxDays dates, both ends inclusive. maxDays <= 0 means MaxPeriodDays.
func PeriodWithin(start, end time.Time, maxDays int) bool {
	if maxDays <= 0 {
		maxDays = MaxPeriodDays
	}
	if start.After(end) {
		return false
	}
	return !end.After(start.AddDate(0, 0, maxDays-1))
}

// FormatShort renders a date as "12/18 (Thu)". Unparsable input is returned
// unchanged.
func FormatShort(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d/%d (%s)", int(t.Month()), t.Day(), weekdayShort[t.Weekday()])
}

// DefaultPeriod is today through today+days in loc.
func DefaultPeriod(now time.Time, days int, loc *time.Location) (string, string) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)
	return now.Format(DateLayout), now.AddDate(0, 0, days).Format(DateLayout)
}

// IsWeekend reports whether date is a Saturday or Sunday.
func IsWeekend(date string) bool {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return false
	}
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
