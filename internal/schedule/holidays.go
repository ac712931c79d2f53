package schedule

import "sort"

// DefaultHolidays are used when the configuration names none.
var DefaultHolidays = []string{
	"2025-12-25",
	"2026-01-01",
}

// Holidays is a set of designated public-holiday dates (YYYY-MM-DD).
type Holidays map[string]struct{}

func NewHolidays(dates ...string) Holidays {
	h := make(Holidays, len(dates))
	for _, d := range dates {
		h[d] = struct{}{}
	}
	return h
}

func (h Holidays) Contains(date string) bool {
	_, ok := h[date]
	return ok
}

// Dates returns the holidays in ascending order.
func (h Holidays) Dates() []string {
	out := make([]string, 0, len(h))
	for d := range h {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}
