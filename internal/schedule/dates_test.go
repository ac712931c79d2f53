package schedule

import (
	"slices"
	"testing"
	"time"
)

func TestDatesInRangeExample(t *testing.T) {
	got := DatesInRange("2025-12-18", "2025-12-20", time.UTC)
	want := []string{"2025-12-18", "2025-12-19", "2025-12-20"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDatesInRangeLengthAndEndpoints(t *testing.T) {
	cases := []struct {
		start, end string
		n          int
	}{
		{"2025-12-18", "2025-12-18", 1},
		{"2025-12-18", "2026-01-15", 29},
		{"2024-02-27", "2024-03-02", 5},
		{"2025-02-27", "2025-03-02", 4},
		{"2025-12-30", "2026-01-02", 4},
	}
	for _, c := range cases {
		got := DatesInRange(c.start, c.end, time.UTC)
		if len(got) != c.n {
			t.Errorf("%s..%s: len = %d, want %d", c.start, c.end, len(got), c.n)
			continue
		}
		if got[0] != c.start || got[len(got)-1] != c.end {
			t.Errorf("%s..%s: endpoints = %s..%s", c.start, c.end, got[0], got[len(got)-1])
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Errorf("%s..%s: not ascending at %d", c.start, c.end, i)
			}
		}
	}
}

func TestDatesInRangeAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	got := DatesInRange("2026-03-07", "2026-03-09", loc)
	want := []string{"2026-03-07", "2026-03-08", "2026-03-09"}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestDatesInRangeEmpty(t *testing.T) {
	cases := [][2]string{
		{"2025-12-20", "2025-12-18"},
		{"not-a-date", "2025-12-18"},
		{"2025-12-18", ""},
		{"2025-02-30", "2025-03-02"},
	}
	for _, c := range cases {
		got := DatesInRange(c[0], c[1], time.UTC)
		if got == nil || len(got) != 0 {
			t.Errorf("%q..%q: got %v, want empty slice", c[0], c[1], got)
		}
	}
}

func TestFormatShort(t *testing.T) {
	if got := FormatShort("2025-12-18"); got != "12/18 (Thu)" {
		t.Errorf("got %q", got)
	}
	if got := FormatShort("2026-01-04"); got != "1/4 (Sun)" {
		t.Errorf("got %q", got)
	}
	if got := FormatShort("garbage"); got != "garbage" {
		t.Errorf("got %q", got)
	}
}

func TestDefaultPeriod(t *testing.T) {
	now := time.Date(2025, 12, 18, 9, 30, 0, 0, time.UTC)
	start, end := DefaultPeriod(now, 14, time.UTC)
	if start != "2025-12-18" || end != "2026-01-01" {
		t.Errorf("period = %s..%s", start, end)
	}
}

func TestPeriodWithin(t *testing.T) {
	day := func(s string) time.Time {
		d, ok := ParseDate(s, time.UTC)
		if !ok {
			t.Fatalf("parse %s", s)
		}
		return d
	}
	cases := []struct {
		start, end string
		max        int
		want       bool
	}{
		{"2026-01-01", "2026-01-01", 1, true},
		{"2026-01-01", "2026-01-02", 1, false},
		{"2026-01-01", "2026-01-07", 7, true},
		{"2026-01-01", "2026-01-08", 7, false},
		{"2026-01-02", "2026-01-01", 7, false},
		{"2026-01-01", "2026-12-31", 0, true},
		{"2028-01-01", "2028-12-31", 0, true},
		{"2026-01-01", "2027-01-02", 0, false},
		{"1000-01-01", "9999-12-31", 0, false},
	}
	for _, c := range cases {
		if got := PeriodWithin(day(c.start), day(c.end), c.max); got != c.want {
			t.Errorf("PeriodWithin(%s, %s, %d) = %v, want %v", c.start, c.end, c.max, got, c.want)
		}
	}
}
