package schedule

import (
	"testing"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

func TestDailyStats(t *testing.T) {
	leaves := []map[string]model.WorkType{
		{"2025-12-18": model.WorkRemote, "2025-12-19": model.WorkFullLeave},
		{"2025-12-18": model.WorkAMHalf},
		{},
	}
	dates := []string{"2025-12-18", "2025-12-19", "2025-12-20"}

	stats := DailyStats(leaves, dates, NewHolidays())
	if len(stats) != 3 {
		t.Fatalf("len = %d, want 3", len(stats))
	}

	want := []struct{ leave, working int }{
		{1, 2}, // remote, AM half, office
		{1, 2}, // leave, office, office
		{0, 0}, // saturday: all holiday
	}
	for i, w := range want {
		if stats[i].LeaveCount != w.leave || stats[i].WorkingCount != w.working {
			t.Errorf("%s: leave=%d working=%d, want %d/%d",
				stats[i].Date, stats[i].LeaveCount, stats[i].WorkingCount, w.leave, w.working)
		}
	}
	if stats[0].Label != "12/18 (Thu)" {
		t.Errorf("label = %q", stats[0].Label)
	}
}

func TestDailyStatsNoMembers(t *testing.T) {
	stats := DailyStats(nil, []string{"2025-12-18"}, NewHolidays())
	if stats[0].LeaveCount != 0 || stats[0].WorkingCount != 0 {
		t.Errorf("got %+v", stats[0])
	}
}
