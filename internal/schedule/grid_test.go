package schedule

import (
	"testing"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

func TestBuildGrid(t *testing.T) {
	members := []model.Member{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	entries := map[int64]map[string]model.WorkType{
		2: {"2025-12-25": model.WorkRemote},
	}
	dates := DatesInRange("2025-12-24", "2025-12-26", nil)

	g := BuildGrid(members, entries, dates, NewHolidays(DefaultHolidays...))
	if len(g.Rows) != 2 || len(g.Labels) != 3 || len(g.Stats) != 3 {
		t.Fatalf("grid shape: rows=%d labels=%d stats=%d", len(g.Rows), len(g.Labels), len(g.Stats))
	}
	if g.Labels[1] != "12/25 (Thu)" {
		t.Errorf("label = %q", g.Labels[1])
	}
	if got := g.Rows[0].Days[1]; got.WorkType != model.WorkHoliday || !got.Locked() {
		t.Errorf("Alice on 12/25 = %+v", got)
	}
	if got := g.Rows[1].Days[1].WorkType; got != model.WorkRemote {
		t.Errorf("Bob on 12/25 = %q", got)
	}
	if g.Stats[1].WorkingCount != 1 {
		t.Errorf("working on 12/25 = %d, want 1", g.Stats[1].WorkingCount)
	}
}

func TestBuildGridEmpty(t *testing.T) {
	g := BuildGrid(nil, nil, nil, NewHolidays())
	if len(g.Rows) != 0 || len(g.Stats) != 0 {
		t.Errorf("got %+v", g)
	}
}
