package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/xuri/excelize/v2"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

func testGrid() schedule.Grid {
	members := []model.Member{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}}
	entries := map[int64]map[string]model.WorkType{
		1: {"2025-12-18": model.WorkRemote, "2025-12-19": model.WorkFullLeave},
		2: {"2025-12-19": model.WorkOffice},
	}
	dates := schedule.DatesInRange("2025-12-18", "2025-12-20", time.UTC)
	return schedule.BuildGrid(members, entries, dates, schedule.NewHolidays())
}

func TestWriteICS(t *testing.T) {
	var buf bytes.Buffer
	now := time.Date(2025, 12, 17, 12, 0, 0, 0, time.UTC)
	if err := WriteICS(&buf, "Team", "abc123xyz789", testGrid(), now); err != nil {
		t.Fatal(err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	events := cal.Events()
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2 (office and weekend are not exported)", len(events))
	}

	summaries := map[string]bool{}
	for _, ev := range events {
		summaries[ev.GetProperty(ical.ComponentPropertySummary).Value] = true
	}
	if !summaries["Alice: Remote"] || !summaries["Alice: Leave"] {
		t.Errorf("summaries = %v", summaries)
	}
	if events[0].Id() != "abc123xyz789-1-2025-12-18@eonjeswim" {
		t.Errorf("uid = %q", events[0].Id())
	}
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteXLSX(&buf, "Team", testGrid()); err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		t.Fatal(err)
	}
	// header, 2 members, leave and working counts
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5: %v", len(rows), rows)
	}
	if rows[0][0] != "Member" || rows[0][1] != "12/18 (Thu)" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][0] != "Alice" || rows[1][1] != "Remote" || rows[1][2] != "Leave" || rows[1][3] != "Holiday" {
		t.Errorf("alice row = %v", rows[1])
	}
	if rows[3][0] != "On leave" || rows[3][2] != "1" {
		t.Errorf("leave row = %v", rows[3])
	}
	if rows[4][0] != "Working" || rows[4][1] != "2" {
		t.Errorf("working row = %v", rows[4])
	}
}
