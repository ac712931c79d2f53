package store

import (
	"testing"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

func setupMemberTest(t *testing.T) (*MemberStore, *StatusStore, int64) {
	t.Helper()
	db := setupTestDB(t)
	c, err := NewCalendarStore(db).Create("member-test-token", "Team", "", "")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	return NewMemberStore(db), NewStatusStore(db), c.ID
}

func TestMemberCreateAppendsSortOrder(t *testing.T) {
	s, _, calID := setupMemberTest(t)

	a, err := s.Create(calID, "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	b, _ := s.Create(calID, "Bob")

	if a.SortOrder != 0 || b.SortOrder != 1 {
		t.Errorf("sort orders = %d, %d; want 0, 1", a.SortOrder, b.SortOrder)
	}
	if a.CalendarID != calID {
		t.Errorf("calendar_id = %d, want %d", a.CalendarID, calID)
	}
}

func TestMemberListByCalendarIsScoped(t *testing.T) {
	s, _, calID := setupMemberTest(t)
	other, err := NewCalendarStore(s.db).Create("other-calendar-token", "Other", "", "")
	if err != nil {
		t.Fatalf("create other calendar: %v", err)
	}

	s.Create(calID, "Alice")
	s.Create(other.ID, "Mallory")

	members, err := s.ListByCalendar(calID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(members) != 1 || members[0].Name != "Alice" {
		t.Fatalf("members = %+v, want only Alice", members)
	}
}

func TestMemberUpdateSortOrder(t *testing.T) {
	s, _, calID := setupMemberTest(t)

	a, _ := s.Create(calID, "Alice")
	b, _ := s.Create(calID, "Bob")
	c, _ := s.Create(calID, "Carol")

	if err := s.UpdateSortOrder(calID, []int64{c.ID, a.ID, b.ID}); err != nil {
		t.Fatalf("update sort order: %v", err)
	}

	members, _ := s.ListByCalendar(calID)
	want := []string{"Carol", "Alice", "Bob"}
	for i, m := range members {
		if m.Name != want[i] {
			t.Errorf("position %d = %q, want %q", i, m.Name, want[i])
		}
	}
}

func TestMemberRename(t *testing.T) {
	s, _, calID := setupMemberTest(t)

	m, _ := s.Create(calID, "Alcie")
	updated, err := s.Update(m.ID, "Alice")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Alice" {
		t.Errorf("name = %q, want %q", updated.Name, "Alice")
	}
}

func TestMemberDeleteCascadesStatuses(t *testing.T) {
	s, statuses, calID := setupMemberTest(t)

	m, _ := s.Create(calID, "Alice")
	if _, err := statuses.Upsert(m.ID, "2025-12-22", model.WorkRemote); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.Delete(m.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	got, err := s.GetByID(m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Error("member should be gone")
	}

	entries, err := statuses.ListByMembers([]int64{m.ID})
	if err != nil {
		t.Fatalf("list statuses: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected statuses to be deleted, got %d", len(entries))
	}
}
