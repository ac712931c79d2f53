package store

import "testing"

func TestCalendarCreateAndGetByToken(t *testing.T) {
	s := NewCalendarStore(setupTestDB(t))

	c, err := s.Create("0b6a4e0e-5d4c-4f5e-9d1b-1f2f3a4b5c6d", "Platform team", "2025-12-18", "2026-01-15")
	if err != nil {
		t.Fatalf("create calendar: %v", err)
	}
	if c.Name != "Platform team" {
		t.Errorf("name = %q, want %q", c.Name, "Platform team")
	}
	if c.StartDate != "2025-12-18" || c.EndDate != "2026-01-15" {
		t.Errorf("period = %s..%s, want 2025-12-18..2026-01-15", c.StartDate, c.EndDate)
	}

	got, err := s.GetByToken("0b6a4e0e-5d4c-4f5e-9d1b-1f2f3a4b5c6d")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got == nil || got.ID != c.ID {
		t.Fatalf("got %+v, want id %d", got, c.ID)
	}
}

func TestCalendarGetByTokenNotFound(t *testing.T) {
	s := NewCalendarStore(setupTestDB(t))

	got, err := s.GetByToken("does-not-exist-token")
	if err != nil {
		t.Fatalf("get by token: %v", err)
	}
	if got != nil {
		t.Error("expected nil for unknown token")
	}
}

func TestCalendarTokenUnique(t *testing.T) {
	s := NewCalendarStore(setupTestDB(t))

	if _, err := s.Create("same-token-123", "A", "", ""); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if _, err := s.Create("same-token-123", "B", "", ""); err == nil {
		t.Error("expected unique constraint error on duplicate token")
	}
}

func TestCalendarUpdate(t *testing.T) {
	s := NewCalendarStore(setupTestDB(t))

	c, _ := s.Create("token-for-update", "Old", "", "")
	updated, err := s.Update(c.ID, "New", "2026-02-01", "2026-02-14")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "New" {
		t.Errorf("name = %q, want %q", updated.Name, "New")
	}
	if updated.StartDate != "2026-02-01" || updated.EndDate != "2026-02-14" {
		t.Errorf("period = %s..%s", updated.StartDate, updated.EndDate)
	}
}
