package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

type StatusStore struct {
	db *sql.DB
}

func NewStatusStore(db *sql.DB) *StatusStore {
	return &StatusStore{db: db}
}

const statusCols = `s.member_id, s.date, s.work_type, s.updated_at`

func scanStatus(scanner interface{ Scan(...any) error }) (*model.StatusEntry, error) {
	var e model.StatusEntry
	var workType string
	if err := scanner.Scan(&e.MemberID, &e.Date, &workType, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.WorkType = model.WorkType(workType)
	return &e, nil
}

// Upsert records the status for (memberID, date), replacing any earlier entry.
func (s *StatusStore) Upsert(memberID int64, date string, workType model.WorkType) (*model.StatusEntry, error) {
	_, err := s.db.Exec(
		`INSERT INTO schedules (member_id, date, work_type) VALUES (?, ?, ?)
		 ON CONFLICT (member_id, date) DO UPDATE SET work_type = excluded.work_type, updated_at = CURRENT_TIMESTAMP`,
		memberID, date, string(workType),
	)
	if err != nil {
		return nil, fmt.Errorf("upsert schedule: %w", err)
	}

	e, err := scanStatus(s.db.QueryRow(
		"SELECT "+statusCols+" FROM schedules s WHERE s.member_id = ? AND s.date = ?", memberID, date,
	))
	if err != nil {
		return nil, fmt.Errorf("query schedule: %w", err)
	}
	return e, nil
}

// ListByMembers returns every entry recorded for the given members.
func (s *StatusStore) ListByMembers(memberIDs []int64) ([]model.StatusEntry, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(memberIDs)), ",")
	args := make([]any, len(memberIDs))
	for i, id := range memberIDs {
		args[i] = id
	}

	return s.list(
		"SELECT "+statusCols+" FROM schedules s WHERE s.member_id IN ("+placeholders+") ORDER BY s.member_id, s.date",
		args...,
	)
}

// ListByCalendar returns every entry of the calendar's members.
func (s *StatusStore) ListByCalendar(calendarID int64) ([]model.StatusEntry, error) {
	return s.list(
		`SELECT `+statusCols+` FROM schedules s
		 JOIN members m ON m.id = s.member_id
		 WHERE m.calendar_id = ?
		 ORDER BY s.member_id, s.date`,
		calendarID,
	)
}

// ListByCalendarRange is ListByCalendar restricted to start <= date <= end.
func (s *StatusStore) ListByCalendarRange(calendarID int64, start, end string) ([]model.StatusEntry, error) {
	return s.list(
		`SELECT `+statusCols+` FROM schedules s
		 JOIN members m ON m.id = s.member_id
		 WHERE m.calendar_id = ? AND s.date >= ? AND s.date <= ?
		 ORDER BY s.member_id, s.date`,
		calendarID, start, end,
	)
}

func (s *StatusStore) list(query string, args ...any) ([]model.StatusEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query schedules: %w", err)
	}
	defer rows.Close()

	var entries []model.StatusEntry
	for rows.Next() {
		e, err := scanStatus(rows)
		if err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// GroupByMember folds entries into member -> date -> work type.
func GroupByMember(entries []model.StatusEntry) map[int64]map[string]model.WorkType {
	out := make(map[int64]map[string]model.WorkType)
	for _, e := range entries {
		leaves, ok := out[e.MemberID]
		if !ok {
			leaves = make(map[string]model.WorkType)
			out[e.MemberID] = leaves
		}
		leaves[e.Date] = e.WorkType
	}
	return out
}
