package store

import (
	"database/sql"
	"fmt"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

type MemberStore struct {
	db *sql.DB
}

func NewMemberStore(db *sql.DB) *MemberStore {
	return &MemberStore{db: db}
}

const memberCols = `id, calendar_id, name, sort_order, created_at, updated_at`

func scanMember(scanner interface{ Scan(...any) error }) (*model.Member, error) {
	var m model.Member
	if err := scanner.Scan(&m.ID, &m.CalendarID, &m.Name, &m.SortOrder, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	return &m, nil
}

// Create appends a member at the end of the calendar's ordering.
func (s *MemberStore) Create(calendarID int64, name string) (*model.Member, error) {
	var maxOrder int
	err := s.db.QueryRow(
		"SELECT COALESCE(MAX(sort_order), -1) FROM members WHERE calendar_id = ?", calendarID,
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("query max sort_order: %w", err)
	}

	result, err := s.db.Exec(
		"INSERT INTO members (calendar_id, name, sort_order) VALUES (?, ?, ?)",
		calendarID, name, maxOrder+1,
	)
	if err != nil {
		return nil, fmt.Errorf("insert member: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	return s.GetByID(id)
}

// ListByCalendar returns members in display order. Ties fall back to id so
// the order is stable.
func (s *MemberStore) ListByCalendar(calendarID int64) ([]model.Member, error) {
	rows, err := s.db.Query(
		"SELECT "+memberCols+" FROM members WHERE calendar_id = ? ORDER BY sort_order, id",
		calendarID,
	)
	if err != nil {
		return nil, fmt.Errorf("query members: %w", err)
	}
	defer rows.Close()

	var members []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		members = append(members, *m)
	}
	return members, rows.Err()
}

func (s *MemberStore) GetByID(id int64) (*model.Member, error) {
	m, err := scanMember(s.db.QueryRow("SELECT "+memberCols+" FROM members WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query member: %w", err)
	}
	return m, nil
}

func (s *MemberStore) Update(id int64, name string) (*model.Member, error) {
	_, err := s.db.Exec(
		"UPDATE members SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
		name, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update member: %w", err)
	}
	return s.GetByID(id)
}

// Delete removes the member and every status entry recorded for it.
func (s *MemberStore) Delete(id int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM schedules WHERE member_id = ?", id); err != nil {
		return fmt.Errorf("delete member schedules: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM members WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete member: %w", err)
	}
	return tx.Commit()
}

// UpdateSortOrder assigns sort_order by position in ids. IDs that belong to a
// different calendar are left untouched.
func (s *MemberStore) UpdateSortOrder(calendarID int64, ids []int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("UPDATE members SET sort_order = ? WHERE id = ? AND calendar_id = ?")
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.Exec(i, id, calendarID); err != nil {
			return fmt.Errorf("update sort order for id %d: %w", id, err)
		}
	}

	return tx.Commit()
}
