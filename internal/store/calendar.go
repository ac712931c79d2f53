package store

import (
	"database/sql"
	"fmt"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

type CalendarStore struct {
	db *sql.DB
}

func NewCalendarStore(db *sql.DB) *CalendarStore {
	return &CalendarStore{db: db}
}

func scanCalendar(scanner interface{ Scan(...any) error }) (*model.Calendar, error) {
	var c model.Calendar
	err := scanner.Scan(&c.ID, &c.Token, &c.Name, &c.StartDate, &c.EndDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

const calendarCols = `id, token, name, start_date, end_date, created_at, updated_at`

func (s *CalendarStore) Create(token, name, startDate, endDate string) (*model.Calendar, error) {
	result, err := s.db.Exec(
		`INSERT INTO calendars (token, name, start_date, end_date) VALUES (?, ?, ?, ?)`,
		token, name, startDate, endDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert calendar: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *CalendarStore) GetByID(id int64) (*model.Calendar, error) {
	row := s.db.QueryRow(`SELECT `+calendarCols+` FROM calendars WHERE id = ?`, id)
	c, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}
	return c, nil
}

// GetByToken returns nil, nil when no calendar has the token.
func (s *CalendarStore) GetByToken(token string) (*model.Calendar, error) {
	row := s.db.QueryRow(`SELECT `+calendarCols+` FROM calendars WHERE token = ?`, token)
	c, err := scanCalendar(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar by token: %w", err)
	}
	return c, nil
}

func (s *CalendarStore) Update(id int64, name, startDate, endDate string) (*model.Calendar, error) {
	_, err := s.db.Exec(
		`UPDATE calendars SET name = ?, start_date = ?, end_date = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, startDate, endDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update calendar: %w", err)
	}
	return s.GetByID(id)
}
