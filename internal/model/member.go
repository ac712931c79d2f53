package model

import "time"

type Member struct {
	ID         int64     `json:"id"`
	CalendarID int64     `json:"calendar_id"`
	Name       string    `json:"name"`
	SortOrder  int       `json:"sort_order"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
