package app

import (
	"context"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

// Backend is the persistence boundary the shell talks to. GetCalendar returns
// (nil, nil) when the token resolves to nothing.
type Backend interface {
	CreateCalendar(ctx context.Context, name string) (*model.Calendar, error)
	GetCalendar(ctx context.Context, token string) (*model.Calendar, error)
	UpdateCalendar(ctx context.Context, token, name, startDate, endDate string) (*model.Calendar, error)

	ListMembers(ctx context.Context, token string) ([]model.Member, error)
	CreateMember(ctx context.Context, token, name string) (*model.Member, error)
	RenameMember(ctx context.Context, token string, id int64, name string) error
	DeleteMember(ctx context.Context, token string, id int64) error
	SortMembers(ctx context.Context, token string, ids []int64) error

	ListStatuses(ctx context.Context, token string) ([]model.StatusEntry, error)
	UpsertStatus(ctx context.Context, token string, memberID int64, date string, kind model.WorkType) error
}

// Clipboard receives copied share links.
type Clipboard interface {
	WriteText(text string) error
}
