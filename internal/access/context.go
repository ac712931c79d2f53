// Package access carries the calendar a request was resolved to. Knowing the
// token is the only credential, so there is no user identity.
package access

import (
	"context"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

type contextKey struct{}

func WithCalendar(ctx context.Context, cal model.Calendar) context.Context {
	return context.WithValue(ctx, contextKey{}, cal)
}

func FromContext(ctx context.Context) (model.Calendar, bool) {
	cal, ok := ctx.Value(contextKey{}).(model.Calendar)
	return cal, ok
}

func CalendarID(ctx context.Context) int64 {
	cal, ok := FromContext(ctx)
	if !ok {
		return 0
	}
	return cal.ID
}

func Token(ctx context.Context) string {
	cal, ok := FromContext(ctx)
	if !ok {
		return ""
	}
	return cal.Token
}
