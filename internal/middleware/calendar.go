package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/model"
)

// CalendarFinder looks a calendar up by token, returning (nil, nil) when
// there is none.
type CalendarFinder interface {
	GetByToken(token string) (*model.Calendar, error)
}

// RequireCalendar resolves the {token} path value and stores the calendar in
// the request context. API requests get a JSON 404; page requests go back to
// the entry screen (HX-Redirect for HTMX).
func RequireCalendar(calendars CalendarFinder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.PathValue("token")
			if token == "" {
				notFound(w, r)
				return
			}

			cal, err := calendars.GetByToken(token)
			if err != nil {
				logger.Error("resolve calendar", "error", err)
				writeError(w, http.StatusInternalServerError, "failed to load calendar")
				return
			}
			if cal == nil {
				notFound(w, r)
				return
			}

			ctx := access.WithCalendar(r.Context(), *cal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	switch {
	case isAPI(r):
		writeError(w, http.StatusNotFound, "calendar not found")
	case r.Header.Get("HX-Request") == "true":
		w.Header().Set("HX-Redirect", "/")
		w.WriteHeader(http.StatusOK)
	default:
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
