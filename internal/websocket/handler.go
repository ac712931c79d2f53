package websocket

import (
	"log/slog"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

// CalendarFinder resolves the token a client subscribes with.
type CalendarFinder interface {
	GetByToken(token string) (*model.Calendar, error)
}

// HandleWebSocket upgrades GET /ws?token=... and streams change
// notifications for that calendar.
func HandleWebSocket(hub *Hub, calendars CalendarFinder, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		cal, err := calendars.GetByToken(token)
		if err != nil {
			logger.Error("websocket: resolve calendar", "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		if cal == nil {
			http.Error(w, "calendar not found", http.StatusNotFound)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			// The share link is the credential; pages may be served from any origin.
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Warn("websocket: accept", "error", err)
			return
		}

		NewClient(hub, conn, cal.ID).Run(r.Context())
	}
}
