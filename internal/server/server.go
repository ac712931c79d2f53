package server

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/eonjeswim/eonjeswim/internal/backup"
	"github.com/eonjeswim/eonjeswim/internal/database"
	"github.com/eonjeswim/eonjeswim/internal/handler"
	"github.com/eonjeswim/eonjeswim/internal/middleware"
	"github.com/eonjeswim/eonjeswim/internal/store"
	ws "github.com/eonjeswim/eonjeswim/internal/websocket"
	"github.com/eonjeswim/eonjeswim/web"
)

// Options configures the HTTP surface.
type Options struct {
	BaseURL string
	// CreatePerMinute bounds calendar creation per client IP. Zero disables it.
	CreatePerMinute int
	Calendar        handler.Options
}

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	calendarStore *store.CalendarStore
	calendarH     *handler.CalendarHandler
	memberH       *handler.MemberHandler
	statusH       *handler.StatusHandler
	gridH         *handler.GridHandler
	pageH         *handler.PageHandler
	rateLimiter   *middleware.RateLimiter
	backupManager *backup.Manager
	opts          Options
	logger        *slog.Logger
}

// New wires stores, handlers and the websocket hub. backupMgr may be nil.
func New(db *sql.DB, backupMgr *backup.Manager, opts Options, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	calendarStore := store.NewCalendarStore(db)
	memberStore := store.NewMemberStore(db)
	statusStore := store.NewStatusStore(db)

	statusH := handler.NewStatusHandler(memberStore, statusStore, hub, opts.Calendar, logger.With("component", "status"))
	pageH, err := handler.NewPageHandler(web.FS, calendarStore, memberStore, statusStore, statusH, opts.BaseURL, opts.Calendar, logger.With("component", "page"))
	if err != nil {
		return nil, fmt.Errorf("page handler: %w", err)
	}

	return &Server{
		db:            db,
		hub:           hub,
		calendarStore: calendarStore,
		calendarH:     handler.NewCalendarHandler(calendarStore, hub, opts.Calendar, logger.With("component", "calendar")),
		memberH:       handler.NewMemberHandler(memberStore, hub, logger.With("component", "member")),
		statusH:       statusH,
		gridH:         handler.NewGridHandler(memberStore, statusStore, opts.Calendar, logger.With("component", "grid")),
		pageH:         pageH,
		rateLimiter:   middleware.NewRateLimiter(),
		backupManager: backupMgr,
		opts:          opts,
		logger:        logger,
	}, nil
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

// Hub returns the websocket hub.
func (s *Server) Hub() *ws.Hub {
	return s.hub
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	static, _ := fs.Sub(web.FS, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	mux.HandleFunc("GET /health", s.healthHandler)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.calendarStore, s.logger.With("component", "websocket")))

	s.registerAPIRoutes(mux)
	s.registerPageRoutes(mux)

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) registerAPIRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/calendars", s.rateLimited(s.calendarH.Create))
	mux.Handle("GET /api/calendars/{token}", s.withCalendar(s.calendarH.Get))
	mux.Handle("PUT /api/calendars/{token}", s.withCalendar(s.calendarH.Update))

	mux.Handle("GET /api/calendars/{token}/members", s.withCalendar(s.memberH.List))
	mux.Handle("POST /api/calendars/{token}/members", s.withCalendar(s.memberH.Create))
	mux.Handle("PUT /api/calendars/{token}/members/sort", s.withCalendar(s.memberH.UpdateSortOrder))
	mux.Handle("PUT /api/calendars/{token}/members/{id}", s.withCalendar(s.memberH.Update))
	mux.Handle("DELETE /api/calendars/{token}/members/{id}", s.withCalendar(s.memberH.Delete))

	mux.Handle("GET /api/calendars/{token}/statuses", s.withCalendar(s.statusH.List))
	mux.Handle("PUT /api/calendars/{token}/statuses", s.withCalendar(s.statusH.Upsert))

	mux.Handle("GET /api/calendars/{token}/grid", s.withCalendar(s.gridH.Grid))
	mux.Handle("GET /api/calendars/{token}/export.ics", s.withCalendar(s.gridH.ExportICS))
	mux.Handle("GET /api/calendars/{token}/export.xlsx", s.withCalendar(s.gridH.ExportXLSX))
}

func (s *Server) registerPageRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", s.pageH.Entry)
	mux.HandleFunc("POST /calendars", s.rateLimited(s.pageH.CreateCalendar))
	mux.HandleFunc("POST /enter", s.pageH.EnterLink)
	mux.Handle("GET /{token}", s.withCalendar(s.pageH.Calendar))

	mux.Handle("GET /partials/{token}/grid", s.withCalendar(s.pageH.GridPartial))
	mux.Handle("GET /partials/{token}/picker", s.withCalendar(s.pageH.PickerPartial))
	mux.Handle("POST /partials/{token}/status", s.withCalendar(s.pageH.StatusPartial))
}

func (s *Server) withCalendar(h http.HandlerFunc) http.Handler {
	return middleware.RequireCalendar(s.calendarStore, s.logger.With("component", "access"))(h)
}

func (s *Server) rateLimited(h http.HandlerFunc) http.HandlerFunc {
	rl := middleware.RateLimit(s.rateLimiter, middleware.RealIP, s.opts.CreatePerMinute, time.Minute)
	wrapped := rl(h)
	return wrapped.ServeHTTP
}

type healthResponse struct {
	Status    string         `json:"status"`
	Clients   int            `json:"clients"`
	Calendars int            `json:"calendars_watched"`
	Schema    int64          `json:"schema_version,omitempty"`
	Backup    *backup.Status `json:"backup,omitempty"`
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:    "ok",
		Clients:   s.hub.ClientCount(),
		Calendars: s.hub.RoomCount(),
	}
	if s.backupManager != nil {
		st := s.backupManager.Status()
		resp.Backup = &st
	}
	v, err := database.SchemaVersion(r.Context(), s.db)
	if err != nil {
		s.logger.Error("health check", "error", err)
		resp.Status = "degraded"
		writeJSON(w, http.StatusServiceUnavailable, resp)
		return
	}
	resp.Schema = v
	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
