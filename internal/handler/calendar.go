package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/app"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/store"
	"github.com/eonjeswim/eonjeswim/internal/websocket"
)

type CalendarHandler struct {
	calendarStore *store.CalendarStore
	hub           *websocket.Hub
	opts          Options
	logger        *slog.Logger
}

func NewCalendarHandler(cs *store.CalendarStore, hub *websocket.Hub, opts Options, logger *slog.Logger) *CalendarHandler {
	return &CalendarHandler{calendarStore: cs, hub: hub, opts: opts.withDefaults(), logger: logger}
}

type calendarRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// NewToken returns a fresh unguessable calendar token.
func NewToken() string {
	return uuid.NewString()
}

func (h *CalendarHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = app.DefaultTitle
	}

	cal, err := h.calendarStore.Create(NewToken(), name, "", "")
	if err != nil {
		h.logger.Error("create calendar", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create calendar"})
		return
	}

	h.logger.Info("calendar created", "id", cal.ID)
	writeJSON(w, http.StatusCreated, cal)
}

func (h *CalendarHandler) Get(w http.ResponseWriter, r *http.Request) {
	cal, _ := access.FromContext(r.Context())
	writeJSON(w, http.StatusOK, cal)
}

// Update replaces the name and period. Both dates empty clears the period.
func (h *CalendarHandler) Update(w http.ResponseWriter, r *http.Request) {
	cal, _ := access.FromContext(r.Context())

	var req calendarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if msg := h.validatePeriod(req.StartDate, req.EndDate); msg != "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": msg})
		return
	}

	updated, err := h.calendarStore.Update(cal.ID, req.Name, req.StartDate, req.EndDate)
	if err != nil {
		h.logger.Error("update calendar", "id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update calendar"})
		return
	}

	broadcast(h.hub, cal.ID, websocket.NewMessage("calendar", "updated", cal.ID, nil))
	writeJSON(w, http.StatusOK, updated)
}

func (h *CalendarHandler) validatePeriod(start, end string) string {
	if start == "" && end == "" {
		return ""
	}
	s, ok1 := schedule.ParseDate(start, h.opts.Location)
	e, ok2 := schedule.ParseDate(end, h.opts.Location)
	if !ok1 || !ok2 {
		return "start_date and end_date must be YYYY-MM-DD"
	}
	if s.After(e) {
		return "start_date must not be after end_date"
	}
	if !schedule.PeriodWithin(s, e, h.opts.MaxPeriodDays) {
		return fmt.Sprintf("period must not span more than %d days", h.opts.MaxPeriodDays)
	}
	return ""
}
