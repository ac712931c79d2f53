package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/store"
	"github.com/eonjeswim/eonjeswim/internal/websocket"
)

type StatusHandler struct {
	memberStore *store.MemberStore
	statusStore *store.StatusStore
	hub         *websocket.Hub
	opts        Options
	logger      *slog.Logger
}

func NewStatusHandler(ms *store.MemberStore, ss *store.StatusStore, hub *websocket.Hub, opts Options, logger *slog.Logger) *StatusHandler {
	return &StatusHandler{memberStore: ms, statusStore: ss, hub: hub, opts: opts.withDefaults(), logger: logger}
}

type statusRequest struct {
	MemberID int64  `json:"member_id"`
	Date     string `json:"date"`
	WorkType string `json:"work_type"`
}

func (h *StatusHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.statusStore.ListByCalendar(access.CalendarID(r.Context()))
	if err != nil {
		h.logger.Error("list statuses", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list statuses"})
		return
	}
	if entries == nil {
		entries = []model.StatusEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// Upsert records one status. The last write for a (member, date) wins.
func (h *StatusHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	entry, status, msg := h.upsert(access.CalendarID(r.Context()), req)
	if entry == nil {
		writeJSON(w, status, map[string]string{"error": msg})
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// upsert validates and stores req. On failure it returns a nil entry with
// the HTTP status and message to report.
func (h *StatusHandler) upsert(calID int64, req statusRequest) (*model.StatusEntry, int, string) {
	kind, err := model.ParseWorkType(req.WorkType)
	if err != nil {
		return nil, http.StatusBadRequest, "invalid work_type"
	}
	if _, ok := schedule.ParseDate(req.Date, h.opts.Location); !ok {
		return nil, http.StatusBadRequest, "date must be YYYY-MM-DD"
	}

	member, err := h.memberStore.GetByID(req.MemberID)
	if err != nil {
		h.logger.Error("get member", "id", req.MemberID, "error", err)
		return nil, http.StatusInternalServerError, "failed to get member"
	}
	if member == nil || member.CalendarID != calID {
		return nil, http.StatusNotFound, "member not found"
	}

	entry, err := h.statusStore.Upsert(member.ID, req.Date, kind)
	if err != nil {
		h.logger.Error("upsert status", "member_id", member.ID, "date", req.Date, "error", err)
		return nil, http.StatusInternalServerError, "failed to save status"
	}

	broadcast(h.hub, calID, websocket.NewMessage("status", "updated", member.ID, map[string]any{
		"date":      entry.Date,
		"work_type": string(entry.WorkType),
	}))
	return entry, http.StatusOK, ""
}
