package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/store"
	"github.com/eonjeswim/eonjeswim/internal/websocket"
)

type MemberHandler struct {
	memberStore *store.MemberStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewMemberHandler(ms *store.MemberStore, hub *websocket.Hub, logger *slog.Logger) *MemberHandler {
	return &MemberHandler{memberStore: ms, hub: hub, logger: logger}
}

type memberRequest struct {
	Name string `json:"name"`
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.memberStore.ListByCalendar(access.CalendarID(r.Context()))
	if err != nil {
		h.logger.Error("list members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list members"})
		return
	}
	if members == nil {
		members = []model.Member{}
	}
	writeJSON(w, http.StatusOK, members)
}

func (h *MemberHandler) Create(w http.ResponseWriter, r *http.Request) {
	calID := access.CalendarID(r.Context())

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	member, err := h.memberStore.Create(calID, req.Name)
	if err != nil {
		h.logger.Error("create member", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create member"})
		return
	}

	broadcast(h.hub, calID, websocket.NewMessage("member", "created", member.ID, nil))
	writeJSON(w, http.StatusCreated, member)
}

// lookup resolves the {id} path value to a member of the request's calendar.
// It writes the error response itself and returns nil when there is none.
func (h *MemberHandler) lookup(w http.ResponseWriter, r *http.Request) *model.Member {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return nil
	}
	member, err := h.memberStore.GetByID(id)
	if err != nil {
		h.logger.Error("get member", "id", id, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get member"})
		return nil
	}
	if member == nil || member.CalendarID != access.CalendarID(r.Context()) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "member not found"})
		return nil
	}
	return member
}

func (h *MemberHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing := h.lookup(w, r)
	if existing == nil {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	member, err := h.memberStore.Update(existing.ID, req.Name)
	if err != nil {
		h.logger.Error("update member", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update member"})
		return
	}

	broadcast(h.hub, existing.CalendarID, websocket.NewMessage("member", "updated", member.ID, nil))
	writeJSON(w, http.StatusOK, member)
}

func (h *MemberHandler) Delete(w http.ResponseWriter, r *http.Request) {
	existing := h.lookup(w, r)
	if existing == nil {
		return
	}

	if err := h.memberStore.Delete(existing.ID); err != nil {
		h.logger.Error("delete member", "id", existing.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete member"})
		return
	}

	broadcast(h.hub, existing.CalendarID, websocket.NewMessage("member", "deleted", existing.ID, nil))
	w.WriteHeader(http.StatusNoContent)
}

type sortRequest struct {
	IDs []int64 `json:"ids"`
}

func (h *MemberHandler) UpdateSortOrder(w http.ResponseWriter, r *http.Request) {
	calID := access.CalendarID(r.Context())

	var req sortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.IDs) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "ids is required"})
		return
	}

	if err := h.memberStore.UpdateSortOrder(calID, req.IDs); err != nil {
		h.logger.Error("sort members", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update sort order"})
		return
	}

	broadcast(h.hub, calID, websocket.NewMessage("member", "reordered", 0, nil))
	w.WriteHeader(http.StatusNoContent)
}
