package handler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/export"
	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/store"
)

// gridLoader builds the resolved grid of a calendar for a period.
type gridLoader struct {
	memberStore *store.MemberStore
	statusStore *store.StatusStore
	opts        Options
}

// period picks the query's start/end when they form a valid range within
// MaxPeriodDays, else the calendar's stored period under the same rule, else
// today through today+PeriodDays.
func (l *gridLoader) period(cal model.Calendar, r *http.Request) (string, string) {
	start, end := r.URL.Query().Get("start"), r.URL.Query().Get("end")
	if l.opts.periodOK(start, end) {
		return start, end
	}
	if l.opts.periodOK(cal.StartDate, cal.EndDate) {
		return cal.StartDate, cal.EndDate
	}
	return schedule.DefaultPeriod(l.opts.Now(), l.opts.PeriodDays, l.opts.Location)
}

func (l *gridLoader) load(cal model.Calendar, start, end string) (schedule.Grid, error) {
	members, err := l.memberStore.ListByCalendar(cal.ID)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("list members: %w", err)
	}
	entries, err := l.statusStore.ListByCalendarRange(cal.ID, start, end)
	if err != nil {
		return schedule.Grid{}, fmt.Errorf("list statuses: %w", err)
	}
	dates := schedule.DatesInRange(start, end, l.opts.Location)
	return schedule.BuildGrid(members, store.GroupByMember(entries), dates, l.opts.Holidays), nil
}

type GridHandler struct {
	loader *gridLoader
	logger *slog.Logger
}

func NewGridHandler(ms *store.MemberStore, ss *store.StatusStore, opts Options, logger *slog.Logger) *GridHandler {
	return &GridHandler{
		loader: &gridLoader{memberStore: ms, statusStore: ss, opts: opts.withDefaults()},
		logger: logger,
	}
}

type legendEntry struct {
	WorkType model.WorkType `json:"work_type"`
	schedule.Style
}

func legend() []legendEntry {
	kinds := schedule.Legend()
	out := make([]legendEntry, len(kinds))
	for i, k := range kinds {
		out[i] = legendEntry{WorkType: k, Style: schedule.StyleFor(k)}
	}
	return out
}

// Grid returns the resolved grid with daily stats and the legend.
func (h *GridHandler) Grid(w http.ResponseWriter, r *http.Request) {
	cal, _ := access.FromContext(r.Context())
	start, end := h.loader.period(cal, r)

	grid, err := h.loader.load(cal, start, end)
	if err != nil {
		h.logger.Error("load grid", "calendar_id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load grid"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"start_date": start,
		"end_date":   end,
		"grid":       grid,
		"legend":     legend(),
	})
}

func (h *GridHandler) ExportICS(w http.ResponseWriter, r *http.Request) {
	cal, _ := access.FromContext(r.Context())
	start, end := h.loader.period(cal, r)

	grid, err := h.loader.load(cal, start, end)
	if err != nil {
		h.logger.Error("load grid", "calendar_id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load grid"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteICS(&buf, cal.Name, cal.Token, grid, h.loader.opts.Now()); err != nil {
		h.logger.Error("export ics", "calendar_id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export calendar"})
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="attendance.ics"`)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("write ics", "calendar_id", cal.ID, "error", err)
	}
}

func (h *GridHandler) ExportXLSX(w http.ResponseWriter, r *http.Request) {
	cal, _ := access.FromContext(r.Context())
	start, end := h.loader.period(cal, r)

	grid, err := h.loader.load(cal, start, end)
	if err != nil {
		h.logger.Error("load grid", "calendar_id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load grid"})
		return
	}

	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, cal.Name, grid); err != nil {
		h.logger.Error("export xlsx", "calendar_id", cal.ID, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to export spreadsheet"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="attendance-%s-%s.xlsx"`, start, end))
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Debug("write xlsx", "calendar_id", cal.ID, "error", err)
	}
}
