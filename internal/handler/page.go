package handler

import (
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/eonjeswim/eonjeswim/internal/access"
	"github.com/eonjeswim/eonjeswim/internal/app"
	"github.com/eonjeswim/eonjeswim/internal/grid"
	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/store"
)

// pickerSize is the rendered size of the status picker in CSS pixels.
var pickerSize = grid.Size{W: 176, H: 236}

// PageHandler serves the HTML entry screen, the calendar page and its HTMX
// partials.
type PageHandler struct {
	calendarStore *store.CalendarStore
	loader        *gridLoader
	statusH       *StatusHandler
	templates     *template.Template
	baseURL       string
	logger        *slog.Logger
}

func NewPageHandler(templatesFS fs.FS, cs *store.CalendarStore, ms *store.MemberStore, ss *store.StatusStore, statusH *StatusHandler, baseURL string, opts Options, logger *slog.Logger) (*PageHandler, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"style":     schedule.StyleFor,
		"cellLabel": schedule.CellLabel,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &PageHandler{
		calendarStore: cs,
		loader:        &gridLoader{memberStore: ms, statusStore: ss, opts: opts.withDefaults()},
		statusH:       statusH,
		templates:     tmpl,
		baseURL:       strings.TrimRight(baseURL, "/"),
		logger:        logger,
	}, nil
}

func (h *PageHandler) Entry(w http.ResponseWriter, r *http.Request) {
	h.render(w, "entry.html", map[string]any{
		"Title":        "EonjeSwim",
		"DefaultTitle": app.DefaultTitle,
	})
}

func (h *PageHandler) CreateCalendar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = app.DefaultTitle
	}

	cal, err := h.calendarStore.Create(NewToken(), name, "", "")
	if err != nil {
		h.logger.Error("create calendar", "error", err)
		http.Error(w, "failed to create calendar", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/#"+cal.Token, http.StatusSeeOther)
}

// EnterLink opens the calendar named by a pasted link or bare ID.
func (h *PageHandler) EnterLink(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	link := r.FormValue("link")
	token := app.TokenFromAddress(link)
	if token == "" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusBadRequest)
		msg := "That link or ID is not valid."
		if strings.TrimSpace(link) == "" {
			msg = "Enter a calendar link or ID."
		}
		h.render(w, "entry.html", map[string]any{
			"Title":        "EonjeSwim",
			"DefaultTitle": app.DefaultTitle,
			"Error":        msg,
			"Link":         link,
		})
		return
	}
	http.Redirect(w, r, "/"+token, http.StatusSeeOther)
}

// shareLink prefers the configured base URL over the request's host.
func (h *PageHandler) shareLink(r *http.Request, token string) string {
	origin := h.baseURL
	if origin == "" {
		scheme := "http"
		if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		origin = scheme + "://" + r.Host
	}
	return app.ShareLink(origin, "/", token)
}

func (h *PageHandler) gridData(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	cal, _ := access.FromContext(r.Context())
	start, end := h.loader.period(cal, r)

	g, err := h.loader.load(cal, start, end)
	if err != nil {
		h.logger.Error("load grid", "calendar_id", cal.ID, "error", err)
		http.Error(w, "failed to load calendar", http.StatusInternalServerError)
		return nil, false
	}
	return map[string]any{
		"Calendar": cal,
		"Token":    cal.Token,
		"Start":    start,
		"End":      end,
		"Grid":     g,
		"Legend":   legend(),
	}, true
}

func (h *PageHandler) Calendar(w http.ResponseWriter, r *http.Request) {
	data, ok := h.gridData(w, r)
	if !ok {
		return
	}
	cal := data["Calendar"].(model.Calendar)
	data["Title"] = cal.Name + " · EonjeSwim"
	data["ShareLink"] = h.shareLink(r, cal.Token)
	h.render(w, "calendar.html", data)
}

func (h *PageHandler) GridPartial(w http.ResponseWriter, r *http.Request) {
	data, ok := h.gridData(w, r)
	if !ok {
		return
	}
	h.render(w, "grid", data)
}

// PickerPartial runs one click through the grid interaction. The page sends
// the open cell (active_member, active_date), the clicked cell (member, date)
// and the measured anchor rectangle and viewport. The response is the
// positioned picker, or an empty body when the click closed it.
func (h *PageHandler) PickerPartial(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	clicked, ok := parseCell(q.Get("member"), q.Get("date"), h.loader.opts)
	if !ok {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}
	var active *grid.Cell
	if c, ok := parseCell(q.Get("active_member"), q.Get("active_date"), h.loader.opts); ok {
		active = &c
	}

	in := grid.NewInteraction(active)
	if q.Get("dismiss") == "1" {
		in.Dismiss()
	} else {
		locked := schedule.Resolve(clicked.Date, nil, h.loader.opts.Holidays).Locked()
		in.Activate(clicked, locked)
	}

	cell, open := in.Active()
	if !open {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		return
	}

	anchor := grid.Rect{X: queryFloat(q.Get("ax")), Y: queryFloat(q.Get("ay")), W: queryFloat(q.Get("aw")), H: queryFloat(q.Get("ah"))}
	viewport := grid.Size{W: queryFloat(q.Get("vw")), H: queryFloat(q.Get("vh"))}
	pos := grid.Place(anchor, pickerSize, viewport, grid.DefaultPadding, grid.DefaultSpacing)

	kinds := schedule.PickerKinds()
	options := make([]legendEntry, len(kinds))
	for i, k := range kinds {
		options[i] = legendEntry{WorkType: k, Style: schedule.StyleFor(k)}
	}

	h.render(w, "picker", map[string]any{
		"Token":   access.Token(r.Context()),
		"Cell":    cell,
		"Label":   schedule.FormatShort(cell.Date),
		"Pos":     pos,
		"Size":    pickerSize,
		"Options": options,
		"Start":   q.Get("start"),
		"End":     q.Get("end"),
	})
}

// StatusPartial applies a pick from the picker and re-renders the grid.
func (h *PageHandler) StatusPartial(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	cell, ok := parseCell(r.FormValue("member_id"), r.FormValue("date"), h.loader.opts)
	if !ok {
		http.Error(w, "invalid cell", http.StatusBadRequest)
		return
	}
	kind, err := model.ParseWorkType(r.FormValue("work_type"))
	if err != nil {
		http.Error(w, "invalid work type", http.StatusBadRequest)
		return
	}

	update, _ := grid.NewInteraction(&cell).Pick(kind)
	_, status, msg := h.statusH.upsert(access.CalendarID(r.Context()), statusRequest{
		MemberID: update.Cell.MemberID,
		Date:     update.Cell.Date,
		WorkType: string(update.WorkType),
	})
	if status != http.StatusOK {
		http.Error(w, msg, status)
		return
	}

	h.GridPartial(w, r)
}

func parseCell(member, date string, opts Options) (grid.Cell, bool) {
	id, err := strconv.ParseInt(member, 10, 64)
	if err != nil || id <= 0 {
		return grid.Cell{}, false
	}
	if _, ok := schedule.ParseDate(date, opts.Location); !ok {
		return grid.Cell{}, false
	}
	return grid.Cell{MemberID: id, Date: date}, true
}

func queryFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (h *PageHandler) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		h.logger.Error("template error", "template", name, "error", err)
		fmt.Fprint(w, `<div class="alert alert-error">Template error</div>`)
	}
}
