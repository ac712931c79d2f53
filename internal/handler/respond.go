package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/eonjeswim/eonjeswim/internal/schedule"
	"github.com/eonjeswim/eonjeswim/internal/websocket"
)

// Options carries the calendar rules shared by every handler.
type Options struct {
	Holidays   schedule.Holidays
	Location   *time.Location
	PeriodDays int
	// MaxPeriodDays bounds every period a request or a stored calendar can
	// ask for.
	MaxPeriodDays int
	Now           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Holidays == nil {
		o.Holidays = schedule.NewHolidays(schedule.DefaultHolidays...)
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.MaxPeriodDays <= 0 {
		o.MaxPeriodDays = schedule.MaxPeriodDays
	}
	if o.PeriodDays <= 0 {
		o.PeriodDays = 14
	}
	// The default period spans PeriodDays+1 dates.
	if o.PeriodDays >= o.MaxPeriodDays {
		o.PeriodDays = o.MaxPeriodDays - 1
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// periodOK reports whether start..end parse as a forward range no longer
// than MaxPeriodDays.
func (o Options) periodOK(start, end string) bool {
	s, ok1 := schedule.ParseDate(start, o.Location)
	e, ok2 := schedule.ParseDate(end, o.Location)
	return ok1 && ok2 && schedule.PeriodWithin(s, e, o.MaxPeriodDays)
}

func broadcast(hub *websocket.Hub, calendarID int64, msg websocket.Message) {
	if hub != nil {
		hub.Broadcast(calendarID, msg)
	}
}

func parseIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
