// Package export renders a resolved grid as an iCalendar feed or an XLSX
// workbook.
package export

import (
	"fmt"
	"io"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

const productID = "-//eonjeswim//attendance//EN"

// exported reports whether w becomes a calendar event. Office days and
// calendar-derived holidays are the background, not events.
func exported(w model.WorkType) bool {
	switch w {
	case model.WorkRemote, model.WorkAMHalf, model.WorkPMHalf, model.WorkFullLeave:
		return true
	}
	return false
}

// WriteICS writes one all-day event per member and date whose status is
// remote or any kind of leave. UIDs are stable per (calendar, member, date)
// so subscribers update events in place.
func WriteICS(w io.Writer, title, token string, g schedule.Grid, now time.Time) error {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(title)

	for _, row := range g.Rows {
		for _, day := range row.Days {
			if !exported(day.WorkType) {
				continue
			}
			start, err := time.Parse(schedule.DateLayout, day.Date)
			if err != nil {
				return fmt.Errorf("parse date %q: %w", day.Date, err)
			}

			ev := cal.AddEvent(fmt.Sprintf("%s-%d-%s@eonjeswim", token, row.MemberID, day.Date))
			ev.SetDtStampTime(now)
			ev.SetAllDayStartAt(start)
			ev.SetAllDayEndAt(start.AddDate(0, 0, 1))
			ev.SetSummary(fmt.Sprintf("%s: %s", row.Name, schedule.StyleFor(day.WorkType).Label))
			ev.SetDescription(title)
		}
	}

	if err := cal.SerializeTo(w); err != nil {
		return fmt.Errorf("serialize calendar: %w", err)
	}
	return nil
}
