package schedule

import "github.com/eonjeswim/eonjeswim/internal/model"

// DayStatus is the effective status of one member on one date.
type DayStatus struct {
	Date      string         `json:"date"`
	IsWeekend bool           `json:"is_weekend"`
	IsHoliday bool           `json:"is_holiday"`
	WorkType  model.WorkType `json:"work_type"`
}

// Locked reports whether the cell is calendar-derived (weekend or holiday).
func (d DayStatus) Locked() bool {
	return d.IsWeekend || d.IsHoliday
}

// Resolve computes the effective status for date from a member's recorded
// entries. An explicit entry other than NONE always wins, even on weekends
// and holidays. Otherwise weekends and holidays default to HOLIDAY and every
// other day to OFFICE. The result never carries NONE.
func Resolve(date string, entries map[string]model.WorkType, holidays Holidays) DayStatus {
	status := DayStatus{
		Date:      date,
		IsWeekend: IsWeekend(date),
		IsHoliday: holidays.Contains(date),
	}

	if w, ok := entries[date]; ok && w != "" && w != model.WorkNone {
		status.WorkType = w
		return status
	}

	if status.IsWeekend || status.IsHoliday {
		status.WorkType = model.WorkHoliday
	} else {
		status.WorkType = model.WorkOffice
	}
	return status
}
