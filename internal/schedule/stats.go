package schedule

import "github.com/eonjeswim/eonjeswim/internal/model"

// DailyStat aggregates the resolved statuses of all members on one date.
type DailyStat struct {
	Date         string `json:"date"`
	Label        string `json:"label"`
	LeaveCount   int    `json:"leave_count"`
	WorkingCount int    `json:"working_count"`
}

// IsLeave reports whether w takes the member out for at least half a day.
func IsLeave(w model.WorkType) bool {
	return w == model.WorkAMHalf || w == model.WorkPMHalf || w == model.WorkFullLeave
}

// IsWorking reports whether w is a full working day.
func IsWorking(w model.WorkType) bool {
	return w == model.WorkOffice || w == model.WorkRemote
}

// DailyStats counts, per date, members on (half or full) leave and members
// working. Each element of leaves is one member's recorded entries.
func DailyStats(leaves []map[string]model.WorkType, dates []string, holidays Holidays) []DailyStat {
	stats := make([]DailyStat, 0, len(dates))
	for _, date := range dates {
		stat := DailyStat{Date: date, Label: FormatShort(date)}
		for _, entries := range leaves {
			w := Resolve(date, entries, holidays).WorkType
			switch {
			case IsLeave(w):
				stat.LeaveCount++
			case IsWorking(w):
				stat.WorkingCount++
			}
		}
		stats = append(stats, stat)
	}
	return stats
}
