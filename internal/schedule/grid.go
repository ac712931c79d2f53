package schedule

import "github.com/eonjeswim/eonjeswim/internal/model"

// Row is one member's line of the grid.
type Row struct {
	MemberID  int64       `json:"member_id"`
	Name      string      `json:"name"`
	NameLines []string    `json:"name_lines"`
	Days      []DayStatus `json:"days"`
}

// Grid is the resolved attendance table for a period.
type Grid struct {
	Dates  []string    `json:"dates"`
	Labels []string    `json:"labels"`
	Rows   []Row       `json:"rows"`
	Stats  []DailyStat `json:"stats"`
}

// BuildGrid resolves every (member, date) cell. entries holds each member's
// recorded statuses keyed by member ID; members keep their given order.
func BuildGrid(members []model.Member, entries map[int64]map[string]model.WorkType, dates []string, holidays Holidays) Grid {
	g := Grid{
		Dates:  dates,
		Labels: make([]string, len(dates)),
		Rows:   make([]Row, 0, len(members)),
	}
	for i, d := range dates {
		g.Labels[i] = FormatShort(d)
	}

	leaves := make([]map[string]model.WorkType, 0, len(members))
	for _, m := range members {
		e := entries[m.ID]
		leaves = append(leaves, e)

		row := Row{
			MemberID:  m.ID,
			Name:      m.Name,
			NameLines: WrapName(m.Name),
			Days:      make([]DayStatus, len(dates)),
		}
		for i, d := range dates {
			row.Days[i] = Resolve(d, e, holidays)
		}
		g.Rows = append(g.Rows, row)
	}
	g.Stats = DailyStats(leaves, dates, holidays)
	return g
}
