// Package grid holds the client-independent behaviour of the attendance
// grid: which cell has its status picker open and where the picker goes.
package grid

import "github.com/eonjeswim/eonjeswim/internal/model"

// Cell addresses one (member, date) square of the grid.
type Cell struct {
	MemberID int64  `json:"member_id"`
	Date     string `json:"date"`
}

// Update is the status change requested by a pick.
type Update struct {
	Cell     Cell
	WorkType model.WorkType
}

// Interaction tracks the open picker. The zero value is idle.
type Interaction struct {
	active *Cell
}

// NewInteraction restores an interaction from the cell the page reports as
// open, or idle when active is nil.
func NewInteraction(active *Cell) *Interaction {
	in := &Interaction{}
	if active != nil {
		c := *active
		in.active = &c
	}
	return in
}

// Active returns the cell being edited and whether one is.
func (in *Interaction) Active() (Cell, bool) {
	if in.active == nil {
		return Cell{}, false
	}
	return *in.active, true
}

// Activate handles a click on cell. Locked cells are ignored, clicking the
// open cell closes it and clicking any other cell moves the picker there.
func (in *Interaction) Activate(cell Cell, locked bool) {
	if locked {
		return
	}
	if in.active != nil && *in.active == cell {
		in.active = nil
		return
	}
	in.active = &cell
}

// Pick selects kind for the open cell and closes the picker. It returns
// false when no cell is open.
func (in *Interaction) Pick(kind model.WorkType) (Update, bool) {
	if in.active == nil {
		return Update{}, false
	}
	u := Update{Cell: *in.active, WorkType: kind}
	in.active = nil
	return u, true
}

// Dismiss closes the picker, e.g. on a click outside it.
func (in *Interaction) Dismiss() {
	in.active = nil
}
