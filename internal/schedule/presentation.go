package schedule

import (
	"fmt"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

// Style is the rendering metadata of a work type. Fill and Text are CSS
// class tokens; Color is the fill as hex for spreadsheet export.
type Style struct {
	Label string `json:"label"`
	Fill  string `json:"fill"`
	Text  string `json:"text"`
	Color string `json:"color"`
}

// StyleFor returns the fixed style of w. Unknown values get a neutral style.
func StyleFor(w model.WorkType) Style {
	switch w {
	case model.WorkOffice:
		return Style{Label: "Office", Fill: "bg-indigo-200/60", Text: "text-indigo-900", Color: "#C7D2FE"}
	case model.WorkRemote:
		return Style{Label: "Remote", Fill: "bg-emerald-200/80", Text: "text-emerald-900", Color: "#A7F3D0"}
	case model.WorkAMHalf:
		return Style{Label: "AM off", Fill: "bg-amber-200/90", Text: "text-amber-900", Color: "#FDE68A"}
	case model.WorkPMHalf:
		return Style{Label: "PM off", Fill: "bg-orange-300/80", Text: "text-orange-900", Color: "#FDBA74"}
	case model.WorkFullLeave:
		return Style{Label: "Leave", Fill: "bg-rose-400/80", Text: "text-white", Color: "#FB7185"}
	case model.WorkHoliday:
		return Style{Label: "Holiday", Fill: "bg-slate-200", Text: "text-slate-600", Color: "#E2E8F0"}
	case model.WorkNone:
		return Style{Label: "", Fill: "bg-transparent", Text: "text-slate-300", Color: "#FFFFFF"}
	}
	return Style{Fill: "bg-slate-50", Text: "text-slate-400", Color: "#F8FAFC"}
}

// CellLabel is the text shown inside a grid cell. Office, holiday and leave
// cells are colour only.
func CellLabel(w model.WorkType) string {
	switch w {
	case model.WorkOffice, model.WorkHoliday, model.WorkFullLeave, model.WorkNone:
		return ""
	}
	return StyleFor(w).Label
}

// Legend lists the kinds shown in the legend, in display order.
func Legend() []model.WorkType {
	return []model.WorkType{
		model.WorkOffice,
		model.WorkRemote,
		model.WorkAMHalf,
		model.WorkPMHalf,
		model.WorkFullLeave,
		model.WorkHoliday,
	}
}

// PickerKinds lists the kinds a user may pick for a cell.
func PickerKinds() []model.WorkType {
	return []model.WorkType{
		model.WorkOffice,
		model.WorkRemote,
		model.WorkAMHalf,
		model.WorkPMHalf,
		model.WorkFullLeave,
	}
}

// ValidateStyles checks that every kind in model.WorkTypes has a style entry.
func ValidateStyles() error {
	neutral := StyleFor("")
	for _, w := range model.WorkTypes {
		if StyleFor(w) == neutral {
			return fmt.Errorf("work type %s has no style", w)
		}
	}
	return nil
}
