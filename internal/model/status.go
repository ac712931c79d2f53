package model

import (
	"fmt"
	"time"
)

// WorkType is the attendance status of one member on one date.
type WorkType string

const (
	WorkOffice    WorkType = "OFFICE"
	WorkRemote    WorkType = "REMOTE"
	WorkAMHalf    WorkType = "AM_HALF"
	WorkPMHalf    WorkType = "PM_HALF"
	WorkFullLeave WorkType = "FULL_LEAVE"
	WorkHoliday   WorkType = "HOLIDAY"
	WorkNone      WorkType = "NONE"
)

// WorkTypes lists every kind in display order.
var WorkTypes = []WorkType{
	WorkOffice,
	WorkRemote,
	WorkAMHalf,
	WorkPMHalf,
	WorkFullLeave,
	WorkHoliday,
	WorkNone,
}

func (w WorkType) Valid() bool {
	switch w {
	case WorkOffice, WorkRemote, WorkAMHalf, WorkPMHalf, WorkFullLeave, WorkHoliday, WorkNone:
		return true
	}
	return false
}

// ParseWorkType validates s against the closed set of kinds.
func ParseWorkType(s string) (WorkType, error) {
	w := WorkType(s)
	if !w.Valid() {
		return "", fmt.Errorf("unknown work type %q", s)
	}
	return w, nil
}

// StatusEntry is an explicitly recorded status. At most one exists per (member, date).
type StatusEntry struct {
	MemberID  int64     `json:"member_id"`
	Date      string    `json:"date"`
	WorkType  WorkType  `json:"work_type"`
	UpdatedAt time.Time `json:"updated_at"`
}
