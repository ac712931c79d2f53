package app

import (
	"maps"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/roster"
)

// Config is the open calendar's title and period.
type Config struct {
	ID        int64
	Title     string
	StartDate string
	EndDate   string
}

// Member carries a member's recorded entries keyed by date.
type Member struct {
	ID     int64
	Name   string
	Leaves map[string]model.WorkType
}

// State is everything the shell knows about the open calendar. An empty Token
// means the entry screen.
type State struct {
	Token    string
	Calendar Config
	Members  []Member
}

func (s State) clone() State {
	out := s
	out.Members = make([]Member, len(s.Members))
	for i, m := range s.Members {
		m.Leaves = maps.Clone(m.Leaves)
		if m.Leaves == nil {
			m.Leaves = map[string]model.WorkType{}
		}
		out.Members[i] = m
	}
	return out
}

// RosterEntries converts the members into roster rows, in order.
func (s State) RosterEntries() []roster.Entry {
	out := make([]roster.Entry, len(s.Members))
	for i, m := range s.Members {
		out[i] = roster.Entry{Key: roster.KeyFor(m.ID), ID: m.ID, Name: m.Name}
	}
	return out
}

// LeavesList returns each member's entries in member order.
func (s State) LeavesList() []map[string]model.WorkType {
	out := make([]map[string]model.WorkType, len(s.Members))
	for i, m := range s.Members {
		out[i] = m.Leaves
	}
	return out
}
