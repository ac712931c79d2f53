// Package roster edits a calendar's member list as a working copy and
// computes the writes needed to persist it.
package roster

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

var (
	ErrEmptyName  = errors.New("member name is required")
	ErrUnknownKey = errors.New("unknown member")
)

// Entry is one row of the roster. Persisted members have ID > 0 and use the
// decimal ID as Key; rows added in this session have ID 0 and a "new-N" key.
type Entry struct {
	Key  string `json:"key"`
	ID   int64  `json:"id,omitempty"`
	Name string `json:"name"`
}

// IsNew reports whether the entry has not been persisted yet.
func (e Entry) IsNew() bool { return e.ID == 0 }

// KeyFor is the key of a persisted member.
func KeyFor(id int64) string { return strconv.FormatInt(id, 10) }

// Plan lists the writes that turn the loaded roster into the working copy.
type Plan struct {
	Delete []int64
	Create []Entry
	Rename []Entry
	// Order is the full working copy; position is the new sort order.
	Order []Entry
}

// Empty reports whether applying the plan would change nothing.
func (p Plan) Empty() bool {
	return len(p.Delete) == 0 && len(p.Create) == 0 && len(p.Rename) == 0 && p.Order == nil
}

// Roster is not safe for concurrent use.
type Roster struct {
	loaded  []Entry
	working []Entry
	nextNew int
}

// New starts an editing session over the persisted members, in sort order.
func New(members []Entry) *Roster {
	loaded := make([]Entry, len(members))
	for i, m := range members {
		if m.Key == "" {
			m.Key = KeyFor(m.ID)
		}
		loaded[i] = m
	}
	return &Roster{
		loaded:  loaded,
		working: slices.Clone(loaded),
		nextNew: 1,
	}
}

// Entries returns the working copy.
func (r *Roster) Entries() []Entry {
	return slices.Clone(r.working)
}

func (r *Roster) index(key string) int {
	return slices.IndexFunc(r.working, func(e Entry) bool { return e.Key == key })
}

// Add appends a new member and returns its provisional key.
func (r *Roster) Add(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	key := fmt.Sprintf("new-%d", r.nextNew)
	r.nextNew++
	r.working = append(r.working, Entry{Key: key, Name: name})
	return key, nil
}

func (r *Roster) Rename(key, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	i := r.index(key)
	if i < 0 {
		return fmt.Errorf("rename %s: %w", key, ErrUnknownKey)
	}
	r.working[i].Name = name
	return nil
}

func (r *Roster) Remove(key string) error {
	i := r.index(key)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", key, ErrUnknownKey)
	}
	r.working = slices.Delete(r.working, i, i+1)
	return nil
}

// MoveUp swaps the entry with its predecessor. The first entry stays put.
func (r *Roster) MoveUp(key string) {
	if i := r.index(key); i > 0 {
		r.working[i-1], r.working[i] = r.working[i], r.working[i-1]
	}
}

// MoveDown swaps the entry with its successor. The last entry stays put.
func (r *Roster) MoveDown(key string) {
	if i := r.index(key); i >= 0 && i < len(r.working)-1 {
		r.working[i], r.working[i+1] = r.working[i+1], r.working[i]
	}
}

// Dirty reports whether the working copy differs from the loaded one.
func (r *Roster) Dirty() bool {
	return !slices.Equal(r.loaded, r.working)
}

// Plan computes deletions (loaded IDs absent from the working copy),
// creations, renames of persisted members and, when anything changed, the
// final order.
func (r *Roster) Plan() Plan {
	var p Plan
	if !r.Dirty() {
		return p
	}

	kept := make(map[int64]Entry, len(r.working))
	for _, e := range r.working {
		if e.IsNew() {
			p.Create = append(p.Create, e)
			continue
		}
		kept[e.ID] = e
	}
	for _, e := range r.loaded {
		w, ok := kept[e.ID]
		if !ok {
			p.Delete = append(p.Delete, e.ID)
			continue
		}
		if w.Name != e.Name {
			p.Rename = append(p.Rename, w)
		}
	}
	p.Order = slices.Clone(r.working)
	return p
}
