package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"sync"

	"github.com/eonjeswim/eonjeswim/internal/model"
)

var errBackend = errors.New("backend unavailable")

// fakeBackend is an in-memory Backend.
type fakeBackend struct {
	mu        sync.Mutex
	nextID    int64
	calendars map[string]*model.Calendar
	members   map[string][]model.Member
	statuses  map[int64]map[string]model.WorkType

	// gate, when set for a token, blocks GetCalendar until it is closed.
	// entered is closed once GetCalendar reaches the gate.
	gate    map[string]chan struct{}
	entered map[string]chan struct{}
	// fail makes the named operation return errBackend.
	fail  map[string]bool
	calls []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		calendars: map[string]*model.Calendar{},
		members:   map[string][]model.Member{},
		statuses:  map[int64]map[string]model.WorkType{},
		gate:      map[string]chan struct{}{},
		entered:   map[string]chan struct{}{},
		fail:      map[string]bool{},
	}
}

func (f *fakeBackend) record(op string) error {
	f.calls = append(f.calls, op)
	if f.fail[op] {
		return errBackend
	}
	return nil
}

func (f *fakeBackend) seed(token, name string, members ...string) *model.Calendar {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	cal := &model.Calendar{ID: f.nextID, Token: token, Name: name, StartDate: "2025-12-18", EndDate: "2025-12-31"}
	f.calendars[token] = cal
	for _, n := range members {
		f.nextID++
		f.members[token] = append(f.members[token], model.Member{ID: f.nextID, CalendarID: cal.ID, Name: n})
	}
	return cal
}

func (f *fakeBackend) CreateCalendar(ctx context.Context, name string) (*model.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateCalendar"); err != nil {
		return nil, err
	}
	f.nextID++
	token := fmt.Sprintf("token-%08d", f.nextID)
	cal := &model.Calendar{ID: f.nextID, Token: token, Name: name}
	f.calendars[token] = cal
	c := *cal
	return &c, nil
}

func (f *fakeBackend) GetCalendar(ctx context.Context, token string) (*model.Calendar, error) {
	f.mu.Lock()
	gate, entered := f.gate[token], f.entered[token]
	f.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("GetCalendar"); err != nil {
		return nil, err
	}
	cal, ok := f.calendars[token]
	if !ok {
		return nil, nil
	}
	c := *cal
	return &c, nil
}

func (f *fakeBackend) UpdateCalendar(ctx context.Context, token, name, start, end string) (*model.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpdateCalendar"); err != nil {
		return nil, err
	}
	cal, ok := f.calendars[token]
	if !ok {
		return nil, nil
	}
	cal.Name, cal.StartDate, cal.EndDate = name, start, end
	c := *cal
	return &c, nil
}

func (f *fakeBackend) ListMembers(ctx context.Context, token string) ([]model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListMembers"); err != nil {
		return nil, err
	}
	return slices.Clone(f.members[token]), nil
}

func (f *fakeBackend) CreateMember(ctx context.Context, token, name string) (*model.Member, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("CreateMember"); err != nil {
		return nil, err
	}
	f.nextID++
	m := model.Member{ID: f.nextID, Name: name}
	f.members[token] = append(f.members[token], m)
	return &m, nil
}

func (f *fakeBackend) RenameMember(ctx context.Context, token string, id int64, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("RenameMember"); err != nil {
		return err
	}
	for i := range f.members[token] {
		if f.members[token][i].ID == id {
			f.members[token][i].Name = name
		}
	}
	return nil
}

func (f *fakeBackend) DeleteMember(ctx context.Context, token string, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("DeleteMember"); err != nil {
		return err
	}
	f.members[token] = slices.DeleteFunc(f.members[token], func(m model.Member) bool { return m.ID == id })
	delete(f.statuses, id)
	return nil
}

func (f *fakeBackend) SortMembers(ctx context.Context, token string, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("SortMembers"); err != nil {
		return err
	}
	ms := f.members[token]
	slices.SortFunc(ms, func(a, b model.Member) int {
		return slices.Index(ids, a.ID) - slices.Index(ids, b.ID)
	})
	return nil
}

func (f *fakeBackend) ListStatuses(ctx context.Context, token string) ([]model.StatusEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("ListStatuses"); err != nil {
		return nil, err
	}
	var out []model.StatusEntry
	for _, m := range f.members[token] {
		for d, w := range f.statuses[m.ID] {
			out = append(out, model.StatusEntry{MemberID: m.ID, Date: d, WorkType: w})
		}
	}
	return out, nil
}

func (f *fakeBackend) UpsertStatus(ctx context.Context, token string, memberID int64, date string, kind model.WorkType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.record("UpsertStatus"); err != nil {
		return err
	}
	if f.statuses[memberID] == nil {
		f.statuses[memberID] = map[string]model.WorkType{}
	}
	f.statuses[memberID][date] = kind
	return nil
}

// hold makes the next GetCalendar for token block until the returned
// release func is called. The entered channel closes once it blocks.
func (f *fakeBackend) hold(token string) (entered <-chan struct{}, release func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, e := make(chan struct{}), make(chan struct{})
	f.gate[token], f.entered[token] = g, e
	return e, func() {
		f.mu.Lock()
		delete(f.gate, token)
		delete(f.entered, token)
		f.mu.Unlock()
		close(g)
	}
}

func (f *fakeBackend) callsSince(n int) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.calls[n:])
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
