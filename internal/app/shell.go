// Package app is the application shell: it owns the open calendar's state,
// talks to a Backend and turns failures into user-facing notices.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/eonjeswim/eonjeswim/internal/model"
	"github.com/eonjeswim/eonjeswim/internal/roster"
	"github.com/eonjeswim/eonjeswim/internal/schedule"
)

// DefaultTitle names calendars created without a title.
const DefaultTitle = "New calendar"

// DefaultPeriodDays is the span shown when a calendar has no stored period.
const DefaultPeriodDays = 14

type Options struct {
	Location      *time.Location
	PeriodDays    int
	MaxPeriodDays int
	Now           func() time.Time
}

// Result reports the outcome of an optimistic update. The local state has
// already changed when Err is non-nil.
type Result struct {
	Err error
}

func (r Result) OK() bool { return r.Err == nil }

// Shell is safe for concurrent use.
type Shell struct {
	backend    Backend
	logger     *slog.Logger
	loc        *time.Location
	periodDays int
	maxDays    int
	now        func() time.Time
	notices    Notices

	mu    sync.Mutex
	state State
	gen   uint64
}

func NewShell(backend Backend, logger *slog.Logger, opts Options) *Shell {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.MaxPeriodDays <= 0 {
		opts.MaxPeriodDays = schedule.MaxPeriodDays
	}
	if opts.PeriodDays <= 0 {
		opts.PeriodDays = DefaultPeriodDays
	}
	if opts.PeriodDays >= opts.MaxPeriodDays {
		opts.PeriodDays = opts.MaxPeriodDays - 1
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Shell{
		backend:    backend,
		logger:     logger.With("component", "shell"),
		loc:        opts.Location,
		periodDays: opts.PeriodDays,
		maxDays:    opts.MaxPeriodDays,
		now:        opts.Now,
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Shell) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Notice returns the notice visible now, if any.
func (s *Shell) Notice() (Notice, bool) {
	return s.notices.Current(s.now())
}

func (s *Shell) Notices() *Notices { return &s.notices }

func (s *Shell) notifyError(err error, msg string) {
	s.logger.Error(msg, "error", err)
	s.notices.Show(NoticeError, msg, s.now(), 0)
}

// Dates returns the dates of the open calendar's period.
func (s *Shell) Dates() []string {
	s.mu.Lock()
	cfg := s.state.Calendar
	s.mu.Unlock()
	return schedule.DatesInRange(cfg.StartDate, cfg.EndDate, s.loc)
}

// bump invalidates every load in flight and returns the new generation.
func (s *Shell) bump() uint64 {
	s.gen++
	return s.gen
}

// Navigate resolves the token in address and loads it. An address without a
// valid token returns to the entry screen.
func (s *Shell) Navigate(ctx context.Context, address string) error {
	token := TokenFromAddress(address)
	if token == "" {
		s.mu.Lock()
		s.bump()
		s.state = State{}
		s.mu.Unlock()
		return nil
	}
	return s.Load(ctx, token)
}

// Load fetches the calendar, its members and all status entries in one pass.
// If another load or navigation starts before it finishes, the result is
// dropped and ErrSuperseded returned.
func (s *Shell) Load(ctx context.Context, token string) error {
	s.mu.Lock()
	gen := s.bump()
	s.mu.Unlock()

	next, err := s.fetch(ctx, token)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		s.logger.Debug("load superseded", "token", token)
		return ErrSuperseded
	}
	if errors.Is(err, ErrNotFound) {
		s.state = State{}
		s.notices.Show(NoticeError, "Calendar not found.", s.now(), 0)
		return err
	}
	if err != nil {
		s.notifyError(err, "Failed to load calendar.")
		return err
	}
	s.state = next
	return nil
}

func (s *Shell) fetch(ctx context.Context, token string) (State, error) {
	cal, err := s.backend.GetCalendar(ctx, token)
	if err != nil {
		return State{}, fmt.Errorf("getting calendar: %w", err)
	}
	if cal == nil {
		return State{}, ErrNotFound
	}

	members, err := s.backend.ListMembers(ctx, token)
	if err != nil {
		return State{}, fmt.Errorf("listing members: %w", err)
	}
	entries, err := s.backend.ListStatuses(ctx, token)
	if err != nil {
		return State{}, fmt.Errorf("listing statuses: %w", err)
	}

	leaves := make(map[int64]map[string]model.WorkType, len(members))
	for _, e := range entries {
		if leaves[e.MemberID] == nil {
			leaves[e.MemberID] = map[string]model.WorkType{}
		}
		leaves[e.MemberID][e.Date] = e.WorkType
	}

	st := State{
		Token:    cal.Token,
		Calendar: s.configFor(cal),
		Members:  make([]Member, 0, len(members)),
	}
	for _, m := range members {
		l := leaves[m.ID]
		if l == nil {
			l = map[string]model.WorkType{}
		}
		st.Members = append(st.Members, Member{ID: m.ID, Name: m.Name, Leaves: l})
	}
	return st, nil
}

func (s *Shell) configFor(cal *model.Calendar) Config {
	cfg := Config{
		ID:        cal.ID,
		Title:     cal.Name,
		StartDate: cal.StartDate,
		EndDate:   cal.EndDate,
	}
	if !s.periodOK(cfg.StartDate, cfg.EndDate) {
		cfg.StartDate, cfg.EndDate = schedule.DefaultPeriod(s.now(), s.periodDays, s.loc)
	}
	return cfg
}

// CreateCalendar creates a calendar and opens it. It returns the new token.
func (s *Shell) CreateCalendar(ctx context.Context, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}

	cal, err := s.backend.CreateCalendar(ctx, title)
	if err != nil {
		err = fmt.Errorf("creating calendar: %w", err)
		s.notifyError(err, "Failed to create calendar.")
		return "", err
	}

	s.mu.Lock()
	s.bump()
	s.state = State{
		Token:    cal.Token,
		Calendar: s.configFor(cal),
		Members:  []Member{},
	}
	s.mu.Unlock()

	s.logger.Info("calendar created", "token", cal.Token)
	return cal.Token, nil
}

// EnterLink opens the calendar named by a pasted link or bare ID.
func (s *Shell) EnterLink(ctx context.Context, link string) error {
	if strings.TrimSpace(link) == "" {
		s.notices.Show(NoticeError, "Enter a calendar link or ID.", s.now(), 0)
		return ErrInvalidLink
	}
	token := TokenFromAddress(link)
	if token == "" {
		s.notices.Show(NoticeError, "That link or ID is not valid.", s.now(), 0)
		return ErrInvalidLink
	}
	return s.Load(ctx, token)
}

// UpdateTitle renames the open calendar, or creates one when none is open.
func (s *Shell) UpdateTitle(ctx context.Context, title string) error {
	s.mu.Lock()
	token, cfg := s.state.Token, s.state.Calendar
	s.mu.Unlock()

	if token == "" {
		_, err := s.CreateCalendar(ctx, title)
		return err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle
	}
	return s.saveConfig(ctx, token, title, cfg.StartDate, cfg.EndDate, "Failed to update title.")
}

// SetPeriod changes and persists the open calendar's date range.
func (s *Shell) SetPeriod(ctx context.Context, start, end string) error {
	if !s.periodOK(start, end) {
		return fmt.Errorf("%s..%s: %w", start, end, ErrInvalidPeriod)
	}

	s.mu.Lock()
	token, cfg := s.state.Token, s.state.Calendar
	s.mu.Unlock()
	if token == "" {
		return ErrNoCalendar
	}
	return s.saveConfig(ctx, token, cfg.Title, start, end, "Failed to update period.")
}

// periodOK reports whether start..end is a forward range of at most
// maxDays dates.
func (s *Shell) periodOK(start, end string) bool {
	startT, ok1 := schedule.ParseDate(start, s.loc)
	endT, ok2 := schedule.ParseDate(end, s.loc)
	return ok1 && ok2 && schedule.PeriodWithin(startT, endT, s.maxDays)
}

func (s *Shell) saveConfig(ctx context.Context, token, title, start, end, failMsg string) error {
	cal, err := s.backend.UpdateCalendar(ctx, token, title, start, end)
	if err != nil {
		err = fmt.Errorf("updating calendar: %w", err)
		s.notifyError(err, failMsg)
		return err
	}
	if cal == nil {
		return ErrNotFound
	}

	s.mu.Lock()
	if s.state.Token == token {
		s.state.Calendar = s.configFor(cal)
	}
	s.mu.Unlock()
	return nil
}

// UpdateStatus records kind for the member on date. The local state changes
// before the backend call and is not rolled back when it fails.
func (s *Shell) UpdateStatus(ctx context.Context, memberID int64, date string, kind model.WorkType) Result {
	if !kind.Valid() {
		return Result{Err: fmt.Errorf("unknown work type %q", kind)}
	}
	if _, ok := schedule.ParseDate(date, s.loc); !ok {
		return Result{Err: fmt.Errorf("invalid date %q", date)}
	}

	s.mu.Lock()
	token := s.state.Token
	found := false
	for i := range s.state.Members {
		if s.state.Members[i].ID == memberID {
			s.state.Members[i].Leaves[date] = kind
			found = true
			break
		}
	}
	s.mu.Unlock()

	if token == "" {
		return Result{Err: ErrNoCalendar}
	}
	if !found {
		return Result{Err: fmt.Errorf("member %d: %w", memberID, ErrUnknownMember)}
	}

	if err := s.backend.UpsertStatus(ctx, token, memberID, date, kind); err != nil {
		err = fmt.Errorf("saving status: %w", err)
		s.notifyError(err, "Failed to save status.")
		return Result{Err: err}
	}
	return Result{}
}

// Roster starts a roster editing session over the current members.
func (s *Shell) Roster() *roster.Roster {
	s.mu.Lock()
	defer s.mu.Unlock()
	return roster.New(s.state.RosterEntries())
}

// SaveRoster applies r's plan: deletions, insertions, renames, then the final
// order, and reloads. A failing step stops the sequence; earlier steps stay
// applied.
func (s *Shell) SaveRoster(ctx context.Context, r *roster.Roster) error {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()
	if token == "" {
		return ErrNoCalendar
	}

	plan := r.Plan()
	if plan.Empty() {
		return nil
	}

	if err := s.applyPlan(ctx, token, plan); err != nil {
		s.notifyError(err, "Failed to save members.")
		return err
	}
	s.logger.Info("roster saved", "token", token,
		"deleted", len(plan.Delete), "created", len(plan.Create), "renamed", len(plan.Rename))
	return s.Load(ctx, token)
}

func (s *Shell) applyPlan(ctx context.Context, token string, plan roster.Plan) error {
	for _, id := range plan.Delete {
		if err := s.backend.DeleteMember(ctx, token, id); err != nil {
			return fmt.Errorf("deleting member %d: %w", id, err)
		}
	}

	created := make(map[string]int64, len(plan.Create))
	for _, e := range plan.Create {
		m, err := s.backend.CreateMember(ctx, token, e.Name)
		if err != nil {
			return fmt.Errorf("creating member %q: %w", e.Name, err)
		}
		created[e.Key] = m.ID
	}

	for _, e := range plan.Rename {
		if err := s.backend.RenameMember(ctx, token, e.ID, e.Name); err != nil {
			return fmt.Errorf("renaming member %d: %w", e.ID, err)
		}
	}

	ids := make([]int64, 0, len(plan.Order))
	for _, e := range plan.Order {
		if e.IsNew() {
			ids = append(ids, created[e.Key])
		} else {
			ids = append(ids, e.ID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	if err := s.backend.SortMembers(ctx, token, ids); err != nil {
		return fmt.Errorf("sorting members: %w", err)
	}
	return nil
}

// ShareLink returns the link that opens the current calendar, or "" when
// none is open.
func (s *Shell) ShareLink(origin, path string) string {
	s.mu.Lock()
	token := s.state.Token
	s.mu.Unlock()
	return ShareLink(origin, path, token)
}

// CopyLink writes the share link to clip and shows a short confirmation.
func (s *Shell) CopyLink(clip Clipboard, origin, path string) error {
	link := s.ShareLink(origin, path)
	if link == "" {
		return ErrNoCalendar
	}
	if err := clip.WriteText(link); err != nil {
		err = fmt.Errorf("copying link: %w", err)
		s.notifyError(err, "Failed to copy link.")
		return err
	}
	s.notices.Show(NoticeInfo, "Link copied.", s.now(), CopyNoticeTTL)
	return nil
}
