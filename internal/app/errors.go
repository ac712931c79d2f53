package app

import "errors"

var (
	// ErrNotFound means the token resolved to no calendar. The shell clears
	// its token when it sees it.
	ErrNotFound = errors.New("calendar not found")
	// ErrInvalidLink means an entered link or ID is empty or too short.
	ErrInvalidLink = errors.New("invalid calendar link")
	// ErrSuperseded means a newer load started before this one finished; its
	// result was discarded.
	ErrSuperseded = errors.New("load superseded")

	ErrNoCalendar    = errors.New("no calendar open")
	ErrInvalidPeriod = errors.New("invalid period")
	ErrUnknownMember = errors.New("unknown member")
)
