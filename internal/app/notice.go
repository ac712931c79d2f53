package app

import (
	"sync"
	"time"
)

// CopyNoticeTTL is how long the link-copied confirmation stays visible.
const CopyNoticeTTL = 3 * time.Second

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

// Notice is a transient message. A zero Expires never expires.
type Notice struct {
	Kind    NoticeKind
	Message string
	Expires time.Time
}

// Notices holds at most one notice; showing a new one replaces the old.
type Notices struct {
	mu      sync.Mutex
	current *Notice
}

func (n *Notices) Show(kind NoticeKind, msg string, now time.Time, ttl time.Duration) {
	nt := &Notice{Kind: kind, Message: msg}
	if ttl > 0 {
		nt.Expires = now.Add(ttl)
	}
	n.mu.Lock()
	n.current = nt
	n.mu.Unlock()
}

// Current returns the visible notice at now, dropping it once expired.
func (n *Notices) Current(now time.Time) (Notice, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return Notice{}, false
	}
	if !n.current.Expires.IsZero() && !now.Before(n.current.Expires) {
		n.current = nil
		return Notice{}, false
	}
	return *n.current, true
}

func (n *Notices) Clear() {
	n.mu.Lock()
	n.current = nil
	n.mu.Unlock()
}
