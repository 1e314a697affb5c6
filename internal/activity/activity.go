// Package activity tracks recent user interaction so that background
// maintenance can be deferred while the application is in use.
package activity

import (
	"sync"
	"time"
)

// Tracker records the last observed user interaction and whether the UI is
// currently visible/interactive. Safe for concurrent use.
type Tracker struct {
	mu          sync.RWMutex
	interactive bool
	last        time.Time
}

// NewTracker returns a Tracker with no recorded activity.
func NewTracker() *Tracker {
	return &Tracker{}
}

// Touch records an interaction now. The change processor calls this after
// every stored clip: a fresh capture counts as recent user activity.
func (t *Tracker) Touch() {
	t.mu.Lock()
	t.last = time.Now()
	t.mu.Unlock()
}

// SetInteractive records whether the UI is currently visible/interactive.
func (t *Tracker) SetInteractive(v bool) {
	t.mu.Lock()
	t.interactive = v
	t.mu.Unlock()
}

// Interactive reports whether the UI is currently visible/interactive.
func (t *Tracker) Interactive() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.interactive
}

// LastActivity returns the time of the most recent interaction; the zero
// time means no interaction has been observed.
func (t *Tracker) LastActivity() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.last
}
