// Package janitor schedules heavy store maintenance while the user is idle.
//
// A fixed-period ticker checks, on every tick, whether the application is
// demonstrably idle (UI not interactive, no activity within the idle
// window). Only then, and only if the last heavy maintenance is older than
// a day, is the store's maintenance run. A failed cycle logs and ends; the
// next tick retries with no carried-over state.
package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/dcog989/cliptoo/internal/store"
)

const (
	// tickPeriod is how often idleness is re-evaluated.
	tickPeriod = 2 * time.Hour
	// idleWindow is how long since the last interaction the app must have
	// been quiet before maintenance may run.
	idleWindow = 5 * time.Minute
	// maintenanceEvery bounds how often heavy maintenance actually runs.
	maintenanceEvery = 24 * time.Hour
)

// Store is the maintenance surface of the clip store.
type Store interface {
	GetStats(ctx context.Context) (store.Stats, error)
	RunHeavyMaintenance(ctx context.Context) error
}

// Activity reports recent user interaction.
type Activity interface {
	Interactive() bool
	LastActivity() time.Time
}

// Clock abstracts time for tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Janitor drives idle-gated heavy maintenance.
type Janitor struct {
	store    Store
	activity Activity
	clock    Clock
	period   time.Duration
}

// Option configures a Janitor.
type Option func(*Janitor)

// WithClock substitutes the time source.
func WithClock(c Clock) Option {
	return func(j *Janitor) { j.clock = c }
}

// WithPeriod overrides the tick period.
func WithPeriod(d time.Duration) Option {
	return func(j *Janitor) { j.period = d }
}

// New creates a Janitor. Call Run in a goroutine to start it.
func New(st Store, act Activity, opts ...Option) *Janitor {
	j := &Janitor{
		store:    st,
		activity: act,
		clock:    systemClock{},
		period:   tickPeriod,
	}
	for _, o := range opts {
		o(j)
	}
	return j
}

// Run ticks until ctx is cancelled. An in-flight maintenance pass is
// abandoned best-effort on shutdown via ctx.
func (j *Janitor) Run(ctx context.Context) {
	t := time.NewTicker(j.period)
	defer t.Stop()
	slog.Info("maintenance janitor started", "period", j.period)
	for {
		select {
		case <-ctx.Done():
			slog.Info("maintenance janitor stopped")
			return
		case <-t.C:
			j.Tick(ctx)
		}
	}
}

// Tick runs one scheduling decision. Exported so tests (and a manual
// maintenance command) can drive the janitor without real time passing.
func (j *Janitor) Tick(ctx context.Context) {
	if j.activity.Interactive() {
		slog.Debug("maintenance skipped: UI is interactive")
		return
	}
	if last := j.activity.LastActivity(); !last.IsZero() && j.clock.Now().Sub(last) < idleWindow {
		slog.Debug("maintenance skipped: recent activity", "last", last)
		return
	}

	stats, err := j.store.GetStats(ctx)
	if err != nil {
		slog.Error("maintenance cycle failed reading stats", "err", err)
		return
	}

	// A zero LastCleanup means maintenance has never run.
	if !stats.LastCleanup.IsZero() && j.clock.Now().Sub(stats.LastCleanup) <= maintenanceEvery {
		slog.Debug("maintenance skipped: ran recently", "last_cleanup", stats.LastCleanup)
		return
	}

	slog.Info("running heavy maintenance", "clips", stats.Clips)
	if err := j.store.RunHeavyMaintenance(ctx); err != nil {
		slog.Error("heavy maintenance failed", "err", err)
	}
}
