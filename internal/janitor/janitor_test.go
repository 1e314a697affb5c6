package janitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dcog989/cliptoo/internal/store"
)

type fakeStore struct {
	stats    store.Stats
	statsErr error
	runs     int
	runErr   error
}

func (s *fakeStore) GetStats(context.Context) (store.Stats, error) {
	return s.stats, s.statsErr
}

func (s *fakeStore) RunHeavyMaintenance(context.Context) error {
	s.runs++
	return s.runErr
}

type fakeActivity struct {
	interactive bool
	last        time.Time
}

func (a *fakeActivity) Interactive() bool       { return a.interactive }
func (a *fakeActivity) LastActivity() time.Time { return a.last }

// fixedClock returns a constant now.
type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

var testNow = time.Date(2025, 6, 1, 3, 0, 0, 0, time.UTC)

func newTestJanitor(st *fakeStore, act *fakeActivity) *Janitor {
	return New(st, act, WithClock(fixedClock{now: testNow}))
}

func TestTick_RunsWhenIdleAndOverdue(t *testing.T) {
	st := &fakeStore{stats: store.Stats{LastCleanup: testNow.Add(-25 * time.Hour)}}
	j := newTestJanitor(st, &fakeActivity{last: testNow.Add(-time.Hour)})

	j.Tick(context.Background())
	assert.Equal(t, 1, st.runs, "idle + overdue triggers exactly one run")
}

func TestTick_NeverCleanedCountsAsOverdue(t *testing.T) {
	st := &fakeStore{}
	j := newTestJanitor(st, &fakeActivity{})

	j.Tick(context.Background())
	assert.Equal(t, 1, st.runs, "a zero last-cleanup means never, which is overdue")
}

func TestTick_SkipsWhileInteractive(t *testing.T) {
	st := &fakeStore{stats: store.Stats{LastCleanup: testNow.Add(-48 * time.Hour)}}
	j := newTestJanitor(st, &fakeActivity{interactive: true})

	j.Tick(context.Background())
	assert.Zero(t, st.runs, "an interactive UI blocks maintenance at any elapsed time")
}

func TestTick_SkipsAfterRecentActivity(t *testing.T) {
	st := &fakeStore{stats: store.Stats{LastCleanup: testNow.Add(-48 * time.Hour)}}
	j := newTestJanitor(st, &fakeActivity{last: testNow.Add(-2 * time.Minute)})

	j.Tick(context.Background())
	assert.Zero(t, st.runs, "activity within the idle window blocks maintenance")
}

func TestTick_SkipsWhenRanRecently(t *testing.T) {
	st := &fakeStore{stats: store.Stats{LastCleanup: testNow.Add(-2 * time.Hour)}}
	j := newTestJanitor(st, &fakeActivity{})

	j.Tick(context.Background())
	assert.Zero(t, st.runs)
}

func TestTick_StatsFailureEndsCycleOnly(t *testing.T) {
	st := &fakeStore{statsErr: errors.New("db locked")}
	j := newTestJanitor(st, &fakeActivity{})

	j.Tick(context.Background())
	assert.Zero(t, st.runs)

	// Next cycle is unaffected by the previous failure.
	st.statsErr = nil
	j.Tick(context.Background())
	assert.Equal(t, 1, st.runs)
}

func TestTick_MaintenanceFailureDoesNotPanicOrRepeat(t *testing.T) {
	st := &fakeStore{runErr: errors.New("vacuum failed")}
	j := newTestJanitor(st, &fakeActivity{})

	require.NotPanics(t, func() { j.Tick(context.Background()) })
	assert.Equal(t, 1, st.runs)
}
