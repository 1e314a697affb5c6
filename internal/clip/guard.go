package clip

import (
	"errors"
	"log/slog"
	"time"
)

// Guard wraps a Device with bounded retry. Every read or write is attempted
// up to guardAttempts times with a fixed guardDelay between attempts, but only
// while the failure is ErrBusy — any other error aborts immediately, since it
// indicates a backend or environment fault rather than lock contention.
//
// Exhausting the retry budget is not fatal: Read returns nil and Write returns
// false, and the caller treats the cycle as "no data available".
type Guard struct {
	dev Device

	// sleep is swapped out in tests to keep the retry loop fast.
	sleep func()
}

// NewGuard wraps dev.
func NewGuard(dev Device) *Guard {
	return &Guard{
		dev:   dev,
		sleep: func() { time.Sleep(guardDelay) },
	}
}

// Device returns the wrapped Device.
func (g *Guard) Device() Device { return g.dev }

// Read returns the clipboard payload for f, retrying on contention.
// A nil result means no data is available this cycle.
func (g *Guard) Read(f Format) []byte {
	for attempt := 1; ; attempt++ {
		data, err := g.dev.Read(f)
		if err == nil {
			return data
		}
		if !errors.Is(err, ErrBusy) {
			if !errors.Is(err, ErrUnsupported) {
				slog.Error("clipboard read failed", "format", f.String(), "err", err)
			}
			return nil
		}
		if attempt >= guardAttempts {
			slog.Warn("clipboard still locked, giving up",
				"format", f.String(),
				"attempts", attempt,
			)
			return nil
		}
		g.sleep()
	}
}

// Write replaces the clipboard contents, retrying on contention.
// Returns false when the write could not be performed.
func (g *Guard) Write(f Format, data []byte) bool {
	for attempt := 1; ; attempt++ {
		err := g.dev.Write(f, data)
		if err == nil {
			return true
		}
		if !errors.Is(err, ErrBusy) {
			slog.Error("clipboard write failed", "format", f.String(), "err", err)
			return false
		}
		if attempt >= guardAttempts {
			slog.Warn("clipboard still locked, write abandoned",
				"format", f.String(),
				"attempts", attempt,
			)
			return false
		}
		g.sleep()
	}
}
