// Package monitor implements the clipboard change detector.
//
// Each "clipboard changed" signal from the backend drives one step of the
// detector: probe the available formats in priority order, fingerprint the
// winning payload, and emit an Event only on genuine novelty. The priority
// order (rich text → file drop → image → plain text) exists because formats
// overlap — an RTF payload usually also exposes a plain-text shadow that must
// not count as a second, independent change.
//
// The detector also suppresses the echo of content the application itself
// wrote back onto the clipboard, so a programmatic rewrite never loops back
// through the capture pipeline.
package monitor

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/dcog989/cliptoo/internal/clip"
)

// Category partitions clipboard snapshots for dedup purposes. Categories are
// mutually exclusive per snapshot.
type Category int

const (
	CategoryText Category = iota
	CategoryImage
	CategoryFiles
)

func (c Category) String() string {
	switch c {
	case CategoryText:
		return "text"
	case CategoryImage:
		return "image"
	case CategoryFiles:
		return "files"
	default:
		return "unknown"
	}
}

// Event is one accepted clipboard change. Exactly one of Text, Image, or
// Paths carries the payload, selected by Category.
type Event struct {
	Category  Category
	Text      string   // CategoryText
	Image     []byte   // CategoryImage
	Paths     []string // CategoryFiles
	SourceApp string   // best-effort foreground app name, may be empty
	RichText  bool     // Text carries RTF rather than plain text
}

// SourceResolver resolves the foreground application name, best-effort.
// Failures yield an empty string and are never surfaced.
type SourceResolver interface {
	ForegroundApp() string
}

type noSource struct{}

func (noSource) ForegroundApp() string { return "" }

// Monitor is the change detector. It owns the per-category fingerprint slots
// and the one-shot suppression slot. State is guarded by a single mutex so
// that programmatic write-back from another goroutine cannot race the
// notification path.
type Monitor struct {
	guard  *clip.Guard
	source SourceResolver
	events chan Event

	mu     sync.Mutex
	paused bool
	// Last accepted fingerprint per category. Accepting a change in one
	// category zeroes the other two: a category that regains the clipboard
	// is novel again even with identical bytes.
	lastText  uint64
	lastImage uint64
	lastFiles uint64
	// One-shot suppression. armed is explicit rather than a zero-fingerprint
	// sentinel, so a payload that legitimately hashes to zero still behaves.
	suppressArmed bool
	suppressFP    uint64
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithSource sets the foreground-application resolver.
func WithSource(s SourceResolver) Option {
	return func(m *Monitor) { m.source = s }
}

// New creates a Monitor reading through guard. Events are delivered on the
// channel returned by Events; the buffer absorbs bursts without blocking the
// notification path.
func New(guard *clip.Guard, opts ...Option) *Monitor {
	m := &Monitor{
		guard:  guard,
		source: noSource{},
		events: make(chan Event, 64),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Events returns the accepted-change channel.
func (m *Monitor) Events() <-chan Event { return m.events }

// Run consumes change signals from the clipboard backend until ctx is
// cancelled. Call in a goroutine.
func (m *Monitor) Run(ctx context.Context) {
	watch := m.guard.Device().Watch()
	slog.Info("clipboard monitor started", "backend", m.guard.Device().Name())
	for {
		select {
		case <-ctx.Done():
			slog.Info("clipboard monitor stopped")
			return
		case <-watch:
			m.Step()
		}
	}
}

// Pause stops the detector from reacting to notifications. Collaborators that
// perform raw clipboard writes pause the monitor first so their own write is
// never reprocessed.
func (m *Monitor) Pause() {
	m.mu.Lock()
	m.paused = true
	m.mu.Unlock()
}

// Resume re-enables change detection.
func (m *Monitor) Resume() {
	m.mu.Lock()
	m.paused = false
	m.mu.Unlock()
}

// SuppressNext arms the one-shot suppression slot: the next observed change
// whose fingerprint equals fp is discarded. The slot is consumed on the very
// next observed change whether or not it matched, so a stale arm can never
// eat a later, unrelated change.
func (m *Monitor) SuppressNext(fp uint64) {
	m.mu.Lock()
	m.suppressArmed = true
	m.suppressFP = fp
	m.mu.Unlock()
}

// WriteBack writes data to the clipboard on the application's behalf, arming
// suppression first so the resulting OS notification is swallowed. The arm
// happens strictly before the write: even if the notification for the
// self-write is delivered immediately, the suppression is already in place.
func (m *Monitor) WriteBack(f clip.Format, data []byte) bool {
	m.SuppressNext(Fingerprint(data))
	return m.guard.Write(f, data)
}

// Reset clears all fingerprint and suppression state. Called when a stored
// clip is deleted: its content must be eligible for re-capture.
func (m *Monitor) Reset() {
	m.mu.Lock()
	m.lastText = 0
	m.lastImage = 0
	m.lastFiles = 0
	m.suppressArmed = false
	m.suppressFP = 0
	m.mu.Unlock()
}

// Step runs one detection cycle against the current clipboard state.
// It is the notification handler: probe formats in priority order, check
// suppression, check novelty, emit at most one Event.
func (m *Monitor) Step() {
	m.mu.Lock()
	if m.paused {
		m.mu.Unlock()
		return
	}
	m.mu.Unlock()

	cat, payload, ok := m.probe()
	if !ok {
		return
	}

	fp := Fingerprint(payload.canonical)

	m.mu.Lock()
	if m.suppressArmed {
		matched := m.suppressFP == fp
		m.suppressArmed = false
		m.suppressFP = 0
		if matched {
			m.mu.Unlock()
			slog.Debug("self-write suppressed", "category", cat.String())
			return
		}
	}
	if m.lastFor(cat) == fp {
		m.mu.Unlock()
		return
	}
	m.setLast(cat, fp)
	m.mu.Unlock()

	ev := Event{
		Category:  cat,
		Text:      payload.text,
		Image:     payload.image,
		Paths:     payload.paths,
		RichText:  payload.rich,
		SourceApp: m.source.ForegroundApp(),
	}

	select {
	case m.events <- ev:
		slog.Debug("clipboard change accepted",
			"category", cat.String(),
			"bytes", len(payload.canonical),
		)
	default:
		slog.Warn("event channel full, dropping change", "category", cat.String())
	}
}

type payload struct {
	canonical []byte
	text      string
	image     []byte
	paths     []string
	rich      bool
}

// probe inspects formats in strict priority order and returns the first
// non-empty payload. Lower-priority formats are not inspected once a higher
// one is claimed.
func (m *Monitor) probe() (Category, payload, bool) {
	if data := m.guard.Read(clip.FmtRTF); len(data) > 0 {
		return CategoryText, payload{canonical: data, text: string(data), rich: true}, true
	}
	if data := m.guard.Read(clip.FmtFiles); len(data) > 0 {
		paths := splitPaths(string(data))
		if len(paths) > 0 {
			canonical := strings.Join(paths, "\n")
			return CategoryFiles, payload{canonical: []byte(canonical), paths: paths}, true
		}
	}
	if data := m.guard.Read(clip.FmtImage); len(data) > 0 {
		return CategoryImage, payload{canonical: data, image: data}, true
	}
	if data := m.guard.Read(clip.FmtText); len(data) > 0 {
		text := string(data)
		if strings.TrimSpace(text) == "" {
			return 0, payload{}, false
		}
		return CategoryText, payload{canonical: data, text: text}, true
	}
	return 0, payload{}, false
}

func (m *Monitor) lastFor(c Category) uint64 {
	switch c {
	case CategoryText:
		return m.lastText
	case CategoryImage:
		return m.lastImage
	default:
		return m.lastFiles
	}
}

// setLast records fp for c and zeroes the other two slots: categories are
// mutually exclusive per clipboard snapshot.
func (m *Monitor) setLast(c Category, fp uint64) {
	m.lastText = 0
	m.lastImage = 0
	m.lastFiles = 0
	switch c {
	case CategoryText:
		m.lastText = fp
	case CategoryImage:
		m.lastImage = fp
	case CategoryFiles:
		m.lastFiles = fp
	}
}

// splitPaths splits a file-drop payload into one path per line, dropping
// blank lines.
func splitPaths(s string) []string {
	var paths []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) != "" {
			paths = append(paths, line)
		}
	}
	return paths
}
