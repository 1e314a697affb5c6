// Package clip provides access to the system clipboard: the Device interface
// over the raw clipboard, and the Guard retry wrapper that absorbs transient
// exclusive-lock contention from other processes.
//
// The default system Device is built on golang.design/x/clipboard (text and
// image formats, polling change detection). Hosts without a usable display
// environment get a headless no-op Device instead.
package clip

import (
	"errors"
	"time"
)

// Format identifies one clipboard data representation.
type Format int

const (
	// FmtText is the plain-text representation (UTF-8 bytes).
	FmtText Format = iota
	// FmtRTF is the rich-text representation.
	FmtRTF
	// FmtImage is the PNG-encoded image representation.
	FmtImage
	// FmtFiles is the file-drop representation: one absolute path per line.
	FmtFiles
)

func (f Format) String() string {
	switch f {
	case FmtText:
		return "text"
	case FmtRTF:
		return "rtf"
	case FmtImage:
		return "image"
	case FmtFiles:
		return "files"
	default:
		return "unknown"
	}
}

// ErrBusy is returned by a Device when the clipboard is exclusively held by
// another process. The condition is transient; lock hold times are typically
// single-digit milliseconds. Guard retries on this error and only this error.
var ErrBusy = errors.New("clipboard busy")

// ErrUnsupported is returned when a Device does not carry the requested
// format. It is not retried.
var ErrUnsupported = errors.New("format not supported by clipboard backend")

// Device is the raw clipboard. Implementations are platform backends or test
// fakes; callers should go through a Guard rather than use a Device directly.
type Device interface {
	// Name returns a human-readable backend name.
	Name() string

	// Read returns the clipboard payload in the given format, or nil if the
	// clipboard does not currently hold that format. Returns ErrBusy while
	// another process holds the clipboard open.
	Read(f Format) ([]byte, error)

	// Write replaces the clipboard contents with data in the given format.
	Write(f Format, data []byte) error

	// Watch returns a channel that receives a signal whenever the clipboard
	// may have changed. The channel is never closed. Callers re-read the
	// clipboard state on each signal.
	Watch() <-chan struct{}

	// Close releases backend resources.
	Close()
}

const (
	// guardAttempts bounds the retry loop: worst case ~500ms per access.
	guardAttempts = 10
	guardDelay    = 50 * time.Millisecond
)
