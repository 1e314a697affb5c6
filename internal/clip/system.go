package clip

import (
	"bytes"
	"log/slog"
	"time"

	"golang.design/x/clipboard"
)

const pollInterval = 250 * time.Millisecond

// systemDevice is the golang.design/x/clipboard backend. The library exposes
// text and image formats; RTF and file-drop probes report ErrUnsupported and
// the detector falls through to the next format in priority order.
//
// Change detection is polling-based: the poll loop fires the watch channel on
// any byte-level difference and leaves dedup to the change detector.
type systemDevice struct {
	watchCh  chan struct{}
	done     chan struct{}
	lastText []byte
	lastImg  []byte
}

// NewSystem returns the system clipboard Device, or a headless no-op Device
// when the display environment is unavailable (e.g. an SSH session without
// X11 or Wayland). clipboard.Init is called here rather than in init() so
// that query-only sub-commands never trigger the warning.
func NewSystem() Device {
	if err := clipboard.Init(); err != nil {
		slog.Warn("clipboard unavailable, running headless", "err", err)
		return &headlessDevice{watchCh: make(chan struct{})}
	}
	d := &systemDevice{
		watchCh: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go d.poll()
	return d
}

func (d *systemDevice) Name() string { return "system clipboard (poll)" }

func (d *systemDevice) poll() {
	t := time.NewTicker(pollInterval)
	defer t.Stop()
	for {
		select {
		case <-d.done:
			return
		case <-t.C:
			text := clipboard.Read(clipboard.FmtText)
			img := clipboard.Read(clipboard.FmtImage)
			if !bytes.Equal(text, d.lastText) || !bytes.Equal(img, d.lastImg) {
				d.lastText = text
				d.lastImg = img
				select {
				case d.watchCh <- struct{}{}:
				default:
				}
			}
		}
	}
}

func (d *systemDevice) Read(f Format) ([]byte, error) {
	switch f {
	case FmtText:
		return clipboard.Read(clipboard.FmtText), nil
	case FmtImage:
		return clipboard.Read(clipboard.FmtImage), nil
	default:
		return nil, ErrUnsupported
	}
}

func (d *systemDevice) Write(f Format, data []byte) error {
	switch f {
	case FmtText:
		clipboard.Write(clipboard.FmtText, data)
		return nil
	case FmtImage:
		clipboard.Write(clipboard.FmtImage, data)
		return nil
	default:
		return ErrUnsupported
	}
}

func (d *systemDevice) Watch() <-chan struct{} { return d.watchCh }
func (d *systemDevice) Close()                 { close(d.done) }

// headlessDevice is the no-op Device used when no display is available.
// Watch never fires; reads report nothing on the clipboard.
type headlessDevice struct {
	watchCh chan struct{}
}

func (d *headlessDevice) Name() string                { return "headless (no clipboard)" }
func (d *headlessDevice) Read(Format) ([]byte, error) { return nil, nil }
func (d *headlessDevice) Write(Format, []byte) error  { return nil }
func (d *headlessDevice) Watch() <-chan struct{}      { return d.watchCh }
func (d *headlessDevice) Close()                      {}
