// Package pipeline turns accepted clipboard change events into stored clips.
//
// Each event is processed on its own goroutine (fire and forget): a slow or
// retrying operation never blocks delivery of the next clipboard
// notification. Any fault in the pipeline — I/O, malformed image, storage —
// aborts only that one change; the monitor keeps observing.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/dcog989/cliptoo/internal/classify"
	"github.com/dcog989/cliptoo/internal/monitor"
)

// Store receives processed clips.
type Store interface {
	AddClip(ctx context.Context, kind, content, sourceApp string, wasTrimmed bool) error
}

// Classifier resolves text and path payloads into clip kinds.
type Classifier interface {
	Text(s string) classify.TextResult
	Path(p string) classify.Kind
}

// Thumbnailer generates a thumbnail for a cached image. Called fire and
// forget from the image branch; implementations must tolerate being handed
// the same path repeatedly.
type Thumbnailer interface {
	Generate(path string, sizeHint int)
}

// Activity is notified after every stored clip so the rest of the
// application treats a fresh capture as recent interaction.
type Activity interface {
	Touch()
}

// Config carries the processing limits.
type Config struct {
	// MaxClipSizeMB bounds a clip's byte size. Text beyond the ceiling is
	// truncated at a character boundary; images beyond it are dropped.
	MaxClipSizeMB int
	// CacheDir is where image payloads are written, content-addressed.
	CacheDir string
	// ThumbSizeHint is passed through to the Thumbnailer.
	ThumbSizeHint int
}

// Result is the normalized outcome of processing one change event.
type Result struct {
	Content string
	Kind    classify.Kind
	// SourceOverride, when set, wins over the event's detected source app.
	SourceOverride string
	Trimmed        bool
}

// Processor consumes change events and hands normalized results to the store.
type Processor struct {
	cfg        Config
	store      Store
	classifier Classifier
	thumbs     Thumbnailer
	activity   Activity
	// onFailure receives one notification per dropped change. Optional.
	onFailure func(error)
}

// Option configures a Processor.
type Option func(*Processor)

// WithThumbnailer sets the thumbnail generator.
func WithThumbnailer(th Thumbnailer) Option {
	return func(p *Processor) { p.thumbs = th }
}

// WithActivity sets the activity tracker.
func WithActivity(a Activity) Option {
	return func(p *Processor) { p.activity = a }
}

// WithFailureHook sets the callback invoked once per failed change.
func WithFailureHook(fn func(error)) Option {
	return func(p *Processor) { p.onFailure = fn }
}

// New creates a Processor.
func New(cfg Config, store Store, classifier Classifier, opts ...Option) *Processor {
	p := &Processor{
		cfg:        cfg,
		store:      store,
		classifier: classifier,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Dispatch processes ev on its own goroutine. Failures (including panics
// from collaborator code) are logged as critical and surfaced through the
// failure hook; they never escape to the caller.
func (p *Processor) Dispatch(ctx context.Context, ev monitor.Event) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				p.fail(fmt.Errorf("panic processing clip: %v", r))
			}
		}()
		if err := p.Handle(ctx, ev); err != nil {
			p.fail(err)
		}
	}()
}

func (p *Processor) fail(err error) {
	slog.Error("clip processing failed, change dropped", "err", err)
	if p.onFailure != nil {
		p.onFailure(err)
	}
}

// Handle runs the full pipeline for one event synchronously: branch by
// category, apply the size ceiling, resolve special cases, store the result.
// A nil error with no stored clip means the change was deliberately dropped
// (e.g. an over-ceiling image).
func (p *Processor) Handle(ctx context.Context, ev monitor.Event) error {
	res, err := p.process(ev)
	if err != nil {
		return err
	}
	if res == nil {
		return nil
	}

	source := ev.SourceApp
	if res.SourceOverride != "" {
		source = res.SourceOverride
	}

	if err := p.store.AddClip(ctx, string(res.Kind), res.Content, source, res.Trimmed); err != nil {
		return fmt.Errorf("store clip: %w", err)
	}
	if p.activity != nil {
		p.activity.Touch()
	}
	slog.Debug("clip stored", "kind", res.Kind, "bytes", len(res.Content))
	return nil
}

func (p *Processor) maxBytes() int {
	return p.cfg.MaxClipSizeMB * 1024 * 1024
}

func (p *Processor) process(ev monitor.Event) (*Result, error) {
	switch ev.Category {
	case monitor.CategoryImage:
		return p.processImage(ev.Image)
	case monitor.CategoryFiles:
		return p.processFiles(ev.Paths)
	default:
		return p.processText(ev.Text, ev.RichText), nil
	}
}

func (p *Processor) processText(text string, rich bool) *Result {
	text, truncated := truncateUTF8(text, p.maxBytes())
	if truncated {
		slog.Warn("text clip truncated to size ceiling", "max_bytes", p.maxBytes())
	}

	if rich {
		// RTF is stored as-is under its fixed kind; no finer classification.
		return &Result{Content: text, Kind: classify.KindRTF, Trimmed: truncated}
	}

	cls := p.classifier.Text(text)
	return &Result{
		Content: cls.Content,
		Kind:    cls.Kind,
		Trimmed: cls.Trimmed || truncated,
	}
}

func (p *Processor) processImage(data []byte) (*Result, error) {
	if len(data) > p.maxBytes() {
		// Partial image bytes are not a meaningful artifact, so over-ceiling
		// images are dropped rather than truncated.
		slog.Warn("image clip exceeds size ceiling, dropped",
			"bytes", len(data),
			"max_bytes", p.maxBytes(),
		)
		return nil, nil
	}

	path, err := cacheImage(p.cfg.CacheDir, data)
	if err != nil {
		return nil, fmt.Errorf("cache image: %w", err)
	}

	if p.thumbs != nil {
		go p.thumbs.Generate(path, p.cfg.ThumbSizeHint)
	}
	return &Result{Content: path, Kind: classify.KindImage}, nil
}

func (p *Processor) processFiles(paths []string) (*Result, error) {
	if len(paths) == 1 {
		path := paths[0]
		if isShortcut(path) {
			if target, ok := shortcutURL(path); ok {
				return &Result{
					Content:        target,
					Kind:           classify.KindLink,
					SourceOverride: displayName(path),
				}, nil
			}
			// Corrupt or URL-less shortcut: not a link, classify as a file.
		}
		return &Result{Content: path, Kind: p.classifier.Path(path)}, nil
	}

	// Multiple paths are handled as composite text content.
	cls := p.classifier.Text(strings.Join(paths, "\n"))
	return &Result{Content: cls.Content, Kind: cls.Kind, Trimmed: cls.Trimmed}, nil
}

// truncateUTF8 cuts s to at most maxBytes without splitting a multi-byte
// character. Reports whether anything was cut.
func truncateUTF8(s string, maxBytes int) (string, bool) {
	if len(s) <= maxBytes {
		return s, false
	}
	cut := maxBytes
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut], true
}
