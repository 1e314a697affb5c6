// Package store persists captured clips in SQLite via bun.
//
// Adding a clip whose content hash already exists refreshes the existing
// row's timestamp instead of inserting a duplicate. Heavy maintenance prunes
// unpinned clips past the retention limits and compacts the database; it is
// expected to run rarely (the janitor gates it on idleness and a 24h
// minimum interval).
package store

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

// Retention bounds what heavy maintenance keeps.
type Retention struct {
	// MaxAgeDays prunes unpinned clips older than this many days. Zero
	// disables age-based pruning.
	MaxAgeDays int
	// MaxItems keeps at most this many unpinned clips, newest first. Zero
	// disables count-based pruning.
	MaxItems int
}

// Stats is the read-only maintenance snapshot consumed by the janitor.
type Stats struct {
	// LastCleanup is the time heavy maintenance last finished; zero means never.
	LastCleanup time.Time
	Clips       int64
}

// Store is the SQLite-backed clip store.
type Store struct {
	db        *bun.DB
	retention Retention
	onDeleted func()
}

// Open opens (creating if necessary) the clip database at path.
// Use ":memory:" for an ephemeral store.
func Open(path string, retention Retention) (*Store, error) {
	sqldb, err := sql.Open(sqliteshim.ShimName, path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if path == ":memory:" {
		// Each pooled connection would otherwise see its own empty database.
		sqldb.SetMaxOpenConns(1)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	s := &Store{db: db, retention: retention}
	if err := s.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// OnClipDeleted registers the hook fired after any clip deletion. The
// monitor hangs its fingerprint reset here so deleted content becomes
// capturable again. Only one hook is supported.
func (s *Store) OnClipDeleted(fn func()) { s.onDeleted = fn }

func (s *Store) migrate(ctx context.Context) error {
	for _, model := range []any{(*Clip)(nil), (*metaEntry)(nil)} {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", model, err)
		}
	}
	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_clips_updated ON clips(updated_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_clips_hash ON clips(hash)",
		"CREATE INDEX IF NOT EXISTS idx_clips_kind ON clips(kind)",
	}
	for _, idx := range indexes {
		if _, err := s.db.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("create index: %w", err)
		}
	}
	return nil
}

// AddClip stores a capture. A clip with identical content already in the
// store is refreshed (moved to the top) rather than duplicated.
func (s *Store) AddClip(ctx context.Context, kind, content, sourceApp string, wasTrimmed bool) error {
	hash := contentHash(kind, content)

	exists, err := s.db.NewSelect().
		Model((*Clip)(nil)).
		Where("hash = ?", hash).
		Exists(ctx)
	if err != nil {
		return fmt.Errorf("check existing clip: %w", err)
	}

	now := time.Now()
	if exists {
		_, err = s.db.NewUpdate().
			Model((*Clip)(nil)).
			Set("updated_at = ?", now).
			Set("source_app = ?", sourceApp).
			Where("hash = ?", hash).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("refresh clip: %w", err)
		}
		return nil
	}

	clip := &Clip{
		Kind:       kind,
		Content:    content,
		SourceApp:  sourceApp,
		WasTrimmed: wasTrimmed,
		Hash:       hash,
		Size:       len(content),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.db.NewInsert().Model(clip).Exec(ctx); err != nil {
		return fmt.Errorf("insert clip: %w", err)
	}
	return nil
}

// Recent returns up to limit clips, pinned first, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Clip, error) {
	var clips []Clip
	err := s.db.NewSelect().
		Model(&clips).
		Order("pinned DESC", "updated_at DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("query recent clips: %w", err)
	}
	return clips, nil
}

// DeleteClip removes a clip by id and fires the deletion hook.
func (s *Store) DeleteClip(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*Clip)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete clip: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 && s.onDeleted != nil {
		s.onDeleted()
	}
	return nil
}

// TogglePin flips a clip's pinned state. Pinned clips are exempt from
// retention pruning.
func (s *Store) TogglePin(ctx context.Context, id int64) error {
	_, err := s.db.NewUpdate().
		Model((*Clip)(nil)).
		Set("pinned = NOT pinned").
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("toggle pin: %w", err)
	}
	return nil
}

// GetStats returns the maintenance snapshot.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	var stats Stats

	count, err := s.db.NewSelect().Model((*Clip)(nil)).Count(ctx)
	if err != nil {
		return stats, fmt.Errorf("count clips: %w", err)
	}
	stats.Clips = int64(count)

	var meta metaEntry
	err = s.db.NewSelect().
		Model(&meta).
		Where("key = ?", metaLastCleanup).
		Scan(ctx)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// never cleaned up
	case err != nil:
		return stats, fmt.Errorf("read last cleanup: %w", err)
	default:
		if t, perr := time.Parse(time.RFC3339, meta.Value); perr == nil {
			stats.LastCleanup = t
		}
	}
	return stats, nil
}

// RunHeavyMaintenance prunes clips outside the retention bounds, compacts
// the database, and stamps the last-cleanup time.
func (s *Store) RunHeavyMaintenance(ctx context.Context) error {
	start := time.Now()
	var pruned int64

	if d := s.retention.MaxAgeDays; d > 0 {
		cutoff := time.Now().AddDate(0, 0, -d)
		res, err := s.db.NewDelete().
			Model((*Clip)(nil)).
			Where("updated_at < ? AND pinned = FALSE", cutoff).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("prune by age: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			pruned += n
		}
	}

	if limit := s.retention.MaxItems; limit > 0 {
		keep := s.db.NewSelect().
			Model((*Clip)(nil)).
			Column("id").
			Where("pinned = FALSE").
			Order("updated_at DESC").
			Limit(limit)
		res, err := s.db.NewDelete().
			Model((*Clip)(nil)).
			Where("pinned = FALSE").
			Where("id NOT IN (?)", keep).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("prune by count: %w", err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			pruned += n
		}
	}

	if _, err := s.db.ExecContext(ctx, "VACUUM"); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}

	if err := s.setMeta(ctx, metaLastCleanup, time.Now().Format(time.RFC3339)); err != nil {
		return err
	}

	if pruned > 0 && s.onDeleted != nil {
		s.onDeleted()
	}
	slog.Info("heavy maintenance finished",
		"pruned", pruned,
		"took", time.Since(start).Round(time.Millisecond),
	)
	return nil
}

// Reclassify walks every stored clip and applies fn to its kind and content;
// when fn reports a change the row is updated. Used after classifier
// definitions change. Returns the number of updated clips.
func (s *Store) Reclassify(ctx context.Context, fn func(kind, content string) (string, bool)) (int, error) {
	var clips []Clip
	if err := s.db.NewSelect().Model(&clips).Scan(ctx); err != nil {
		return 0, fmt.Errorf("load clips: %w", err)
	}

	changed := 0
	for i := range clips {
		newKind, ok := fn(clips[i].Kind, clips[i].Content)
		if !ok || newKind == clips[i].Kind {
			continue
		}
		_, err := s.db.NewUpdate().
			Model((*Clip)(nil)).
			Set("kind = ?", newKind).
			Where("id = ?", clips[i].ID).
			Exec(ctx)
		if err != nil {
			return changed, fmt.Errorf("update clip %d: %w", clips[i].ID, err)
		}
		changed++
	}
	return changed, nil
}

func (s *Store) setMeta(ctx context.Context, key, value string) error {
	entry := &metaEntry{Key: key, Value: value}
	_, err := s.db.NewInsert().
		Model(entry).
		On("CONFLICT (key) DO UPDATE").
		Set("value = EXCLUDED.value").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("write meta %s: %w", key, err)
	}
	return nil
}

// contentHash fingerprints a clip for dedup across time. Kind participates
// so that e.g. a file path and identical text content remain distinct rows.
func contentHash(kind, content string) string {
	h := sha256.New()
	h.Write([]byte(kind))
	h.Write([]byte{0})
	h.Write([]byte(content))
	return hex.EncodeToString(h.Sum(nil))
}
