package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, retention Retention) *Store {
	t.Helper()
	s, err := Open(":memory:", retention)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestAddClip_DedupesByContent(t *testing.T) {
	s := newTestStore(t, Retention{})
	ctx := context.Background()

	require.NoError(t, s.AddClip(ctx, "text", "hello", "editor", false))
	require.NoError(t, s.AddClip(ctx, "text", "hello", "browser", false))

	clips, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, clips, 1, "identical content refreshes, never duplicates")
	assert.Equal(t, "browser", clips[0].SourceApp, "refresh updates the source")
}

func TestAddClip_KindParticipatesInIdentity(t *testing.T) {
	s := newTestStore(t, Retention{})
	ctx := context.Background()

	require.NoError(t, s.AddClip(ctx, "text", "/tmp/x", "", false))
	require.NoError(t, s.AddClip(ctx, "file", "/tmp/x", "", false))

	clips, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, clips, 2)
}

func TestDeleteClip_FiresDeletionHook(t *testing.T) {
	s := newTestStore(t, Retention{})
	ctx := context.Background()

	fired := 0
	s.OnClipDeleted(func() { fired++ })

	require.NoError(t, s.AddClip(ctx, "text", "bye", "", false))
	clips, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, clips, 1)

	require.NoError(t, s.DeleteClip(ctx, clips[0].ID))
	assert.Equal(t, 1, fired)

	require.NoError(t, s.DeleteClip(ctx, clips[0].ID))
	assert.Equal(t, 1, fired, "deleting a missing clip fires nothing")
}

func TestGetStats_LastCleanupStartsZero(t *testing.T) {
	s := newTestStore(t, Retention{})

	stats, err := s.GetStats(context.Background())
	require.NoError(t, err)
	assert.True(t, stats.LastCleanup.IsZero(), "no maintenance has run yet")
	assert.Zero(t, stats.Clips)
}

func TestRunHeavyMaintenance_PrunesAndStamps(t *testing.T) {
	s := newTestStore(t, Retention{MaxItems: 3})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddClip(ctx, "text", fmt.Sprintf("clip %d", i), "", false))
	}

	require.NoError(t, s.RunHeavyMaintenance(ctx))

	stats, err := s.GetStats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Clips, "count retention keeps the newest 3")
	assert.WithinDuration(t, time.Now(), stats.LastCleanup, 5*time.Second)
}

func TestRunHeavyMaintenance_SparesPinnedClips(t *testing.T) {
	s := newTestStore(t, Retention{MaxItems: 1})
	ctx := context.Background()

	require.NoError(t, s.AddClip(ctx, "text", "keep me", "", false))
	clips, err := s.Recent(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, s.TogglePin(ctx, clips[0].ID))

	for i := 0; i < 3; i++ {
		require.NoError(t, s.AddClip(ctx, "text", fmt.Sprintf("churn %d", i), "", false))
	}

	require.NoError(t, s.RunHeavyMaintenance(ctx))

	remaining, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2, "one pinned survivor plus the newest unpinned clip")
	assert.True(t, remaining[0].Pinned)
	assert.Equal(t, "keep me", remaining[0].Content)
}

func TestReclassify_UpdatesChangedKinds(t *testing.T) {
	s := newTestStore(t, Retention{})
	ctx := context.Background()

	require.NoError(t, s.AddClip(ctx, "file", "/tmp/tool.appimage", "", false))
	require.NoError(t, s.AddClip(ctx, "text", "unrelated", "", false))

	n, err := s.Reclassify(ctx, func(kind, content string) (string, bool) {
		if kind == "file" {
			return "dangerous", true
		}
		return kind, false
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	clips, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	kinds := map[string]string{}
	for _, c := range clips {
		kinds[c.Content] = c.Kind
	}
	assert.Equal(t, "dangerous", kinds["/tmp/tool.appimage"])
	assert.Equal(t, "text", kinds["unrelated"])
}
