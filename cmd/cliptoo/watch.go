package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/dcog989/cliptoo/internal/activity"
	"github.com/dcog989/cliptoo/internal/classify"
	"github.com/dcog989/cliptoo/internal/clip"
	"github.com/dcog989/cliptoo/internal/ipc"
	"github.com/dcog989/cliptoo/internal/janitor"
	"github.com/dcog989/cliptoo/internal/monitor"
	"github.com/dcog989/cliptoo/internal/pipeline"
	"github.com/dcog989/cliptoo/internal/store"
)

func newWatchCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run the clipboard capture daemon",
		Long: `Starts the cliptoo daemon: watches the system clipboard, stores genuine
changes in the clip history, and runs idle-gated retention maintenance.

Config file search order:
  /etc/cliptoo/cliptoo.toml
  $HOME/.config/cliptoo/cliptoo.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPTOO_* env vars → flags`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:    func(_ *cobra.Command, _ []string) error { return runWatch(v) },
	}

	f := cmd.Flags()
	f.String("db", filepath.Join(dataDir(), "clips.db"), "path to the clip database")
	f.String("cache-dir", filepath.Join(dataDir(), "cache"), "image cache directory")
	f.Int("max-clip-size-mb", 10, "per-clip size ceiling in MiB")
	f.Int("retention-days", 30, "prune unpinned clips older than this (0 = keep forever)")
	f.Int("retention-items", 1000, "keep at most this many unpinned clips (0 = unlimited)")
	f.Int("thumb-size", 128, "thumbnail size hint in pixels")
	addLoggingFlags(cmd)
	addConfigFlag(cmd)

	return cmd
}

func runWatch(v *viper.Viper) error {
	if err := setupLogging(v); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath := v.GetString("db")
	st, err := store.Open(dbPath, store.Retention{
		MaxAgeDays: v.GetInt("retention-days"),
		MaxItems:   v.GetInt("retention-items"),
	})
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	dev := clip.NewSystem()
	defer dev.Close()

	mon := monitor.New(clip.NewGuard(dev))
	// A deleted clip's content must be capturable again.
	st.OnClipDeleted(mon.Reset)

	classifier := classify.New()
	tracker := activity.NewTracker()

	proc := pipeline.New(
		pipeline.Config{
			MaxClipSizeMB: v.GetInt("max-clip-size-mb"),
			CacheDir:      v.GetString("cache-dir"),
			ThumbSizeHint: v.GetInt("thumb-size"),
		},
		st,
		classifier,
		pipeline.WithActivity(tracker),
		pipeline.WithFailureHook(func(err error) {
			slog.Error("failed to save clip", "err", err)
		}),
	)

	// Definitions changed: reclassify stored clips in the background.
	classifier.OnChange(func() {
		go func() {
			n, err := st.Reclassify(ctx, func(kind, content string) (string, bool) {
				if kind != string(classify.KindFile) && kind != string(classify.KindDangerous) {
					return kind, false
				}
				return string(classifier.Path(content)), true
			})
			if err != nil {
				slog.Error("reclassification failed", "err", err)
				return
			}
			slog.Info("reclassification finished", "updated", n)
		}()
	})

	jan := janitor.New(st, tracker)
	go jan.Run(ctx)

	if ln, err := ipc.Listen(); err != nil {
		slog.Warn("IPC socket unavailable", "err", err)
	} else {
		slog.Info("IPC socket listening", "path", ipc.SocketPath())
		srv := &ipcServer{store: st, backend: dev.Name(), startedAt: time.Now()}
		go srv.serve(ctx, ln)
	}

	slog.Info("cliptoo starting",
		"version", Version,
		"db", dbPath,
		"backend", dev.Name(),
	)

	go mon.Run(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("cliptoo shutting down")
			return nil
		case ev := <-mon.Events():
			proc.Dispatch(ctx, ev)
		}
	}
}
