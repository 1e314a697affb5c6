package main

import (
	"context"
	"log/slog"
	"net"
	"time"

	"github.com/dcog989/cliptoo/internal/message"
	"github.com/dcog989/cliptoo/internal/store"
	"github.com/dcog989/cliptoo/internal/wire"
)

const defaultRecentLimit = 20

// ipcServer answers status and recent queries from CLI sub-commands over
// the local socket. One request, one response, per connection.
type ipcServer struct {
	store     *store.Store
	backend   string
	startedAt time.Time
}

func (s *ipcServer) serve(ctx context.Context, ln net.Listener) {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go s.handle(ctx, conn)
	}
}

func (s *ipcServer) handle(ctx context.Context, conn net.Conn) {
	defer conn.Close()
	wc := wire.New(conn)

	msg, err := wc.ReadMsg()
	if err != nil {
		return
	}

	switch msg.Type {
	case message.TypeStatus:
		s.handleStatus(ctx, wc)
	case message.TypeRecent:
		s.handleRecent(ctx, wc, msg.Limit)
	default:
		_ = wc.WriteMsg(&message.Message{
			Type:  message.TypeError,
			Error: "unsupported message type: " + string(msg.Type),
		})
	}
}

func (s *ipcServer) handleStatus(ctx context.Context, wc *wire.Conn) {
	stats, err := s.store.GetStats(ctx)
	if err != nil {
		slog.Error("ipc: stats query failed", "err", err)
		_ = wc.WriteMsg(&message.Message{Type: message.TypeError, Error: err.Error()})
		return
	}
	_ = wc.WriteMsg(&message.Message{
		Type: message.TypeStatusResponse,
		Status: &message.StatusInfo{
			Version:     Version,
			Backend:     s.backend,
			Clips:       stats.Clips,
			LastCleanup: stats.LastCleanup,
			StartedAt:   s.startedAt,
		},
	})
}

func (s *ipcServer) handleRecent(ctx context.Context, wc *wire.Conn, limit int) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	clips, err := s.store.Recent(ctx, limit)
	if err != nil {
		slog.Error("ipc: recent query failed", "err", err)
		_ = wc.WriteMsg(&message.Message{Type: message.TypeError, Error: err.Error()})
		return
	}

	summaries := make([]message.ClipSummary, 0, len(clips))
	for _, c := range clips {
		summaries = append(summaries, message.ClipSummary{
			ID:        c.ID,
			Kind:      c.Kind,
			Preview:   preview(c.Content),
			SourceApp: c.SourceApp,
			Pinned:    c.Pinned,
			Size:      c.Size,
			UpdatedAt: c.UpdatedAt,
		})
	}
	_ = wc.WriteMsg(&message.Message{Type: message.TypeRecentResponse, Clips: summaries})
}
