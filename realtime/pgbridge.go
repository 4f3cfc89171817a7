// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"
)

// Loader reads the current row for a notification so the published record
// matches what the handlers would have published
type Loader func(ctx context.Context, table, id string) (any, error)

// notification is the trigger payload
type notification struct {
	Table string `json:"table"`
	Type  string `json:"type"`
	ID    string `json:"id"`
}

// PGBridge republishes postgres NOTIFY payloads into the hub
type PGBridge struct {
	dsn     string
	channel string
	hub     *Hub
	load    Loader
}

func NewPGBridge(dsn, channel string, hub *Hub, load Loader) *PGBridge {
	return &PGBridge{dsn: dsn, channel: channel, hub: hub, load: load}
}

// Run listens until ctx is cancelled. pq.Listener reconnects on its own;
// changes committed while disconnected are not recovered.
func (b *PGBridge) Run(ctx context.Context) error {
	listener := pq.NewListener(b.dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		switch ev {
		case pq.ListenerEventConnected:
			slog.Info("change feed connected", "channel", b.channel)
		case pq.ListenerEventDisconnected:
			slog.Warn("change feed disconnected", "error", err)
		case pq.ListenerEventReconnected:
			slog.Info("change feed reconnected", "channel", b.channel)
		case pq.ListenerEventConnectionAttemptFailed:
			slog.Warn("change feed connection attempt failed", "error", err)
		}
	})
	defer listener.Close()

	if err := listener.Listen(b.channel); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", b.channel, err)
	}

	keepalive := time.NewTicker(90 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case n, ok := <-listener.Notify:
			if !ok {
				return nil
			}
			if n == nil {
				// Sent after a reconnect
				continue
			}
			if err := b.HandlePayload(ctx, n.Extra); err != nil {
				slog.Error("failed to relay change", "payload", n.Extra, "error", err)
			}
		case <-keepalive.C:
			if err := listener.Ping(); err != nil {
				slog.Warn("change feed ping failed", "error", err)
			}
		}
	}
}

// HandlePayload decodes one trigger payload and publishes the change.
// Deleted rows are published as {"id": ...}; rows gone by the time they are
// loaded are skipped, their DELETE follows.
func (b *PGBridge) HandlePayload(ctx context.Context, payload string) error {
	var n notification
	if err := json.Unmarshal([]byte(payload), &n); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	if n.Table == "" || n.ID == "" {
		return fmt.Errorf("payload missing table or id")
	}

	if n.Type == Delete {
		b.hub.Publish(n.Table, Delete, map[string]string{"id": n.ID})
		return nil
	}

	record, err := b.load(ctx, n.Table, n.ID)
	if err != nil {
		slog.Debug("skipping change for unreadable row", "table", n.Table, "id", n.ID, "error", err)
		return nil
	}

	b.hub.Publish(n.Table, n.Type, record)
	return nil
}
