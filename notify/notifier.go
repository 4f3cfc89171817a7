// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

const sendTimeout = 15 * time.Second

// Notifier emails the admins when listeners submit prayer or song requests.
// Delivery failures are logged and never reach the submitter.
type Notifier struct {
	hub    *realtime.Hub
	sender Sender
	to     []string
}

func NewNotifier(hub *realtime.Hub, sender Sender, to []string) *Notifier {
	return &Notifier{hub: hub, sender: sender, to: to}
}

// Run consumes the feed until ctx is cancelled or the hub closes. A lagged
// subscription resumes from the last change it handled.
func (n *Notifier) Run(ctx context.Context) error {
	tables := []string{db.TablePrayers, db.TableSongRequests}
	cursor := n.hub.Seq()

	for {
		sub, err := n.hub.Subscribe(tables, cursor)
		if err != nil {
			return nil
		}

		cursor, err = n.consume(ctx, sub, cursor)
		sub.Close()

		switch {
		case ctx.Err() != nil:
			return nil
		case errors.Is(err, realtime.ErrLagged):
			slog.Warn("notifier fell behind, resubscribing", "cursor", cursor)
		default:
			return nil
		}
	}
}

func (n *Notifier) consume(ctx context.Context, sub *realtime.Subscription, cursor uint64) (uint64, error) {
	for {
		select {
		case <-ctx.Done():
			return cursor, ctx.Err()
		case c, ok := <-sub.C():
			if !ok {
				return cursor, sub.Err()
			}
			cursor = c.Seq
			if c.Type == realtime.Reset {
				slog.Warn("notifier missed changes", "seq", c.Seq)
				continue
			}
			if c.Type != realtime.Insert {
				continue
			}
			n.handle(ctx, c)
		}
	}
}

func (n *Notifier) handle(ctx context.Context, c realtime.Change) {
	msg, err := Compose(c)
	if err != nil {
		slog.Error("failed to compose notification", "table", c.Table, "id", c.ID, "error", err)
		return
	}
	msg.To = n.to

	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	if _, err := n.sender.Send(sendCtx, msg); err != nil {
		slog.Error("failed to send notification", "table", c.Table, "id", c.ID, "error", err)
	}
}

// Compose renders the email for a new prayer or song request
func Compose(c realtime.Change) (Message, error) {
	switch c.Table {
	case db.TablePrayers:
		var p models.PrayerRequest
		if err := json.Unmarshal(c.Record, &p); err != nil {
			return Message{}, err
		}
		return Message{
			Subject: "Novo pedido de oração de " + p.UserName,
			Text:    fmt.Sprintf("%s pediu oração:\n\n%s", p.UserName, p.PrayerRequest),
			HTML: fmt.Sprintf("<p><strong>%s</strong> pediu oração:</p><blockquote>%s</blockquote>",
				html.EscapeString(p.UserName), html.EscapeString(p.PrayerRequest)),
		}, nil

	case db.TableSongRequests:
		var s models.SongRequest
		if err := json.Unmarshal(c.Record, &s); err != nil {
			return Message{}, err
		}
		song := s.SongTitle
		if s.Artist != nil {
			song += " - " + *s.Artist
		}
		text := fmt.Sprintf("%s pediu a música %s", s.UserName, song)
		body := fmt.Sprintf("<p><strong>%s</strong> pediu a música <em>%s</em></p>",
			html.EscapeString(s.UserName), html.EscapeString(song))
		if s.Message != nil {
			text += "\n\n" + *s.Message
			body += "<blockquote>" + html.EscapeString(*s.Message) + "</blockquote>"
		}
		return Message{
			Subject: "Novo pedido de música: " + s.SongTitle,
			Text:    text,
			HTML:    body,
		}, nil
	}

	return Message{}, fmt.Errorf("no notification for table %q", c.Table)
}
