// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// CloseLagged is the close code sent to a client that fell behind
const CloseLagged = 4000

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// WSHandler serves GET /realtime?tables=a,b&since=N as a WebSocket stream
// of Change frames
type WSHandler struct {
	hub        *Hub
	allowed    map[string]bool
	upgrader   websocket.Upgrader
	pingPeriod time.Duration
	visibility Visibility
}

// WSOption configures a WSHandler
type WSOption func(*WSHandler)

// WithVisibility hides unpublished rows of the given tables from clients
func WithVisibility(v Visibility) WSOption {
	return func(h *WSHandler) { h.visibility = v }
}

// NewWSHandler accepts subscriptions to the allowed tables only
func NewWSHandler(hub *Hub, allowed []string, opts ...WSOption) *WSHandler {
	h := &WSHandler{
		hub:        hub,
		allowed:    make(map[string]bool, len(allowed)),
		pingPeriod: pingPeriod,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Public feed, same policy as the CORS middleware
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	for _, t := range allowed {
		h.allowed[t] = true
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// parseQuery reads the table filter and resume cursor
func (h *WSHandler) parseQuery(r *http.Request) ([]string, uint64, error) {
	var tables []string
	if raw := r.URL.Query().Get("tables"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			t = strings.TrimSpace(t)
			if t == "" {
				continue
			}
			if !h.allowed[t] {
				return nil, 0, errors.New("unknown table: " + t)
			}
			tables = append(tables, t)
		}
	}

	var since uint64
	if raw := r.URL.Query().Get("since"); raw != "" {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, 0, errors.New("since must be a non-negative integer")
		}
		since = n
	}

	return tables, since, nil
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	tables, since, err := h.parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	sub, err := h.hub.Subscribe(tables, since)
	if err != nil {
		http.Error(w, "realtime feed unavailable", http.StatusServiceUnavailable)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the error response
		slog.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	slog.Info("realtime client connected", "tables", tables, "since", since, "remote", r.RemoteAddr)

	done := make(chan struct{})
	go readPump(conn, done)

	ticker := time.NewTicker(h.pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case c, ok := <-sub.C():
			if !ok {
				code, reason := websocket.CloseGoingAway, "server shutting down"
				if errors.Is(sub.Err(), ErrLagged) {
					code, reason = CloseLagged, "lagged"
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason))
				return
			}
			if c, ok = h.visibility.Apply(c); !ok {
				continue
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(c); err != nil {
				slog.Debug("realtime write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			slog.Info("realtime client disconnected", "remote", r.RemoteAddr)
			return
		}
	}
}

// readPump drains client frames so pongs and close frames are processed.
// Clients never send data; anything they send is discarded.
func readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
