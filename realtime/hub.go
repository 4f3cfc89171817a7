// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Change types, named after the SQL operation that produced them
const (
	Insert = "INSERT"
	Update = "UPDATE"
	Delete = "DELETE"
	// Reset tells a resuming client that changes after its cursor are no
	// longer available; it must refetch its lists. Seq is the current
	// cursor to resume from.
	Reset = "RESET"
)

var (
	// ErrLagged ends a subscription whose buffer filled up. The client
	// should reconnect with the last Seq it processed; it gets a Reset if
	// the replay ring no longer covers it.
	ErrLagged = errors.New("subscriber fell behind")
	// ErrClosed ends every subscription when the hub shuts down
	ErrClosed = errors.New("hub closed")
)

// Change is one row-level mutation pushed to subscribers
type Change struct {
	Seq    uint64          `json:"seq"`
	Table  string          `json:"table"`
	Type   string          `json:"type"`
	ID     string          `json:"id,omitempty"`
	Record json.RawMessage `json:"record"`
	At     time.Time       `json:"at"`
}

// Publisher is what mutating handlers call after a successful write
type Publisher interface {
	Publish(table, changeType string, record any)
}

// NopPublisher discards changes. Used when the database itself produces the
// feed so nothing is published twice.
type NopPublisher struct{}

func (NopPublisher) Publish(string, string, any) {}

const (
	defaultReplaySize = 256
	defaultBufferSize = 64
)

// Hub fans changes out to subscribers filtered by table. Every change gets
// the next hub-wide sequence number and is kept in a bounded replay ring so
// a reconnecting client can resume from its cursor.
type Hub struct {
	mu         sync.Mutex
	seq        uint64
	ring       []Change
	replaySize int
	bufferSize int
	subs       map[*Subscription]struct{}
	closed     bool
	now        func() time.Time
}

// Option tweaks hub sizing
type Option func(*Hub)

// WithReplaySize sets how many recent changes are kept for replay
func WithReplaySize(n int) Option {
	return func(h *Hub) { h.replaySize = n }
}

// WithBufferSize sets the per-subscriber live buffer
func WithBufferSize(n int) Option {
	return func(h *Hub) { h.bufferSize = n }
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		replaySize: defaultReplaySize,
		bufferSize: defaultBufferSize,
		subs:       make(map[*Subscription]struct{}),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	h.ring = make([]Change, 0, h.replaySize)
	return h
}

// Publish implements Publisher. The record is encoded once and shared by
// every subscriber.
func (h *Hub) Publish(table, changeType string, record any) {
	raw, err := json.Marshal(record)
	if err != nil {
		slog.Error("failed to encode change", "table", table, "error", err)
		return
	}

	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &probe)

	h.PublishChange(Change{Table: table, Type: changeType, ID: probe.ID, Record: raw})
}

// PublishChange stamps the change with the next sequence number and
// delivers it. Returns the stamped change.
func (h *Hub) PublishChange(c Change) Change {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return c
	}

	h.seq++
	c.Seq = h.seq
	if c.At.IsZero() {
		c.At = h.now().UTC()
	}

	if len(h.ring) == h.replaySize && h.replaySize > 0 {
		copy(h.ring, h.ring[1:])
		h.ring = h.ring[:len(h.ring)-1]
	}
	if h.replaySize > 0 {
		h.ring = append(h.ring, c)
	}

	for sub := range h.subs {
		if !sub.wants(c.Table) {
			continue
		}
		select {
		case sub.ch <- c:
		default:
			slog.Warn("dropping lagging subscriber", "tables", sub.tableList(), "seq", c.Seq)
			h.endLocked(sub, ErrLagged)
		}
	}

	return c
}

// Subscribe registers interest in the given tables (all tables when empty).
// Buffered changes with Seq greater than since are delivered first. A
// since of 0 replays whatever is buffered. When the ring has rolled past
// since, or since is ahead of the hub (cursor from before a restart), the
// subscription starts with a single Reset instead.
func (h *Hub) Subscribe(tables []string, since uint64) (*Subscription, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil, ErrClosed
	}

	sub := &Subscription{hub: h, tables: make(map[string]bool, len(tables))}
	for _, t := range tables {
		sub.tables[t] = true
	}

	if h.cursorLostLocked(since) {
		sub.ch = make(chan Change, 1+h.bufferSize)
		sub.ch <- Change{Seq: h.seq, Type: Reset, At: h.now().UTC()}
		h.subs[sub] = struct{}{}
		return sub, nil
	}

	var replay []Change
	for _, c := range h.ring {
		if c.Seq > since && sub.wants(c.Table) {
			replay = append(replay, c)
		}
	}

	sub.ch = make(chan Change, len(replay)+h.bufferSize)
	for _, c := range replay {
		sub.ch <- c
	}

	h.subs[sub] = struct{}{}
	return sub, nil
}

// cursorLostLocked reports whether changes after since can no longer be
// replayed. Must hold h.mu.
func (h *Hub) cursorLostLocked(since uint64) bool {
	switch {
	case since == 0 || since == h.seq:
		return false
	case since > h.seq:
		return true
	case len(h.ring) == 0:
		return true
	default:
		return h.ring[0].Seq > since+1
	}
}

// Seq returns the last sequence number handed out
func (h *Hub) Seq() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.seq
}

// Subscribers returns the number of live subscriptions
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close ends every subscription with ErrClosed. Later publishes are dropped.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for sub := range h.subs {
		h.endLocked(sub, ErrClosed)
	}
}

// endLocked must hold h.mu
func (h *Hub) endLocked(sub *Subscription, err error) {
	if _, ok := h.subs[sub]; !ok {
		return
	}
	delete(h.subs, sub)
	sub.err = err
	close(sub.ch)
}

// Subscription is one consumer's view of the hub
type Subscription struct {
	hub    *Hub
	tables map[string]bool
	ch     chan Change
	err    error
}

// C delivers changes in sequence order. It is closed when the subscription
// ends; Err then reports why.
func (s *Subscription) C() <-chan Change {
	return s.ch
}

// Err returns ErrLagged or ErrClosed after C is closed, nil otherwise
func (s *Subscription) Err() error {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	return s.err
}

// Close unsubscribes. Safe to call more than once.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()
	s.hub.endLocked(s, nil)
}

func (s *Subscription) wants(table string) bool {
	return len(s.tables) == 0 || s.tables[table]
}

func (s *Subscription) tableList() []string {
	out := make([]string, 0, len(s.tables))
	for t := range s.tables {
		out = append(out, t)
	}
	return out
}
