package realtime

import (
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type row struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

func drain(sub *Subscription, n int) []Change {
	out := make([]Change, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, <-sub.C())
	}
	return out
}

func TestPublishFiltersByTable(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	comments, err := hub.Subscribe([]string{"radio_comments"}, 0)
	require.NoError(t, err)
	all, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)

	hub.Publish("radio_comments", Insert, row{ID: "c1", Text: "Amém"})
	hub.Publish("poll_votes", Insert, row{ID: "v1"})

	got := drain(comments, 1)
	assert.Equal(t, "c1", got[0].ID)
	assert.Equal(t, uint64(1), got[0].Seq)
	assert.JSONEq(t, `{"id":"c1","text":"Amém"}`, string(got[0].Record))

	both := drain(all, 2)
	assert.Equal(t, []uint64{1, 2}, []uint64{both[0].Seq, both[1].Seq})
	assert.Equal(t, "poll_votes", both[1].Table)

	select {
	case c := <-comments.C():
		t.Fatalf("unexpected change for filtered subscriber: %+v", c)
	default:
	}
}

func TestSubscribeReplaysFromCursor(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	for i := 0; i < 5; i++ {
		hub.Publish("prayer_requests", Insert, row{ID: string(rune('a' + i))})
	}
	hub.Publish("radio_comments", Insert, row{ID: "other"})

	sub, err := hub.Subscribe([]string{"prayer_requests"}, 3)
	require.NoError(t, err)
	defer sub.Close()

	got := drain(sub, 2)
	assert.Equal(t, uint64(4), got[0].Seq)
	assert.Equal(t, uint64(5), got[1].Seq)

	hub.Publish("prayer_requests", Insert, row{ID: "live"})
	live := drain(sub, 1)
	assert.Equal(t, uint64(7), live[0].Seq, "sequence is hub-wide")
	assert.Equal(t, "live", live[0].ID)
}

func TestReplayRingIsBounded(t *testing.T) {
	hub := NewHub(WithReplaySize(3))
	defer hub.Close()

	for i := 0; i < 10; i++ {
		hub.Publish("polls", Update, row{ID: "p"})
	}

	sub, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)
	defer sub.Close()

	got := drain(sub, 3)
	assert.Equal(t, uint64(8), got[0].Seq)
	assert.Equal(t, uint64(10), got[2].Seq)
}

func TestSubscribeResetsLostCursor(t *testing.T) {
	tests := []struct {
		name    string
		publish int
		since   uint64
	}{
		{"ring rolled past cursor", 10, 2},
		{"cursor ahead after restart", 3, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := NewHub(WithReplaySize(4))
			defer hub.Close()

			for i := 0; i < tt.publish; i++ {
				hub.Publish("radio_comments", Insert, row{ID: "c"})
			}

			sub, err := hub.Subscribe(nil, tt.since)
			require.NoError(t, err)
			defer sub.Close()

			reset := drain(sub, 1)[0]
			assert.Equal(t, Reset, reset.Type)
			assert.Equal(t, uint64(tt.publish), reset.Seq, "reset carries the cursor to resume from")

			hub.Publish("radio_comments", Insert, row{ID: "live"})
			live := drain(sub, 1)[0]
			assert.Equal(t, Insert, live.Type)
			assert.Equal(t, uint64(tt.publish+1), live.Seq)
		})
	}
}

func TestSubscribeAtRingEdgeReplays(t *testing.T) {
	hub := NewHub(WithReplaySize(4))
	defer hub.Close()

	for i := 0; i < 10; i++ {
		hub.Publish("radio_comments", Insert, row{ID: "c"})
	}

	// Ring holds 7..10, so a cursor of 6 loses nothing
	sub, err := hub.Subscribe(nil, 6)
	require.NoError(t, err)
	defer sub.Close()

	got := drain(sub, 4)
	for i, c := range got {
		assert.Equal(t, Insert, c.Type)
		assert.Equal(t, uint64(7+i), c.Seq)
	}

	current, err := hub.Subscribe(nil, hub.Seq())
	require.NoError(t, err)
	defer current.Close()
	assert.Empty(t, current.C(), "an up-to-date cursor replays nothing")
}

func TestLaggingSubscriberIsDropped(t *testing.T) {
	hub := NewHub(WithBufferSize(2), WithReplaySize(0))
	defer hub.Close()

	slow, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		hub.Publish("radio_comments", Insert, row{ID: "c"})
	}

	got := 0
	for range slow.C() {
		got++
	}
	assert.Equal(t, 2, got, "buffered changes are still readable")
	assert.ErrorIs(t, slow.Err(), ErrLagged)
	assert.Equal(t, 0, hub.Subscribers())

	slow.Close() // no-op after the hub dropped it
}

func TestCloseEndsSubscriptions(t *testing.T) {
	hub := NewHub()

	sub, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)

	hub.Close()
	_, open := <-sub.C()
	assert.False(t, open)
	assert.ErrorIs(t, sub.Err(), ErrClosed)

	_, err = hub.Subscribe(nil, 0)
	assert.ErrorIs(t, err, ErrClosed)

	// Publishing after close is dropped silently
	hub.Publish("polls", Insert, row{ID: "p"})
	hub.Close()
}

func TestUnsubscribe(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	sub, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, hub.Subscribers())

	sub.Close()
	sub.Close()
	assert.Equal(t, 0, hub.Subscribers())
	assert.NoError(t, sub.Err())
}

func TestConcurrentPublishersKeepOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	hub := NewHub(WithBufferSize(1000))
	defer hub.Close()

	sub, err := hub.Subscribe(nil, 0)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				hub.Publish("poll_votes", Insert, row{ID: "v"})
			}
		}()
	}
	wg.Wait()

	got := drain(sub, 500)
	for i, c := range got {
		assert.Equal(t, uint64(i+1), c.Seq)
	}
	assert.Equal(t, uint64(500), hub.Seq())
}

func TestChangeJSON(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	c := hub.PublishChange(Change{Table: "song_requests", Type: Delete, ID: "s1", Record: json.RawMessage(`{"id":"s1"}`)})

	raw, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, "song_requests", decoded["table"])
	assert.Equal(t, "DELETE", decoded["type"])
	assert.Equal(t, float64(1), decoded["seq"])
	assert.Equal(t, map[string]any{"id": "s1"}, decoded["record"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	p.Publish("radio_comments", Insert, row{ID: "x"})
}
