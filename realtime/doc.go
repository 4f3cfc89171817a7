// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package realtime pushes table changes to connected clients.

# Hub

Hub is an in-process fan-out. Every change is stamped with the next
hub-wide sequence number and kept in a bounded replay ring:

	hub := realtime.NewHub()
	sub, err := hub.Subscribe([]string{"radio_comments"}, lastSeq)
	defer sub.Close()
	for c := range sub.C() {
		// merge c.Record into the local list by c.ID
	}
	// sub.Err() reports ErrLagged or ErrClosed

Delivery is at-least-once across reconnects: a client that resumes with
since=<last Seq> may see a change twice and must merge by ID. A subscriber
whose buffer fills is dropped with ErrLagged rather than blocking
publishers. If the ring no longer reaches back to the cursor, or the
cursor is ahead of the hub after a restart, the subscription opens with a
single RESET change: refetch the lists and continue from its Seq.

# Sources

With the local feed, handlers call Publish after each successful write.
With the postgres feed, triggers NOTIFY {"table","type","id"} and PGBridge
reloads the row through a Loader and publishes it, while handlers get a
NopPublisher so nothing is sent twice. DELETE records are {"id": ...} in
both modes.

# WebSocket

	GET /realtime?tables=radio_comments,poll_votes&since=12

Each Change is sent as one JSON text frame. The server pings every 54s.
A lagging client is closed with code 4000 and should reconnect with its
cursor.

WithVisibility makes the socket a public view. Rows whose flag column is
false are not sent; an UPDATE that hides a row is sent as a DELETE.
*/
package realtime
