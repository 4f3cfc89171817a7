// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package notify emails the configured admin address when a prayer request
// or song request is created. It is a realtime hub subscriber, so it sees
// the same inserts whether the local or the postgres change feed is active.
// Enabled when RESEND_API_KEY, NOTIFY_FROM and NOTIFY_TO are all set.
package notify
