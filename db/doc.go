// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database, creates the schema, and holds every query
the handlers run.

# Connecting

Open picks the driver from the configuration:

	conn, err := db.Open(cfg)          // sqlite (modernc) or postgres (lib/pq)
	if err := db.CreateSchema(conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}
	store := db.NewStore(conn)

CreateSchema is safe to call multiple times - uses IF NOT EXISTS for all
tables and indexes. On postgres it also (re)installs a trigger on every
change-fed table that sends {"table","type","id"} on the table_changes
NOTIFY channel.

# Tables

  - radio_schedule: program grid, gated by is_active
  - sermon_outlines, study_themes: content, gated by is_published
  - polls, poll_options: poll question and ordered option labels
  - poll_votes: one row per (poll_id, user_ip)
  - prayer_requests, radio_comments, song_requests: listener interactions
  - admin_users: admin console accounts

# Relationships

	polls 1──* poll_options
	polls 1──* poll_votes

Both foreign keys use ON DELETE CASCADE.

# Errors

  - ErrNotFound: no row for the id, or an UPDATE/DELETE touched nothing
  - ErrDuplicate: unique violation (pq 23505, SQLITE_CONSTRAINT_UNIQUE)
  - ErrInvalidTransition: song request status move the workflow forbids

Callers test with errors.Is; messages carry context via %w.
*/
package db
