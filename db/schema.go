// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	"github.com/danielhkuo/vivendo-na-fe/cliparse"
)

// ChangeChannel is the postgres NOTIFY channel the change triggers write to
const ChangeChannel = "table_changes"

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB, dialect string) error {
	schema := sqliteSchema
	if dialect == cliparse.DatabasePostgres {
		schema = postgresSchema
	}

	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	if dialect == cliparse.DatabasePostgres {
		if err := createChangeTriggers(db); err != nil {
			return err
		}
	}

	return nil
}

// createChangeTriggers installs a NOTIFY trigger on every change-fed table.
// Payloads carry only table, operation and row id; listeners reload the row.
func createChangeTriggers(db *sql.DB) error {
	_, err := db.Exec(`
CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
DECLARE
    row_id TEXT;
BEGIN
    IF TG_OP = 'DELETE' THEN
        row_id := OLD.id;
    ELSE
        row_id := NEW.id;
    END IF;
    PERFORM pg_notify('` + ChangeChannel + `', json_build_object(
        'table', TG_TABLE_NAME,
        'type', TG_OP,
        'id', row_id
    )::text);
    RETURN NULL;
END;
$$ LANGUAGE plpgsql;
`)
	if err != nil {
		return fmt.Errorf("failed to create notify function: %w", err)
	}

	for _, table := range FeedTables {
		_, err := db.Exec(fmt.Sprintf(`
DROP TRIGGER IF EXISTS %[1]s_changes ON %[1]s;
CREATE TRIGGER %[1]s_changes
    AFTER INSERT OR UPDATE OR DELETE ON %[1]s
    FOR EACH ROW EXECUTE FUNCTION notify_table_change();
`, table))
		if err != nil {
			return fmt.Errorf("failed to create trigger on %s: %w", table, err)
		}
	}

	return nil
}

const postgresSchema = `
-- Radio program grid
CREATE TABLE IF NOT EXISTS radio_schedule (
    id TEXT PRIMARY KEY,
    time_slot TEXT NOT NULL,
    program_name TEXT NOT NULL,
    presenter TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

-- Sermon outlines
CREATE TABLE IF NOT EXISTS sermon_outlines (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    theme TEXT NOT NULL,
    main_verse TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL,
    is_published BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_sermon_outlines_published ON sermon_outlines(is_published, created_at);

-- Study themes
CREATE TABLE IF NOT EXISTS study_themes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    bible_references TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    difficulty_level TEXT NOT NULL DEFAULT 'Iniciante',
    is_published BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_study_themes_published ON study_themes(is_published, created_at);

-- Polls
CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_polls_active ON polls(is_active, created_at);

CREATE TABLE IF NOT EXISTS poll_options (
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, position),
    UNIQUE (poll_id, label)
);

-- Votes: one per poll and submitter
CREATE TABLE IF NOT EXISTS poll_votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    selected_option TEXT NOT NULL,
    user_ip TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    UNIQUE (poll_id, user_ip)
);

CREATE INDEX IF NOT EXISTS idx_poll_votes_poll_id ON poll_votes(poll_id);

-- Listener interactions
CREATE TABLE IF NOT EXISTS prayer_requests (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    prayer_request TEXT NOT NULL,
    is_anonymous BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_prayer_requests_created ON prayer_requests(created_at);

CREATE TABLE IF NOT EXISTS radio_comments (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    comment TEXT NOT NULL,
    comment_type TEXT NOT NULL DEFAULT 'geral',
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_radio_comments_created ON radio_comments(created_at);

CREATE TABLE IF NOT EXISTS song_requests (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    song_title TEXT NOT NULL,
    artist TEXT,
    message TEXT,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'completed', 'rejected')),
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_song_requests_created ON song_requests(created_at);

-- Admin accounts
CREATE TABLE IF NOT EXISTS admin_users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin',
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS radio_schedule (
    id TEXT PRIMARY KEY,
    time_slot TEXT NOT NULL,
    program_name TEXT NOT NULL,
    presenter TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sermon_outlines (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    theme TEXT NOT NULL,
    main_verse TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    author TEXT NOT NULL,
    is_published BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sermon_outlines_published ON sermon_outlines(is_published, created_at);

CREATE TABLE IF NOT EXISTS study_themes (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    description TEXT NOT NULL,
    bible_references TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    difficulty_level TEXT NOT NULL DEFAULT 'Iniciante',
    is_published BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_study_themes_published ON study_themes(is_published, created_at);

CREATE TABLE IF NOT EXISTS polls (
    id TEXT PRIMARY KEY,
    question TEXT NOT NULL,
    is_active BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_polls_active ON polls(is_active, created_at);

CREATE TABLE IF NOT EXISTS poll_options (
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    position INTEGER NOT NULL,
    label TEXT NOT NULL,
    PRIMARY KEY (poll_id, position),
    UNIQUE (poll_id, label)
);

CREATE TABLE IF NOT EXISTS poll_votes (
    id TEXT PRIMARY KEY,
    poll_id TEXT NOT NULL REFERENCES polls(id) ON DELETE CASCADE,
    selected_option TEXT NOT NULL,
    user_ip TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL,
    UNIQUE (poll_id, user_ip)
);

CREATE INDEX IF NOT EXISTS idx_poll_votes_poll_id ON poll_votes(poll_id);

CREATE TABLE IF NOT EXISTS prayer_requests (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    prayer_request TEXT NOT NULL,
    is_anonymous BOOLEAN NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_prayer_requests_created ON prayer_requests(created_at);

CREATE TABLE IF NOT EXISTS radio_comments (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    comment TEXT NOT NULL,
    comment_type TEXT NOT NULL DEFAULT 'geral',
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_radio_comments_created ON radio_comments(created_at);

CREATE TABLE IF NOT EXISTS song_requests (
    id TEXT PRIMARY KEY,
    user_name TEXT NOT NULL,
    song_title TEXT NOT NULL,
    artist TEXT,
    message TEXT,
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'approved', 'completed', 'rejected')),
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_song_requests_created ON song_requests(created_at);

CREATE TABLE IF NOT EXISTS admin_users (
    id TEXT PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'admin',
    is_active BOOLEAN NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL
);
`
