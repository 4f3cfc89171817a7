// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/vivendo-na-fe/cliparse"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicate         = errors.New("duplicate")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Change-fed tables
const (
	TableSchedule     = "radio_schedule"
	TableSermons      = "sermon_outlines"
	TableThemes       = "study_themes"
	TablePolls        = "polls"
	TableVotes        = "poll_votes"
	TablePrayers      = "prayer_requests"
	TableComments     = "radio_comments"
	TableSongRequests = "song_requests"
)

// FeedTables lists every table whose changes are pushed to subscribers
var FeedTables = []string{
	TableSchedule, TableSermons, TableThemes, TablePolls,
	TableVotes, TablePrayers, TableComments, TableSongRequests,
}

// PublicFlags names the column that must be true for a row to appear on
// public views
var PublicFlags = map[string]string{
	TableSchedule: "is_active",
	TableSermons:  "is_published",
	TableThemes:   "is_published",
	TablePolls:    "is_active",
}

// Open connects to the configured database and verifies the connection
func Open(cfg cliparse.Config) (*sql.DB, error) {
	var (
		conn *sql.DB
		err  error
	)

	switch cfg.DatabaseType {
	case cliparse.DatabasePostgres:
		conn, err = sql.Open("postgres", cfg.DatabaseURL)
	case cliparse.DatabaseSQLite:
		conn, err = sql.Open("sqlite", SQLiteDSN(cfg.DatabaseURL))
		if err == nil {
			// WAL allows concurrent readers but only one writer
			conn.SetMaxOpenConns(25)
			conn.SetMaxIdleConns(25)
		}
	default:
		return nil, fmt.Errorf("unsupported database type %q", cfg.DatabaseType)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

// SQLiteDSN appends the pragmas every connection needs
func SQLiteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
}

// isUniqueViolation recognises unique/primary key violations from both drivers
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}

	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		if code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY {
			return true
		}
		return code&0xff == sqlite3.SQLITE_CONSTRAINT &&
			strings.Contains(sqliteErr.Error(), "UNIQUE constraint failed")
	}

	return false
}
