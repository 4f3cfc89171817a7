// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store wraps the connection with one method per query the handlers need.
// Every query uses $N placeholders, which both drivers accept.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// DB exposes the underlying connection for health checks
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks database connectivity
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// scanner is satisfied by both *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// requireRow turns a zero-row UPDATE/DELETE into ErrNotFound
func requireRow(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID removes one row from a change-fed table
func (s *Store) deleteByID(ctx context.Context, table, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+table+" WHERE id = $1", id)
	return requireRow(res, err)
}

// setFlag flips a boolean column, touching updated_at when the table has one
func (s *Store) setFlag(ctx context.Context, table, column, id string, value, touch bool) error {
	if touch {
		res, err := s.db.ExecContext(ctx,
			"UPDATE "+table+" SET "+column+" = $1, updated_at = $2 WHERE id = $3",
			value, s.now(), id)
		return requireRow(res, err)
	}
	res, err := s.db.ExecContext(ctx,
		"UPDATE "+table+" SET "+column+" = $1 WHERE id = $2", value, id)
	return requireRow(res, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
