// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

// Comments

const commentColumns = `id, user_name, comment, comment_type, created_at`

func scanComment(row scanner) (models.Comment, error) {
	var c models.Comment
	err := row.Scan(&c.ID, &c.UserName, &c.Comment, &c.CommentType, &c.CreatedAt)
	return c, err
}

// RecentComments returns the newest comments first
func (s *Store) RecentComments(ctx context.Context, limit int) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+` FROM radio_comments
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *Store) GetComment(ctx context.Context, id string) (models.Comment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+commentColumns+` FROM radio_comments WHERE id = $1`, id)
	c, err := scanComment(row)
	return c, notFound(err)
}

// CreateComment stores a comment, defaulting the category to geral
func (s *Store) CreateComment(ctx context.Context, req models.CreateCommentRequest) (models.Comment, error) {
	commentType := req.CommentType
	if commentType == "" {
		commentType = models.CommentGeneral
	}

	c := models.Comment{
		ID:          auth.NewID(),
		UserName:    req.UserName,
		Comment:     req.Comment,
		CommentType: commentType,
		CreatedAt:   s.now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO radio_comments (`+commentColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, c.ID, c.UserName, c.Comment, c.CommentType, c.CreatedAt)
	if err != nil {
		return models.Comment{}, fmt.Errorf("failed to insert comment: %w", err)
	}
	return c, nil
}

func (s *Store) DeleteComment(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TableComments, id)
}

// Prayer requests

const prayerColumns = `id, user_name, prayer_request, is_anonymous, created_at`

func scanPrayer(row scanner) (models.PrayerRequest, error) {
	var p models.PrayerRequest
	err := row.Scan(&p.ID, &p.UserName, &p.PrayerRequest, &p.IsAnonymous, &p.CreatedAt)
	return p, err
}

func (s *Store) RecentPrayers(ctx context.Context, limit int) ([]models.PrayerRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+prayerColumns+` FROM prayer_requests
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query prayer requests: %w", err)
	}
	defer rows.Close()

	prayers := []models.PrayerRequest{}
	for rows.Next() {
		p, err := scanPrayer(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prayer request: %w", err)
		}
		prayers = append(prayers, p)
	}
	return prayers, rows.Err()
}

func (s *Store) GetPrayer(ctx context.Context, id string) (models.PrayerRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+prayerColumns+` FROM prayer_requests WHERE id = $1`, id)
	p, err := scanPrayer(row)
	return p, notFound(err)
}

// CreatePrayer stores a prayer request. Anonymous requests never keep the
// submitted name.
func (s *Store) CreatePrayer(ctx context.Context, req models.CreatePrayerRequest) (models.PrayerRequest, error) {
	name := req.UserName
	if req.IsAnonymous {
		name = models.AnonymousName
	}

	p := models.PrayerRequest{
		ID:            auth.NewID(),
		UserName:      name,
		PrayerRequest: req.PrayerRequest,
		IsAnonymous:   req.IsAnonymous,
		CreatedAt:     s.now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO prayer_requests (`+prayerColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, p.ID, p.UserName, p.PrayerRequest, p.IsAnonymous, p.CreatedAt)
	if err != nil {
		return models.PrayerRequest{}, fmt.Errorf("failed to insert prayer request: %w", err)
	}
	return p, nil
}

func (s *Store) DeletePrayer(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TablePrayers, id)
}

// Song requests

const songColumns = `id, user_name, song_title, artist, message, status, created_at, updated_at`

func scanSongRequest(row scanner) (models.SongRequest, error) {
	var (
		sr      models.SongRequest
		artist  sql.NullString
		message sql.NullString
	)
	err := row.Scan(&sr.ID, &sr.UserName, &sr.SongTitle, &artist, &message,
		&sr.Status, &sr.CreatedAt, &sr.UpdatedAt)
	sr.Artist = stringPtr(artist)
	sr.Message = stringPtr(message)
	return sr, err
}

func (s *Store) RecentSongRequests(ctx context.Context, limit int) ([]models.SongRequest, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+songColumns+` FROM song_requests
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query song requests: %w", err)
	}
	defer rows.Close()

	requests := []models.SongRequest{}
	for rows.Next() {
		sr, err := scanSongRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan song request: %w", err)
		}
		requests = append(requests, sr)
	}
	return requests, rows.Err()
}

func (s *Store) GetSongRequest(ctx context.Context, id string) (models.SongRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+songColumns+` FROM song_requests WHERE id = $1`, id)
	sr, err := scanSongRequest(row)
	return sr, notFound(err)
}

// CreateSongRequest stores a pending request; blank artist and message are NULL
func (s *Store) CreateSongRequest(ctx context.Context, req models.CreateSongRequest) (models.SongRequest, error) {
	now := s.now()
	artist := nullString(req.Artist)
	message := nullString(req.Message)

	sr := models.SongRequest{
		ID:        auth.NewID(),
		UserName:  req.UserName,
		SongTitle: req.SongTitle,
		Artist:    stringPtr(artist),
		Message:   stringPtr(message),
		Status:    models.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO song_requests (`+songColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, sr.ID, sr.UserName, sr.SongTitle, artist, message, sr.Status, sr.CreatedAt, sr.UpdatedAt)
	if err != nil {
		return models.SongRequest{}, fmt.Errorf("failed to insert song request: %w", err)
	}
	return sr, nil
}

// UpdateSongRequestStatus moves a request along the admin workflow.
// The update is conditional on the status read, so a concurrent change
// surfaces as ErrInvalidTransition instead of being overwritten.
func (s *Store) UpdateSongRequestStatus(ctx context.Context, id, status string) (models.SongRequest, error) {
	current, err := s.GetSongRequest(ctx, id)
	if err != nil {
		return models.SongRequest{}, err
	}

	if !models.SongTransitionAllowed(current.Status, status) {
		return models.SongRequest{}, fmt.Errorf("%s -> %s: %w", current.Status, status, ErrInvalidTransition)
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE song_requests
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
	`, status, now, id, current.Status)
	if err := requireRow(res, err); err != nil {
		if errors.Is(err, ErrNotFound) {
			return models.SongRequest{}, fmt.Errorf("%s changed concurrently: %w", id, ErrInvalidTransition)
		}
		return models.SongRequest{}, fmt.Errorf("failed to update song request: %w", err)
	}

	current.Status = status
	current.UpdatedAt = now
	return current, nil
}

func (s *Store) DeleteSongRequest(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TableSongRequests, id)
}
