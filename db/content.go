// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

const scheduleColumns = `id, time_slot, program_name, presenter, description, is_active, created_at, updated_at`

func scanSchedule(row scanner) (models.ScheduleEntry, error) {
	var e models.ScheduleEntry
	err := row.Scan(&e.ID, &e.TimeSlot, &e.ProgramName, &e.Presenter,
		&e.Description, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ListSchedule returns the program grid ordered by time slot.
// activeOnly limits the result to entries visible on the public site.
func (s *Store) ListSchedule(ctx context.Context, activeOnly bool) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleColumns + ` FROM radio_schedule`
	if activeOnly {
		query += ` WHERE is_active = $1 ORDER BY time_slot`
	} else {
		query += ` ORDER BY time_slot`
	}

	var args []any
	if activeOnly {
		args = append(args, true)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule: %w", err)
	}
	defer rows.Close()

	entries := []models.ScheduleEntry{}
	for rows.Next() {
		e, err := scanSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *Store) GetSchedule(ctx context.Context, id string) (models.ScheduleEntry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+scheduleColumns+` FROM radio_schedule WHERE id = $1`, id)
	e, err := scanSchedule(row)
	return e, notFound(err)
}

func (s *Store) CreateSchedule(ctx context.Context, req models.CreateScheduleRequest) (models.ScheduleEntry, error) {
	now := s.now()
	e := models.ScheduleEntry{
		ID:          auth.NewID(),
		TimeSlot:    req.TimeSlot,
		ProgramName: req.ProgramName,
		Presenter:   req.Presenter,
		Description: req.Description,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO radio_schedule (`+scheduleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, e.ID, e.TimeSlot, e.ProgramName, e.Presenter, e.Description, e.IsActive, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return models.ScheduleEntry{}, fmt.Errorf("failed to insert schedule entry: %w", err)
	}
	return e, nil
}

func (s *Store) SetScheduleActive(ctx context.Context, id string, active bool) error {
	return s.setFlag(ctx, TableSchedule, "is_active", id, active, true)
}

func (s *Store) DeleteSchedule(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TableSchedule, id)
}

// Sermon outlines

const sermonColumns = `id, title, theme, main_verse, content, author, is_published, created_at, updated_at`

func scanSermon(row scanner) (models.SermonOutline, error) {
	var o models.SermonOutline
	err := row.Scan(&o.ID, &o.Title, &o.Theme, &o.MainVerse, &o.Content,
		&o.Author, &o.IsPublished, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

// ListSermons returns outlines newest first
func (s *Store) ListSermons(ctx context.Context, publishedOnly bool) ([]models.SermonOutline, error) {
	query := `SELECT ` + sermonColumns + ` FROM sermon_outlines`
	var args []any
	if publishedOnly {
		query += ` WHERE is_published = $1`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sermons: %w", err)
	}
	defer rows.Close()

	outlines := []models.SermonOutline{}
	for rows.Next() {
		o, err := scanSermon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sermon: %w", err)
		}
		outlines = append(outlines, o)
	}
	return outlines, rows.Err()
}

func (s *Store) GetSermon(ctx context.Context, id string) (models.SermonOutline, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+sermonColumns+` FROM sermon_outlines WHERE id = $1`, id)
	o, err := scanSermon(row)
	return o, notFound(err)
}

// CreateSermon stores an unpublished outline
func (s *Store) CreateSermon(ctx context.Context, req models.CreateSermonRequest) (models.SermonOutline, error) {
	now := s.now()
	o := models.SermonOutline{
		ID:        auth.NewID(),
		Title:     req.Title,
		Theme:     req.Theme,
		MainVerse: req.MainVerse,
		Content:   req.Content,
		Author:    req.Author,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sermon_outlines (`+sermonColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.Title, o.Theme, o.MainVerse, o.Content, o.Author, o.IsPublished, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return models.SermonOutline{}, fmt.Errorf("failed to insert sermon: %w", err)
	}
	return o, nil
}

func (s *Store) SetSermonPublished(ctx context.Context, id string, published bool) error {
	return s.setFlag(ctx, TableSermons, "is_published", id, published, true)
}

func (s *Store) DeleteSermon(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TableSermons, id)
}

// Study themes

const themeColumns = `id, title, description, bible_references, content, difficulty_level, is_published, created_at, updated_at`

func scanTheme(row scanner) (models.StudyTheme, error) {
	var t models.StudyTheme
	err := row.Scan(&t.ID, &t.Title, &t.Description, &t.BibleReferences, &t.Content,
		&t.DifficultyLevel, &t.IsPublished, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// ListThemes returns study themes newest first
func (s *Store) ListThemes(ctx context.Context, publishedOnly bool) ([]models.StudyTheme, error) {
	query := `SELECT ` + themeColumns + ` FROM study_themes`
	var args []any
	if publishedOnly {
		query += ` WHERE is_published = $1`
		args = append(args, true)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query themes: %w", err)
	}
	defer rows.Close()

	themes := []models.StudyTheme{}
	for rows.Next() {
		t, err := scanTheme(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan theme: %w", err)
		}
		themes = append(themes, t)
	}
	return themes, rows.Err()
}

func (s *Store) GetTheme(ctx context.Context, id string) (models.StudyTheme, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+themeColumns+` FROM study_themes WHERE id = $1`, id)
	t, err := scanTheme(row)
	return t, notFound(err)
}

// CreateTheme stores an unpublished theme, defaulting the level to beginner
func (s *Store) CreateTheme(ctx context.Context, req models.CreateThemeRequest) (models.StudyTheme, error) {
	level := req.DifficultyLevel
	if level == "" {
		level = models.LevelBeginner
	}

	now := s.now()
	t := models.StudyTheme{
		ID:              auth.NewID(),
		Title:           req.Title,
		Description:     req.Description,
		BibleReferences: req.BibleReferences,
		Content:         req.Content,
		DifficultyLevel: level,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO study_themes (`+themeColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.Title, t.Description, t.BibleReferences, t.Content, t.DifficultyLevel, t.IsPublished, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return models.StudyTheme{}, fmt.Errorf("failed to insert theme: %w", err)
	}
	return t, nil
}

func (s *Store) SetThemePublished(ctx context.Context, id string, published bool) error {
	return s.setFlag(ctx, TableThemes, "is_published", id, published, true)
}

func (s *Store) DeleteTheme(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TableThemes, id)
}
