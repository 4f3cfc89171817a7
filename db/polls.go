// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

const pollColumns = `id, question, is_active, created_at`

func scanPoll(row scanner) (models.Poll, error) {
	var p models.Poll
	err := row.Scan(&p.ID, &p.Question, &p.IsActive, &p.CreatedAt)
	return p, err
}

// pollOptions loads the ordered option labels of one poll
func (s *Store) pollOptions(ctx context.Context, pollID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT label FROM poll_options
		WHERE poll_id = $1
		ORDER BY position
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll options: %w", err)
	}
	defer rows.Close()

	options := []string{}
	for rows.Next() {
		var label string
		if err := rows.Scan(&label); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		options = append(options, label)
	}
	return options, rows.Err()
}

// GetPoll returns a poll with its options
func (s *Store) GetPoll(ctx context.Context, id string) (models.Poll, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pollColumns+` FROM polls WHERE id = $1`, id)
	p, err := scanPoll(row)
	if err != nil {
		return models.Poll{}, notFound(err)
	}

	p.Options, err = s.pollOptions(ctx, p.ID)
	if err != nil {
		return models.Poll{}, err
	}
	return p, nil
}

// ActivePoll returns the most recently created active poll, or ErrNotFound
func (s *Store) ActivePoll(ctx context.Context) (models.Poll, error) {
	var id string
	err := s.db.QueryRowContext(ctx, `
		SELECT id FROM polls
		WHERE is_active = $1
		ORDER BY created_at DESC
		LIMIT 1
	`, true).Scan(&id)
	if err != nil {
		return models.Poll{}, notFound(err)
	}
	return s.GetPoll(ctx, id)
}

// ListPolls returns every poll newest first, options included
func (s *Store) ListPolls(ctx context.Context) ([]models.Poll, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+pollColumns+` FROM polls ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	polls := []models.Poll{}
	index := make(map[string]int)
	for rows.Next() {
		p, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		p.Options = []string{}
		index[p.ID] = len(polls)
		polls = append(polls, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	optRows, err := s.db.QueryContext(ctx, `
		SELECT poll_id, label FROM poll_options
		ORDER BY poll_id, position
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query poll options: %w", err)
	}
	defer optRows.Close()

	for optRows.Next() {
		var pollID, label string
		if err := optRows.Scan(&pollID, &label); err != nil {
			return nil, fmt.Errorf("failed to scan poll option: %w", err)
		}
		if i, ok := index[pollID]; ok {
			polls[i].Options = append(polls[i].Options, label)
		}
	}
	return polls, optRows.Err()
}

// CreatePoll inserts the poll and its options in one transaction so the
// change notification only fires once the options are readable
func (s *Store) CreatePoll(ctx context.Context, req models.CreatePollRequest) (models.Poll, error) {
	p := models.Poll{
		ID:        auth.NewID(),
		Question:  req.Question,
		Options:   append([]string(nil), req.Options...),
		IsActive:  req.IsActive,
		CreatedAt: s.now(),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO polls (`+pollColumns+`)
		VALUES ($1, $2, $3, $4)
	`, p.ID, p.Question, p.IsActive, p.CreatedAt)
	if err != nil {
		return models.Poll{}, fmt.Errorf("failed to insert poll: %w", err)
	}

	for i, label := range p.Options {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO poll_options (poll_id, position, label)
			VALUES ($1, $2, $3)
		`, p.ID, i, label)
		if err != nil {
			if isUniqueViolation(err) {
				return models.Poll{}, fmt.Errorf("option %q repeated: %w", label, ErrDuplicate)
			}
			return models.Poll{}, fmt.Errorf("failed to insert poll option: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return models.Poll{}, fmt.Errorf("failed to commit poll: %w", err)
	}
	return p, nil
}

func (s *Store) SetPollActive(ctx context.Context, id string, active bool) error {
	return s.setFlag(ctx, TablePolls, "is_active", id, active, false)
}

// DeletePoll removes the poll; options and votes cascade
func (s *Store) DeletePoll(ctx context.Context, id string) error {
	return s.deleteByID(ctx, TablePolls, id)
}

// Votes

const voteColumns = `id, poll_id, selected_option, user_ip, created_at`

func scanVote(row scanner) (models.Vote, error) {
	var v models.Vote
	err := row.Scan(&v.ID, &v.PollID, &v.SelectedOption, &v.UserIP, &v.CreatedAt)
	return v, err
}

// ListVotes returns every vote of a poll in arrival order
func (s *Store) ListVotes(ctx context.Context, pollID string) ([]models.Vote, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+voteColumns+` FROM poll_votes
		WHERE poll_id = $1
		ORDER BY created_at
	`, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []models.Vote{}
	for rows.Next() {
		v, err := scanVote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan vote: %w", err)
		}
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

func (s *Store) GetVote(ctx context.Context, id string) (models.Vote, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+voteColumns+` FROM poll_votes WHERE id = $1`, id)
	v, err := scanVote(row)
	return v, notFound(err)
}

// FindVote returns the vote a submitter cast on a poll, or ErrNotFound
func (s *Store) FindVote(ctx context.Context, pollID, userIP string) (models.Vote, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+voteColumns+` FROM poll_votes
		WHERE poll_id = $1 AND user_ip = $2
	`, pollID, userIP)
	v, err := scanVote(row)
	return v, notFound(err)
}

// InsertVote records a vote. The UNIQUE (poll_id, user_ip) constraint is the
// only arbiter of repeat votes; a violation is reported as ErrDuplicate.
func (s *Store) InsertVote(ctx context.Context, pollID, option, userIP string) (models.Vote, error) {
	v := models.Vote{
		ID:             auth.NewID(),
		PollID:         pollID,
		SelectedOption: option,
		UserIP:         userIP,
		CreatedAt:      s.now(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO poll_votes (`+voteColumns+`)
		VALUES ($1, $2, $3, $4, $5)
	`, v.ID, v.PollID, v.SelectedOption, v.UserIP, v.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.Vote{}, fmt.Errorf("vote on poll %s: %w", pollID, ErrDuplicate)
		}
		return models.Vote{}, fmt.Errorf("failed to insert vote: %w", err)
	}
	return v, nil
}
