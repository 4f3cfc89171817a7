// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"fmt"
)

// LoadRecord reads one row of a change-fed table in the same JSON shape the
// handlers publish, so subscribers see identical records whichever side
// produced the change
func (s *Store) LoadRecord(ctx context.Context, table, id string) (any, error) {
	switch table {
	case TableSchedule:
		return s.GetSchedule(ctx, id)
	case TableSermons:
		return s.GetSermon(ctx, id)
	case TableThemes:
		return s.GetTheme(ctx, id)
	case TablePolls:
		return s.GetPoll(ctx, id)
	case TableVotes:
		return s.GetVote(ctx, id)
	case TablePrayers:
		return s.GetPrayer(ctx, id)
	case TableComments:
		return s.GetComment(ctx, id)
	case TableSongRequests:
		return s.GetSongRequest(ctx, id)
	default:
		return nil, fmt.Errorf("table %q is not change-fed", table)
	}
}
