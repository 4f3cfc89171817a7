// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"math"

	"github.com/danielhkuo/vivendo-na-fe/models"
)

// Tally holds the per-option vote counts of a poll
type Tally struct {
	Counts      map[string]int
	Percentages map[string]int
	Total       int
}

// ComputeTally counts votes per option. Every option appears in the result,
// even without votes; votes for labels the poll no longer offers are ignored.
// Percentages are rounded to the nearest integer, so they may not sum to 100.
func ComputeTally(options []string, votes []models.Vote) Tally {
	t := Tally{
		Counts:      make(map[string]int, len(options)),
		Percentages: make(map[string]int, len(options)),
	}
	for _, opt := range options {
		t.Counts[opt] = 0
	}

	for _, v := range votes {
		if _, ok := t.Counts[v.SelectedOption]; !ok {
			continue
		}
		t.Counts[v.SelectedOption]++
		t.Total++
	}

	for opt, n := range t.Counts {
		t.Percentages[opt] = percentage(n, t.Total)
	}
	return t
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) / float64(total) * 100))
}
