// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"testing"

	"github.com/danielhkuo/vivendo-na-fe/models"
)

func votesFor(options ...string) []models.Vote {
	votes := make([]models.Vote, 0, len(options))
	for _, o := range options {
		votes = append(votes, models.Vote{SelectedOption: o})
	}
	return votes
}

func TestComputeTally(t *testing.T) {
	tests := []struct {
		name        string
		options     []string
		votes       []models.Vote
		counts      map[string]int
		percentages map[string]int
		total       int
	}{
		{
			name:        "no votes",
			options:     []string{"Sim", "Não"},
			votes:       nil,
			counts:      map[string]int{"Sim": 0, "Não": 0},
			percentages: map[string]int{"Sim": 0, "Não": 0},
			total:       0,
		},
		{
			name:        "even split",
			options:     []string{"Sim", "Não"},
			votes:       votesFor("Sim", "Não"),
			counts:      map[string]int{"Sim": 1, "Não": 1},
			percentages: map[string]int{"Sim": 50, "Não": 50},
			total:       2,
		},
		{
			name:        "thirds round independently",
			options:     []string{"Manhã", "Tarde", "Noite"},
			votes:       votesFor("Manhã", "Tarde", "Noite"),
			counts:      map[string]int{"Manhã": 1, "Tarde": 1, "Noite": 1},
			percentages: map[string]int{"Manhã": 33, "Tarde": 33, "Noite": 33},
			total:       3,
		},
		{
			name:        "two of three rounds up",
			options:     []string{"Sim", "Não"},
			votes:       votesFor("Sim", "Sim", "Não"),
			counts:      map[string]int{"Sim": 2, "Não": 1},
			percentages: map[string]int{"Sim": 67, "Não": 33},
			total:       3,
		},
		{
			name:        "half rounds up",
			options:     []string{"A", "B"},
			votes:       votesFor("A", "B", "B", "B", "B", "B", "B", "B"),
			counts:      map[string]int{"A": 1, "B": 7},
			percentages: map[string]int{"A": 13, "B": 88},
			total:       8,
		},
		{
			name:        "unknown labels ignored",
			options:     []string{"Sim", "Não"},
			votes:       votesFor("Sim", "Talvez"),
			counts:      map[string]int{"Sim": 1, "Não": 0},
			percentages: map[string]int{"Sim": 100, "Não": 0},
			total:       1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeTally(tt.options, tt.votes)

			if got.Total != tt.total {
				t.Errorf("Total = %d, want %d", got.Total, tt.total)
			}
			for opt, want := range tt.counts {
				if got.Counts[opt] != want {
					t.Errorf("Counts[%s] = %d, want %d", opt, got.Counts[opt], want)
				}
			}
			for opt, want := range tt.percentages {
				if got.Percentages[opt] != want {
					t.Errorf("Percentages[%s] = %d, want %d", opt, got.Percentages[opt], want)
				}
			}
			if len(got.Counts) != len(tt.options) {
				t.Errorf("Counts has %d entries, want %d", len(got.Counts), len(tt.options))
			}
		})
	}
}
