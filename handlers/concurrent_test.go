// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
	"github.com/danielhkuo/vivendo-na-fe/testutil"
)

// TestConcurrentDuplicateVotes verifies that when the same listener submits
// several votes at once, exactly one is recorded and the rest get 409
func TestConcurrentDuplicateVotes(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(store, cfg, realtime.NopPublisher{})

	poll := testutil.CreateTestPoll(t, store, "Oração da manhã?", true, "Sim", "Não")

	numAttempts := 8
	var created, conflicts atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numAttempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			option := "Sim"
			if i%2 == 1 {
				option = "Não"
			}
			w := httptest.NewRecorder()
			handler.CastVote(w, voteRequest(poll.ID, models.CastVoteRequest{Option: option}, "198.51.100.77"))

			switch w.Code {
			case http.StatusCreated:
				created.Add(1)
			case http.StatusConflict:
				conflicts.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if created.Load() != 1 {
		t.Errorf("Expected exactly 1 accepted vote, got %d", created.Load())
	}
	if conflicts.Load() != int32(numAttempts-1) {
		t.Errorf("Expected %d conflicts, got %d", numAttempts-1, conflicts.Load())
	}

	votes, err := store.ListVotes(t.Context(), poll.ID)
	if err != nil {
		t.Fatalf("Failed to list votes: %v", err)
	}
	if len(votes) != 1 {
		t.Errorf("Expected 1 vote in database, got %d", len(votes))
	}
}

// TestConcurrentVotesFromDifferentListeners verifies that simultaneous votes
// from distinct addresses are all recorded
func TestConcurrentVotesFromDifferentListeners(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewPollHandler(store, cfg, realtime.NopPublisher{})

	poll := testutil.CreateTestPoll(t, store, "Qual hino?", true, "A", "B", "C")

	numVoters := 10
	var successCount atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			option := poll.Options[i%len(poll.Options)]
			ip := fmt.Sprintf("192.0.2.%d", i+1)
			w := httptest.NewRecorder()
			handler.CastVote(w, voteRequest(poll.ID, models.CastVoteRequest{Option: option}, ip))

			if w.Code == http.StatusCreated {
				successCount.Add(1)
			}
		}(i)
	}

	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	votes, err := store.ListVotes(t.Context(), poll.ID)
	if err != nil {
		t.Fatalf("Failed to list votes: %v", err)
	}
	tally := ComputeTally(poll.Options, votes)
	if tally.Total != numVoters {
		t.Errorf("Expected %d votes tallied, got %d", numVoters, tally.Total)
	}
	if tally.Counts["A"] != 4 || tally.Counts["B"] != 3 || tally.Counts["C"] != 3 {
		t.Errorf("Unexpected tally: %v", tally.Counts)
	}
}

// TestConcurrentCommentsReachHub verifies that every concurrent insert is
// published exactly once, in a gap-free sequence
func TestConcurrentCommentsReachHub(t *testing.T) {
	store := testutil.SetupTestStore(t)
	hub := realtime.NewHub()
	defer hub.Close()

	sub, err := hub.Subscribe([]string{"radio_comments"}, 0)
	if err != nil {
		t.Fatalf("Subscribe failed: %v", err)
	}
	defer sub.Close()

	handler := NewInteractionHandler(store, hub)

	numComments := 12
	var wg sync.WaitGroup
	for i := 0; i < numComments; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := testutil.MakeRequest("POST", "/comments", models.CreateCommentRequest{
				UserName: fmt.Sprintf("Ouvinte %d", i),
				Comment:  "Amém!",
			}, nil)
			w := httptest.NewRecorder()
			handler.CreateComment(w, req)
			if w.Code != http.StatusCreated {
				t.Errorf("comment %d: status %d", i, w.Code)
			}
		}(i)
	}
	wg.Wait()

	seen := map[string]bool{}
	for i := 0; i < numComments; i++ {
		c := <-sub.C()
		if c.Seq != uint64(i+1) {
			t.Errorf("Expected seq %d, got %d", i+1, c.Seq)
		}
		if seen[c.ID] {
			t.Errorf("Comment %s delivered twice", c.ID)
		}
		seen[c.ID] = true
	}
	if len(seen) != numComments {
		t.Errorf("Expected %d distinct comments, got %d", numComments, len(seen))
	}
}
