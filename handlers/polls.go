// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/cliparse"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

// Listener-facing poll messages
const (
	MsgAlreadyVoted = "Já participou nesta sondagem"
	MsgVoteFailed   = "Erro ao registrar voto"
	MsgVoteThanks   = "Obrigado pela sua participação"
)

type PollHandler struct {
	store *db.Store
	cfg   cliparse.Config
	pub   realtime.Publisher
}

func NewPollHandler(store *db.Store, cfg cliparse.Config, pub realtime.Publisher) *PollHandler {
	return &PollHandler{store: store, cfg: cfg, pub: pub}
}

// voterID is the caller's pseudo-identity: a salted hash of the client address
func (h *PollHandler) voterID(r *http.Request) string {
	return auth.HashIP(middleware.GetClientIP(r), h.cfg.IPHashSalt)
}

// GetActivePoll handles GET /polls/active
// The response covers three states: no poll (poll is null), not yet voted,
// and voted (has_voted with my_vote).
func (h *PollHandler) GetActivePoll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	poll, err := h.store.ActivePoll(ctx)
	if errors.Is(err, db.ErrNotFound) {
		middleware.JSONResponse(w, http.StatusOK, models.PollState{
			Tally:       map[string]int{},
			Percentages: map[string]int{},
		})
		return
	}
	if err != nil {
		slog.Error("failed to query active poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	votes, err := h.store.ListVotes(ctx, poll.ID)
	if err != nil {
		slog.Error("failed to query votes", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	tally := ComputeTally(poll.Options, votes)
	state := models.PollState{
		Poll:        &poll,
		Tally:       tally.Counts,
		Percentages: tally.Percentages,
		Total:       tally.Total,
	}

	mine, err := h.store.FindVote(ctx, poll.ID, h.voterID(r))
	switch {
	case err == nil:
		state.HasVoted = true
		state.MyVote = mine.SelectedOption
	case !errors.Is(err, db.ErrNotFound):
		slog.Error("failed to query own vote", "error", err, "poll_id", poll.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, state)
}

// CastVote handles POST /polls/{id}/votes
// Duplicates are not pre-checked: the unique (poll, voter) constraint
// arbitrates, including between concurrent requests.
func (h *PollHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	pollID := r.PathValue("id")
	if pollID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "poll id is required")
		return
	}

	var req models.CastVoteRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	poll, err := h.store.GetPoll(r.Context(), pollID)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Poll not found")
		return
	}
	if err != nil {
		slog.Error("failed to query poll", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, MsgVoteFailed)
		return
	}

	if !poll.IsActive {
		middleware.ErrorResponse(w, http.StatusConflict, "Poll is not open for voting")
		return
	}
	if !slices.Contains(poll.Options, req.Option) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "option is not part of this poll")
		return
	}

	vote, err := h.store.InsertVote(r.Context(), pollID, req.Option, h.voterID(r))
	if errors.Is(err, db.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusConflict, MsgAlreadyVoted)
		return
	}
	if err != nil {
		slog.Error("failed to insert vote", "error", err, "poll_id", pollID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, MsgVoteFailed)
		return
	}

	h.pub.Publish(db.TableVotes, realtime.Insert, vote)
	slog.Info("vote recorded", "poll_id", pollID, "vote_id", vote.ID)

	middleware.JSONResponse(w, http.StatusCreated, models.VoteResponse{
		Option:  vote.SelectedOption,
		Message: MsgVoteThanks,
	})
}
