// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

// InteractionHandler serves the listener-facing live lists: comments,
// prayer requests and song requests
type InteractionHandler struct {
	store *db.Store
	pub   realtime.Publisher
}

func NewInteractionHandler(store *db.Store, pub realtime.Publisher) *InteractionHandler {
	return &InteractionHandler{store: store, pub: pub}
}

// ListComments handles GET /comments
func (h *InteractionHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, models.CommentsLimit)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	comments, err := h.store.RecentComments(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list comments", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, comments)
}

// CreateComment handles POST /comments
func (h *InteractionHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCommentRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	comment, err := h.store.CreateComment(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert comment", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao enviar comentário")
		return
	}

	h.pub.Publish(db.TableComments, realtime.Insert, comment)
	slog.Info("comment created", "comment_id", comment.ID, "comment_type", comment.CommentType)

	middleware.JSONResponse(w, http.StatusCreated, comment)
}

// ListPrayers handles GET /prayers
func (h *InteractionHandler) ListPrayers(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, models.PrayersLimit)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	prayers, err := h.store.RecentPrayers(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list prayer requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, prayers)
}

// CreatePrayer handles POST /prayers
func (h *InteractionHandler) CreatePrayer(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePrayerRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	prayer, err := h.store.CreatePrayer(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert prayer request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao enviar pedido de oração")
		return
	}

	h.pub.Publish(db.TablePrayers, realtime.Insert, prayer)
	slog.Info("prayer request created", "prayer_id", prayer.ID, "anonymous", prayer.IsAnonymous)

	middleware.JSONResponse(w, http.StatusCreated, prayer)
}

// ListSongRequests handles GET /song-requests
func (h *InteractionHandler) ListSongRequests(w http.ResponseWriter, r *http.Request) {
	limit, ok := parseLimit(r, models.SongRequestsLimit)
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be a positive integer")
		return
	}

	songs, err := h.store.RecentSongRequests(r.Context(), limit)
	if err != nil {
		slog.Error("failed to list song requests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, songs)
}

// CreateSongRequest handles POST /song-requests
func (h *InteractionHandler) CreateSongRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSongRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	song, err := h.store.CreateSongRequest(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert song request", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao enviar pedido de música")
		return
	}

	h.pub.Publish(db.TableSongRequests, realtime.Insert, song)
	slog.Info("song request created", "song_request_id", song.ID)

	middleware.JSONResponse(w, http.StatusCreated, song)
}
