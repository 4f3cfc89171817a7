// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/cliparse"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

// AdminHandler serves the admin console. Every route except Login sits
// behind middleware.RequireAdmin.
type AdminHandler struct {
	store *db.Store
	cfg   cliparse.Config
	pub   realtime.Publisher
	now   func() time.Time

	// rejectUnknown stands in for the password check when no account matches
	rejectUnknown func(plaintext string) error
}

func NewAdminHandler(store *db.Store, cfg cliparse.Config, pub realtime.Publisher) *AdminHandler {
	return &AdminHandler{store: store, cfg: cfg, pub: pub, now: time.Now, rejectUnknown: auth.RejectUnknownUser}
}

// actor names the admin performing a request, for logs
func actor(r *http.Request) string {
	if claims, ok := middleware.SessionFromContext(r.Context()); ok {
		return claims.Subject
	}
	return ""
}

// Login handles POST /admin/login
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	admin, err := h.store.FindAdminByUsername(r.Context(), req.Username)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		slog.Error("failed to query admin", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if errors.Is(err, db.ErrNotFound) {
		err = h.rejectUnknown(req.Password)
	} else {
		err = auth.CheckPassword(admin.PasswordHash, req.Password)
	}
	if err != nil || !admin.IsActive {
		slog.Warn("admin login rejected", "username", req.Username, "remote", middleware.GetClientIP(r))
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, expiresAt, err := auth.IssueSession(admin.ID, admin.Name, admin.Role, h.cfg.SessionSecret, h.cfg.SessionTTL, h.now())
	if err != nil {
		slog.Error("failed to issue session", "error", err, "admin_id", admin.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to sign in")
		return
	}

	slog.Info("admin signed in", "admin_id", admin.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Name:      admin.Name,
		Role:      admin.Role,
	})
}

// Overview handles GET /admin/overview
// Loads every managed list concurrently, unfiltered.
func (h *AdminHandler) Overview(w http.ResponseWriter, r *http.Request) {
	var overview models.AdminOverview

	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() (err error) {
		overview.Schedule, err = h.store.ListSchedule(ctx, false)
		return err
	})
	g.Go(func() (err error) {
		overview.Sermons, err = h.store.ListSermons(ctx, false)
		return err
	})
	g.Go(func() (err error) {
		overview.Themes, err = h.store.ListThemes(ctx, false)
		return err
	})
	g.Go(func() (err error) {
		overview.Polls, err = h.store.ListPolls(ctx)
		return err
	})
	g.Go(func() (err error) {
		overview.Comments, err = h.store.RecentComments(ctx, models.MaxListLimit)
		return err
	})
	g.Go(func() (err error) {
		overview.Prayers, err = h.store.RecentPrayers(ctx, models.MaxListLimit)
		return err
	})
	g.Go(func() (err error) {
		overview.SongRequests, err = h.store.RecentSongRequests(ctx, models.MaxListLimit)
		return err
	})

	if err := g.Wait(); err != nil {
		slog.Error("failed to load admin overview", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, overview)
}

// CreateSchedule handles POST /admin/schedule
func (h *AdminHandler) CreateSchedule(w http.ResponseWriter, r *http.Request) {
	var req models.CreateScheduleRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	entry, err := h.store.CreateSchedule(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert schedule entry", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create schedule entry")
		return
	}

	h.pub.Publish(db.TableSchedule, realtime.Insert, entry)
	slog.Info("schedule entry created", "schedule_id", entry.ID, "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusCreated, entry)
}

// SetScheduleActive handles PATCH /admin/schedule/{id}
func (h *AdminHandler) SetScheduleActive(w http.ResponseWriter, r *http.Request) {
	var req models.SetActiveRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.applyToggle(w, r, db.TableSchedule, *req.IsActive, h.store.SetScheduleActive)
}

// DeleteSchedule handles DELETE /admin/schedule/{id}
func (h *AdminHandler) DeleteSchedule(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TableSchedule, h.store.DeleteSchedule)
}

// CreateSermon handles POST /admin/sermons
// New outlines start unpublished; the author defaults to the signed-in admin.
func (h *AdminHandler) CreateSermon(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSermonRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	if req.Author == "" {
		if claims, ok := middleware.SessionFromContext(r.Context()); ok {
			req.Author = claims.Name
		}
	}

	sermon, err := h.store.CreateSermon(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert sermon", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create sermon")
		return
	}

	h.pub.Publish(db.TableSermons, realtime.Insert, sermon)
	slog.Info("sermon created", "sermon_id", sermon.ID, "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusCreated, sermon)
}

// SetSermonPublished handles PATCH /admin/sermons/{id}
func (h *AdminHandler) SetSermonPublished(w http.ResponseWriter, r *http.Request) {
	var req models.SetPublishedRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.applyToggle(w, r, db.TableSermons, *req.IsPublished, h.store.SetSermonPublished)
}

// DeleteSermon handles DELETE /admin/sermons/{id}
func (h *AdminHandler) DeleteSermon(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TableSermons, h.store.DeleteSermon)
}

// CreateTheme handles POST /admin/themes
func (h *AdminHandler) CreateTheme(w http.ResponseWriter, r *http.Request) {
	var req models.CreateThemeRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	theme, err := h.store.CreateTheme(r.Context(), req)
	if err != nil {
		slog.Error("failed to insert theme", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create theme")
		return
	}

	h.pub.Publish(db.TableThemes, realtime.Insert, theme)
	slog.Info("theme created", "theme_id", theme.ID, "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusCreated, theme)
}

// SetThemePublished handles PATCH /admin/themes/{id}
func (h *AdminHandler) SetThemePublished(w http.ResponseWriter, r *http.Request) {
	var req models.SetPublishedRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.applyToggle(w, r, db.TableThemes, *req.IsPublished, h.store.SetThemePublished)
}

// DeleteTheme handles DELETE /admin/themes/{id}
func (h *AdminHandler) DeleteTheme(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TableThemes, h.store.DeleteTheme)
}

// CreatePoll handles POST /admin/polls
func (h *AdminHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req models.CreatePollRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	poll, err := h.store.CreatePoll(r.Context(), req)
	if errors.Is(err, db.ErrDuplicate) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "options must not repeat values")
		return
	}
	if err != nil {
		slog.Error("failed to insert poll", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create poll")
		return
	}

	h.pub.Publish(db.TablePolls, realtime.Insert, poll)
	slog.Info("poll created", "poll_id", poll.ID, "options", len(poll.Options), "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusCreated, poll)
}

// SetPollActive handles PATCH /admin/polls/{id}
func (h *AdminHandler) SetPollActive(w http.ResponseWriter, r *http.Request) {
	var req models.SetActiveRequest
	if !decodeRequest(w, r, &req) {
		return
	}
	h.applyToggle(w, r, db.TablePolls, *req.IsActive, h.store.SetPollActive)
}

// DeletePoll handles DELETE /admin/polls/{id}
// Options and votes go with it.
func (h *AdminHandler) DeletePoll(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TablePolls, h.store.DeletePoll)
}

// DeleteComment handles DELETE /admin/comments/{id}
func (h *AdminHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TableComments, h.store.DeleteComment)
}

// DeletePrayer handles DELETE /admin/prayers/{id}
func (h *AdminHandler) DeletePrayer(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TablePrayers, h.store.DeletePrayer)
}

// DeleteSongRequest handles DELETE /admin/song-requests/{id}
func (h *AdminHandler) DeleteSongRequest(w http.ResponseWriter, r *http.Request) {
	h.remove(w, r, db.TableSongRequests, h.store.DeleteSongRequest)
}

// UpdateSongRequestStatus handles PATCH /admin/song-requests/{id}
// Only pending→approved, pending→rejected and approved→completed are allowed.
func (h *AdminHandler) UpdateSongRequestStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.UpdateSongStatusRequest
	if !decodeRequest(w, r, &req) {
		return
	}

	song, err := h.store.UpdateSongRequestStatus(r.Context(), id, req.Status)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Song request not found")
		return
	}
	if errors.Is(err, db.ErrInvalidTransition) {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot move song request to "+req.Status)
		return
	}
	if err != nil {
		slog.Error("failed to update song request", "error", err, "song_request_id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.pub.Publish(db.TableSongRequests, realtime.Update, song)
	slog.Info("song request updated", "song_request_id", id, "status", song.Status, "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusOK, song)
}

// applyToggle flips a boolean column, then publishes and returns the fresh row
func (h *AdminHandler) applyToggle(w http.ResponseWriter, r *http.Request, table string, value bool,
	set func(ctx context.Context, id string, value bool) error) {
	id := r.PathValue("id")

	err := set(r.Context(), id, value)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		slog.Error("failed to update row", "error", err, "table", table, "id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	record, err := h.store.LoadRecord(r.Context(), table, id)
	if err != nil {
		slog.Error("failed to reload row", "error", err, "table", table, "id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.pub.Publish(table, realtime.Update, record)
	slog.Info("row updated", "table", table, "id", id, "value", value, "admin_id", actor(r))
	middleware.JSONResponse(w, http.StatusOK, record)
}

// remove deletes a row and publishes a DELETE carrying only its id
func (h *AdminHandler) remove(w http.ResponseWriter, r *http.Request, table string,
	del func(ctx context.Context, id string) error) {
	id := r.PathValue("id")

	err := del(r.Context(), id)
	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Not found")
		return
	}
	if err != nil {
		slog.Error("failed to delete row", "error", err, "table", table, "id", id)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	h.pub.Publish(table, realtime.Delete, deletedRecord{ID: id})
	slog.Info("row deleted", "table", table, "id", id, "admin_id", actor(r))
	w.WriteHeader(http.StatusNoContent)
}
