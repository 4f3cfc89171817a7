// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
)

// ContentHandler serves the public, read-only study and radio content
type ContentHandler struct {
	store   *db.Store
	catalog *catalog.Catalog
}

func NewContentHandler(store *db.Store, cat *catalog.Catalog) *ContentHandler {
	return &ContentHandler{store: store, catalog: cat}
}

// GetSchedule handles GET /schedule
// Without any active entry the built-in daily grid is returned.
func (h *ContentHandler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.ListSchedule(r.Context(), true)
	if err != nil {
		slog.Error("failed to list schedule", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if len(entries) == 0 {
		entries = make([]models.ScheduleEntry, 0, len(h.catalog.DefaultPrograms))
		for _, p := range h.catalog.DefaultPrograms {
			entries = append(entries, models.ScheduleEntry{
				TimeSlot:    p.TimeSlot,
				ProgramName: p.ProgramName,
				Presenter:   p.Presenter,
				IsActive:    true,
			})
		}
	}

	middleware.JSONResponse(w, http.StatusOK, entries)
}

// ListSermons handles GET /sermons
func (h *ContentHandler) ListSermons(w http.ResponseWriter, r *http.Request) {
	sermons, err := h.store.ListSermons(r.Context(), true)
	if err != nil {
		slog.Error("failed to list sermons", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sermons)
}

// GetSermon handles GET /sermons/{id}
func (h *ContentHandler) GetSermon(w http.ResponseWriter, r *http.Request) {
	sermon, err := h.store.GetSermon(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) || (err == nil && !sermon.IsPublished) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Sermon not found")
		return
	}
	if err != nil {
		slog.Error("failed to get sermon", "error", err, "sermon_id", r.PathValue("id"))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sermon.ContentHTML = renderMarkdown(sermon.Content)
	middleware.JSONResponse(w, http.StatusOK, sermon)
}

// ListThemes handles GET /themes
func (h *ContentHandler) ListThemes(w http.ResponseWriter, r *http.Request) {
	themes, err := h.store.ListThemes(r.Context(), true)
	if err != nil {
		slog.Error("failed to list themes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, themes)
}

// GetTheme handles GET /themes/{id}
func (h *ContentHandler) GetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := h.store.GetTheme(r.Context(), r.PathValue("id"))
	if errors.Is(err, db.ErrNotFound) || (err == nil && !theme.IsPublished) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Theme not found")
		return
	}
	if err != nil {
		slog.Error("failed to get theme", "error", err, "theme_id", r.PathValue("id"))
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	theme.ContentHTML = renderMarkdown(theme.Content)
	middleware.JSONResponse(w, http.StatusOK, theme)
}

// Stations handles GET /radio/stations
func (h *ContentHandler) Stations(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.catalog.Stations)
}

// Resources handles GET /resources
func (h *ContentHandler) Resources(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.catalog.Resources)
}
