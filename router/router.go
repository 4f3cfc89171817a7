// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/vivendo-na-fe/catalog"
	"github.com/danielhkuo/vivendo-na-fe/cliparse"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/handlers"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

// Deps are the shared services the routes are built from
type Deps struct {
	Store     *db.Store
	Config    cliparse.Config
	Hub       *realtime.Hub
	Scripture handlers.PassageLookup
	Catalog   *catalog.Catalog

	// Publisher receives handler mutations. Nil publishes straight to Hub.
	Publisher realtime.Publisher
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	pub := deps.Publisher
	if pub == nil {
		pub = deps.Hub
	}

	// Initialize handlers
	contentHandler := handlers.NewContentHandler(deps.Store, deps.Catalog)
	interactionHandler := handlers.NewInteractionHandler(deps.Store, pub)
	pollHandler := handlers.NewPollHandler(deps.Store, deps.Config, pub)
	scriptureHandler := handlers.NewScriptureHandler(deps.Scripture, deps.Catalog)
	adminHandler := handlers.NewAdminHandler(deps.Store, deps.Config, pub)
	wsHandler := realtime.NewWSHandler(deps.Hub, db.FeedTables, realtime.WithVisibility(db.PublicFlags))

	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(deps.Store, deps.Config.SessionSecret)(h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Ping(r.Context()); err != nil {
			slog.Error("health check failed", "error", err)
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Change feed, public view
	mux.HandleFunc("GET /realtime", middleware.WithLogging(wsHandler.ServeHTTP))

	// Published content
	mux.HandleFunc("GET /schedule", middleware.WithLogging(contentHandler.GetSchedule))
	mux.HandleFunc("GET /sermons", middleware.WithLogging(contentHandler.ListSermons))
	mux.HandleFunc("GET /sermons/{id}", middleware.WithLogging(contentHandler.GetSermon))
	mux.HandleFunc("GET /themes", middleware.WithLogging(contentHandler.ListThemes))
	mux.HandleFunc("GET /themes/{id}", middleware.WithLogging(contentHandler.GetTheme))
	mux.HandleFunc("GET /radio/stations", middleware.WithLogging(contentHandler.Stations))
	mux.HandleFunc("GET /resources", middleware.WithLogging(contentHandler.Resources))

	// Listener interactions (public)
	mux.HandleFunc("GET /comments", middleware.WithLogging(interactionHandler.ListComments))
	mux.HandleFunc("POST /comments", middleware.WithLogging(interactionHandler.CreateComment))
	mux.HandleFunc("GET /prayers", middleware.WithLogging(interactionHandler.ListPrayers))
	mux.HandleFunc("POST /prayers", middleware.WithLogging(interactionHandler.CreatePrayer))
	mux.HandleFunc("GET /song-requests", middleware.WithLogging(interactionHandler.ListSongRequests))
	mux.HandleFunc("POST /song-requests", middleware.WithLogging(interactionHandler.CreateSongRequest))

	// Voting (public)
	mux.HandleFunc("GET /polls/active", middleware.WithLogging(pollHandler.GetActivePoll))
	mux.HandleFunc("POST /polls/{id}/votes", middleware.WithLogging(pollHandler.CastVote))

	// Scripture and audio
	mux.HandleFunc("GET /scripture", middleware.WithLogging(scriptureHandler.GetPassage))
	mux.HandleFunc("GET /audio/catalog", middleware.WithLogging(scriptureHandler.AudioCatalog))
	mux.HandleFunc("GET /audio/narration", middleware.WithLogging(scriptureHandler.Narration))

	// Admin console
	mux.HandleFunc("POST /admin/login", middleware.WithLogging(adminHandler.Login))
	mux.HandleFunc("GET /admin/overview", admin(adminHandler.Overview))

	mux.HandleFunc("POST /admin/schedule", admin(adminHandler.CreateSchedule))
	mux.HandleFunc("PATCH /admin/schedule/{id}", admin(adminHandler.SetScheduleActive))
	mux.HandleFunc("DELETE /admin/schedule/{id}", admin(adminHandler.DeleteSchedule))

	mux.HandleFunc("POST /admin/sermons", admin(adminHandler.CreateSermon))
	mux.HandleFunc("PATCH /admin/sermons/{id}", admin(adminHandler.SetSermonPublished))
	mux.HandleFunc("DELETE /admin/sermons/{id}", admin(adminHandler.DeleteSermon))

	mux.HandleFunc("POST /admin/themes", admin(adminHandler.CreateTheme))
	mux.HandleFunc("PATCH /admin/themes/{id}", admin(adminHandler.SetThemePublished))
	mux.HandleFunc("DELETE /admin/themes/{id}", admin(adminHandler.DeleteTheme))

	mux.HandleFunc("POST /admin/polls", admin(adminHandler.CreatePoll))
	mux.HandleFunc("PATCH /admin/polls/{id}", admin(adminHandler.SetPollActive))
	mux.HandleFunc("DELETE /admin/polls/{id}", admin(adminHandler.DeletePoll))

	mux.HandleFunc("DELETE /admin/comments/{id}", admin(adminHandler.DeleteComment))
	mux.HandleFunc("DELETE /admin/prayers/{id}", admin(adminHandler.DeletePrayer))
	mux.HandleFunc("PATCH /admin/song-requests/{id}", admin(adminHandler.UpdateSongRequestStatus))
	mux.HandleFunc("DELETE /admin/song-requests/{id}", admin(adminHandler.DeleteSongRequest))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("vivendo-na-fe API v1"))
	})

	return mux
}
