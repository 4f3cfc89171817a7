// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Vivendo na Fé API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Store:     store,
		Config:    cfg,
		Hub:       hub,
		Scripture: scriptureClient,
		Catalog:   cat,
	})

Set Deps.Publisher to realtime.NopPublisher when database triggers feed
the hub, so handler writes are not delivered twice.

# Endpoints

Health and change feed:

	GET /health
	GET /realtime?tables=radio_comments,poll_votes&since=N

Published content:

	GET /schedule, /sermons, /sermons/{id}, /themes, /themes/{id}
	GET /radio/stations, /resources

Listener interactions:

	GET|POST /comments, /prayers, /song-requests

Voting:

	GET  /polls/active
	POST /polls/{id}/votes

Scripture and audio:

	GET /scripture?ref=
	GET /audio/catalog
	GET /audio/narration?ref=&lang=

Admin console (Bearer session from POST /admin/login):

	GET /admin/overview
	POST, PATCH /{id}, DELETE /{id} on /admin/schedule, /admin/sermons,
	/admin/themes, /admin/polls
	DELETE /admin/comments/{id}, /admin/prayers/{id}
	PATCH, DELETE /admin/song-requests/{id}
*/
package router
