// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Vivendo na Fé API.

# Handler Types

Each handler is a struct with its dependencies, built by a constructor:

  - ContentHandler: published sermons and themes, the radio schedule,
    stations and study resources
  - InteractionHandler: live comments, prayer requests, song requests
  - PollHandler: the active poll widget and voting
  - ScriptureHandler: verse lookup, audio catalog and narration plans
  - AdminHandler: login and the admin console

Handlers that write take a realtime.Publisher:

	pollHandler := handlers.NewPollHandler(store, cfg, hub)

In postgres feed mode the database triggers publish instead, and handlers
get realtime.NopPublisher so nothing is delivered twice.

# Live Lists

	GET  /comments       → 50 newest (?limit= up to 100)
	POST /comments
	GET  /prayers        → 20 newest
	POST /prayers        → is_anonymous stores "Anônimo"
	GET  /song-requests  → 15 newest
	POST /song-requests  → status pending

Each POST publishes an INSERT so mounted views update without refetching.

# Voting

	GET  /polls/active     → poll, tally, percentages, has_voted, my_vote
	POST /polls/{id}/votes → 201, or 409 "Já participou nesta sondagem"

The voter is identified by a salted hash of the client address. The
UNIQUE (poll_id, user_ip) constraint is the only duplicate check.

# Admin Console

	POST   /admin/login
	GET    /admin/overview
	POST   /admin/{schedule,sermons,themes,polls}
	PATCH  /admin/{schedule,sermons,themes,polls}/{id} → publish/active toggle
	DELETE /admin/{schedule,sermons,themes,polls,comments,prayers,song-requests}/{id}
	PATCH  /admin/song-requests/{id}                    → status workflow

Everything except login is wrapped in middleware.RequireAdmin.
*/
package handlers
