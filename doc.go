// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Vivendo na Fé API server.

Vivendo na Fé is the backend of a Portuguese-language Christian site: study
themes, sermon outlines, scripture lookup with narration plans, and a radio
hub where listeners send comments, prayer requests and song requests and
vote in live polls. Every change is pushed to subscribers over a websocket.

# Starting the Server

With no configuration the server uses a local SQLite file:

	SESSION_SECRET=... IP_HASH_SALT=... go run .

Or against PostgreSQL with the trigger-driven change feed:

	go run . -t postgres -d "postgres://..." -feed postgres

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - SESSION_SECRET (--session-secret): Admin session signing secret
  - IP_HASH_SALT (--ip-salt): Salt for hashing voter addresses

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t) and DATABASE_URL (-d): sqlite (default) or postgres
  - CHANGE_FEED (-feed): local (default) or postgres
  - ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_NAME: Administrator created at startup
  - SCRIPTURE_API_URL, SCRIPTURE_TRANSLATION: Verse API (default bible-api.com, almeida)
  - RESEND_API_KEY, NOTIFY_FROM, NOTIFY_TO: Email alerts for new prayers and song requests
  - LOG_FORMAT (--log-format): text or json

# Architecture

  - handlers: HTTP request handlers (content, interactions, polls, scripture, admin)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers, admin sessions
  - realtime: Change hub, websocket endpoint, postgres bridge
  - db: Schema and store
  - scripture, narration, catalog: Verse lookup, narration plans, static data
  - notify: Email alerts
  - auth: IDs, passwords, sessions, address hashing
  - cliparse: Configuration parsing

The narrate command in cmd/narrate plays a passage in the terminal.
*/
package main
