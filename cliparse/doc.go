// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p               Server port
	-d               Database URL
	-t               Database type (sqlite or postgres)
	-feed            Change feed (local or postgres)
	-session-secret  Admin session signing secret
	-session-ttl     Admin session lifetime
	-ip-salt         Voter IP hash salt
	-scripture-api   Scripture API base URL
	-log-format      text or json

# Environment Variables

Flags fall back to environment variables:

	PORT              → -p (default 3318)
	DATABASE_URL      → -d (default vivendo.db for sqlite)
	DATABASE_TYPE     → -t (default sqlite)
	CHANGE_FEED       → -feed (default follows DATABASE_TYPE)
	SESSION_SECRET    → -session-secret
	SESSION_TTL       → -session-ttl (default 12h)
	IP_HASH_SALT      → -ip-salt
	SCRIPTURE_API_URL → -scripture-api (default https://bible-api.com)
	LOG_FORMAT        → -log-format

Env-only settings:

	ADMIN_USERNAME, ADMIN_PASSWORD, ADMIN_NAME  bootstrap admin account
	SCRIPTURE_TRANSLATION                       default almeida
	RESEND_API_KEY, NOTIFY_FROM, NOTIFY_TO      admin email notifications

CLI flags take precedence over environment variables. main loads an
optional .env file before parsing.

# Validation

ParseFlags returns an error if:

  - SESSION_SECRET or IP_HASH_SALT is missing
  - DATABASE_TYPE is postgres and no DATABASE_URL is given
  - the postgres change feed is requested on sqlite
  - only one of ADMIN_USERNAME / ADMIN_PASSWORD is set
*/
package cliparse
