// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifiers, password hashing, admin sessions and the
voter pseudo-identity.

# ID Generation

Row IDs are random UUIDv4 strings:

	id := auth.NewID()

# Admin Passwords

Admin passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	err = auth.CheckPassword(hash, candidate) // ErrInvalidCredentials on mismatch

# Admin Sessions

Sessions are HS256 JWTs carrying the admin id (sub), name and role:

	token, expiresAt, err := auth.IssueSession(id, name, role, secret, ttl, time.Now())
	claims, err := auth.ParseSession(token, secret) // ErrInvalidToken

A valid token alone is not enough for admin routes; the middleware also
re-checks the account against the database on every request.

# IP Hashing

Votes are deduplicated per poll by a pseudo-identity derived from the
client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256. This is not
authentication: anyone behind the same NAT shares an identity and a
spoofed X-Forwarded-For yields a new one.
*/
package auth
