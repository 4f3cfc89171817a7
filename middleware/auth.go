// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/danielhkuo/vivendo-na-fe/auth"
)

// AdminChecker confirms that a session subject is still an active admin.
// *db.Store satisfies it.
type AdminChecker interface {
	IsAdmin(ctx context.Context, id string) (bool, error)
}

type sessionKey struct{}

// RequireAdmin rejects requests without a valid admin session token.
// The role is re-checked against the database on every request so that
// deactivating an account takes effect before its token expires.
func RequireAdmin(checker AdminChecker, secret string) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token := BearerToken(r)
			if token == "" {
				ErrorResponse(w, http.StatusUnauthorized, "Sessão necessária")
				return
			}

			claims, err := auth.ParseSession(token, secret)
			if err != nil {
				ErrorResponse(w, http.StatusUnauthorized, "Sessão inválida ou expirada")
				return
			}

			ok, err := checker.IsAdmin(r.Context(), claims.Subject)
			if err != nil {
				slog.Error("failed to check admin role", "error", err, "admin_id", claims.Subject)
				ErrorResponse(w, http.StatusInternalServerError, "Erro ao verificar sessão")
				return
			}
			if !ok {
				ErrorResponse(w, http.StatusForbidden, "Acesso restrito a administradores")
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey{}, claims)
			next(w, r.WithContext(ctx))
		}
	}
}

// SessionFromContext returns the claims RequireAdmin attached to the request
func SessionFromContext(ctx context.Context) (*auth.SessionClaims, bool) {
	claims, ok := ctx.Value(sessionKey{}).(*auth.SessionClaims)
	return claims, ok
}

// BearerToken extracts the token from an "Authorization: Bearer" header
func BearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
