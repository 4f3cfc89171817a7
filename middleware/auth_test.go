package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/vivendo-na-fe/auth"
)

type fakeChecker struct {
	admins map[string]bool
	err    error
}

func (f fakeChecker) IsAdmin(_ context.Context, id string) (bool, error) {
	return f.admins[id], f.err
}

func TestRequireAdmin(t *testing.T) {
	const secret = "segredo"
	valid, _, err := auth.IssueSession("admin-1", "Mário", "admin", secret, time.Hour, time.Now())
	require.NoError(t, err)
	other, _, err := auth.IssueSession("admin-2", "Ex", "admin", secret, time.Hour, time.Now())
	require.NoError(t, err)
	expired, _, err := auth.IssueSession("admin-1", "Mário", "admin", secret, time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	forged, _, err := auth.IssueSession("admin-1", "Mário", "admin", "outro", time.Hour, time.Now())
	require.NoError(t, err)

	checker := fakeChecker{admins: map[string]bool{"admin-1": true}}

	tests := []struct {
		name    string
		header  string
		checker AdminChecker
		want    int
	}{
		{"valid session", "Bearer " + valid, checker, http.StatusOK},
		{"lowercase scheme", "bearer " + valid, checker, http.StatusOK},
		{"missing header", "", checker, http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, checker, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, checker, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + forged, checker, http.StatusUnauthorized},
		{"deactivated admin", "Bearer " + other, checker, http.StatusForbidden},
		{"store failure", "Bearer " + valid, fakeChecker{err: errors.New("db down")}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSubject string
			h := RequireAdmin(tt.checker, secret)(func(w http.ResponseWriter, r *http.Request) {
				claims, ok := SessionFromContext(r.Context())
				require.True(t, ok)
				gotSubject = claims.Subject
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest("GET", "/admin/overview", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			h(w, req)

			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusOK {
				assert.Equal(t, "admin-1", gotSubject)
			} else {
				assert.Empty(t, gotSubject)
			}
		})
	}
}

func TestSessionFromContext_Missing(t *testing.T) {
	_, ok := SessionFromContext(context.Background())
	assert.False(t, ok)
}
