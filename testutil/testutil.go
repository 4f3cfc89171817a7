// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/cliparse"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
)

// TestAdminPassword is the plain password of admins created by CreateTestAdmin
const TestAdminPassword = "s3nha-de-teste"

// SetupTestDB creates a fresh in-memory database with the full schema.
// A single connection keeps every query on the same in-memory database.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := sql.Open("sqlite", "file::memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, cliparse.DatabaseSQLite); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore wraps SetupTestDB in a Store
func SetupTestStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(SetupTestDB(t))
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            3318,
		DatabaseURL:     ":memory:",
		DatabaseType:    cliparse.DatabaseSQLite,
		ChangeFeed:      cliparse.FeedLocal,
		SessionSecret:   "test-session-secret",
		SessionTTL:      time.Hour,
		IPHashSalt:      "test-ip-salt",
		ScriptureAPIURL: "http://127.0.0.1:0",
		Translation:     "almeida",
		LogFormat:       "text",
	}
}

// CreateTestPoll creates a poll with the given options and returns it
func CreateTestPoll(t *testing.T, store *db.Store, question string, active bool, options ...string) models.Poll {
	t.Helper()

	poll, err := store.CreatePoll(context.Background(), models.CreatePollRequest{
		Question: question,
		Options:  options,
		IsActive: active,
	})
	if err != nil {
		t.Fatalf("Failed to create test poll: %v", err)
	}
	return poll
}

// CastTestVote records a vote as if cast from the given client IP
func CastTestVote(t *testing.T, store *db.Store, cfg cliparse.Config, pollID, option, clientIP string) models.Vote {
	t.Helper()

	vote, err := store.InsertVote(context.Background(), pollID, option, auth.HashIP(clientIP, cfg.IPHashSalt))
	if err != nil {
		t.Fatalf("Failed to cast test vote: %v", err)
	}
	return vote
}

// CreateTestAdmin creates an admin account and returns it with a valid
// session token
func CreateTestAdmin(t *testing.T, store *db.Store, cfg cliparse.Config, username string) (models.AdminUser, string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestAdminPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	admin, err := store.UpsertAdmin(context.Background(), username, "Admin "+username, string(hash))
	if err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}

	token, _, err := auth.IssueSession(admin.ID, admin.Name, admin.Role, cfg.SessionSecret, cfg.SessionTTL, time.Now())
	if err != nil {
		t.Fatalf("Failed to issue test session: %v", err)
	}
	return admin, token
}

// BearerHeader returns request headers carrying an admin session
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

// RecordingPublisher collects published changes for assertions
type RecordingPublisher struct {
	mu      sync.Mutex
	changes []realtime.Change
}

func (p *RecordingPublisher) Publish(table, changeType string, record any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	raw, _ := json.Marshal(record)
	p.changes = append(p.changes, realtime.Change{Table: table, Type: changeType, Record: raw})
}

// Changes returns a copy of everything published so far
func (p *RecordingPublisher) Changes() []realtime.Change {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Change(nil), p.changes...)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
