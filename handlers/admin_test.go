// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/vivendo-na-fe/auth"
	"github.com/danielhkuo/vivendo-na-fe/db"
	"github.com/danielhkuo/vivendo-na-fe/middleware"
	"github.com/danielhkuo/vivendo-na-fe/models"
	"github.com/danielhkuo/vivendo-na-fe/realtime"
	"github.com/danielhkuo/vivendo-na-fe/testutil"
)

func withID(req *http.Request, id string) *http.Request {
	req.SetPathValue("id", id)
	return req
}

func boolPtr(b bool) *bool { return &b }

func TestAdminLogin(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(store, cfg, realtime.NopPublisher{})
	admin, _ := testutil.CreateTestAdmin(t, store, cfg, "pastor")

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{"valid credentials", models.LoginRequest{Username: "pastor", Password: testutil.TestAdminPassword}, http.StatusOK},
		{"wrong password", models.LoginRequest{Username: "pastor", Password: "errada"}, http.StatusUnauthorized},
		{"unknown user", models.LoginRequest{Username: "ninguem", Password: testutil.TestAdminPassword}, http.StatusUnauthorized},
		{"missing password", models.LoginRequest{Username: "pastor"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/admin/login", tt.body, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus != http.StatusOK {
				return
			}
			var resp models.LoginResponse
			testutil.AssertJSON(t, w, &resp)
			claims, err := auth.ParseSession(resp.Token, cfg.SessionSecret)
			if err != nil {
				t.Fatalf("Issued token does not verify: %v", err)
			}
			if claims.Subject != admin.ID || resp.Role != models.RoleAdmin {
				t.Errorf("Unexpected session: sub=%s role=%s", claims.Subject, resp.Role)
			}
			if resp.ExpiresAt.IsZero() {
				t.Error("Expected expires_at")
			}
		})
	}
}

func TestAdminLogin_UnknownUserStillChecksPassword(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(store, cfg, realtime.NopPublisher{})
	testutil.CreateTestAdmin(t, store, cfg, "pastor")

	var checked []string
	handler.rejectUnknown = func(plaintext string) error {
		checked = append(checked, plaintext)
		return auth.ErrInvalidCredentials
	}

	testCases := []struct {
		name     string
		username string
		expected []string
	}{
		{"unknown user", "ninguem", []string{"tentativa"}},
		{"known user", "pastor", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			checked = nil
			w := httptest.NewRecorder()
			handler.Login(w, testutil.MakeRequest("POST", "/admin/login",
				models.LoginRequest{Username: tc.username, Password: "tentativa"}, nil))

			testutil.AssertStatus(t, w, http.StatusUnauthorized)
			if len(checked) != len(tc.expected) || (len(checked) == 1 && checked[0] != tc.expected[0]) {
				t.Errorf("Expected unknown-user comparisons %v, got %v", tc.expected, checked)
			}
		})
	}

	if err := auth.RejectUnknownUser(testutil.TestAdminPassword); !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("Expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAdminSermonLifecycle(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	pub := &testutil.RecordingPublisher{}
	handler := NewAdminHandler(store, cfg, pub)
	admin, token := testutil.CreateTestAdmin(t, store, cfg, "editor")
	guard := middleware.RequireAdmin(store, cfg.SessionSecret)

	// Create without author: the signed-in admin's name is used
	req := testutil.MakeRequest("POST", "/admin/sermons", models.CreateSermonRequest{
		Title: "O bom pastor", Theme: "Cuidado", MainVerse: "João 10:11", Content: "Texto",
	}, testutil.BearerHeader(token))
	w := httptest.NewRecorder()
	guard(handler.CreateSermon)(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var sermon models.SermonOutline
	testutil.AssertJSON(t, w, &sermon)
	if sermon.Author != admin.Name || sermon.IsPublished {
		t.Fatalf("Unexpected sermon: %+v", sermon)
	}

	// Publish
	req = testutil.MakeRequest("PATCH", "/admin/sermons/"+sermon.ID, models.SetPublishedRequest{IsPublished: boolPtr(true)}, nil)
	w = httptest.NewRecorder()
	handler.SetSermonPublished(w, withID(req, sermon.ID))
	testutil.AssertStatus(t, w, http.StatusOK)

	var updated models.SermonOutline
	testutil.AssertJSON(t, w, &updated)
	if !updated.IsPublished {
		t.Error("Expected sermon to be published")
	}

	// Toggle body must carry the flag
	req = testutil.MakeRequest("PATCH", "/admin/sermons/"+sermon.ID, map[string]string{}, nil)
	w = httptest.NewRecorder()
	handler.SetSermonPublished(w, withID(req, sermon.ID))
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Delete, then delete again
	w = httptest.NewRecorder()
	handler.DeleteSermon(w, withID(httptest.NewRequest("DELETE", "/admin/sermons/"+sermon.ID, nil), sermon.ID))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	handler.DeleteSermon(w, withID(httptest.NewRequest("DELETE", "/admin/sermons/"+sermon.ID, nil), sermon.ID))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	changes := pub.Changes()
	wantTypes := []string{realtime.Insert, realtime.Update, realtime.Delete}
	if len(changes) != len(wantTypes) {
		t.Fatalf("Expected %d changes, got %d", len(wantTypes), len(changes))
	}
	for i, c := range changes {
		if c.Table != db.TableSermons || c.Type != wantTypes[i] {
			t.Errorf("change %d: got %s %s", i, c.Table, c.Type)
		}
	}

	var deleted map[string]interface{}
	if err := json.Unmarshal(changes[2].Record, &deleted); err != nil {
		t.Fatalf("Bad delete payload: %v", err)
	}
	if len(deleted) != 1 || deleted["id"] != sermon.ID {
		t.Errorf("Delete payload should carry only the id, got %v", deleted)
	}
}

func TestAdminPolls(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(store, cfg, realtime.NopPublisher{})

	tests := []struct {
		name           string
		body           models.CreatePollRequest
		expectedStatus int
	}{
		{"valid", models.CreatePollRequest{Question: "Qual o tema do próximo estudo?", Options: []string{"Fé", "Esperança", "Amor"}, IsActive: true}, http.StatusCreated},
		{"one option", models.CreatePollRequest{Question: "?", Options: []string{"Sim"}}, http.StatusBadRequest},
		{"repeated option", models.CreatePollRequest{Question: "?", Options: []string{"Sim", " Sim"}}, http.StatusBadRequest},
		{"missing question", models.CreatePollRequest{Options: []string{"Sim", "Não"}}, http.StatusBadRequest},
	}

	var pollID string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreatePoll(w, testutil.MakeRequest("POST", "/admin/polls", tt.body, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var poll models.Poll
				testutil.AssertJSON(t, w, &poll)
				if len(poll.Options) != 3 || !poll.IsActive {
					t.Errorf("Unexpected poll: %+v", poll)
				}
				pollID = poll.ID
			}
		})
	}

	if pollID == "" {
		t.Fatal("poll was not created")
	}

	req := testutil.MakeRequest("PATCH", "/admin/polls/"+pollID, models.SetActiveRequest{IsActive: boolPtr(false)}, nil)
	w := httptest.NewRecorder()
	handler.SetPollActive(w, withID(req, pollID))
	testutil.AssertStatus(t, w, http.StatusOK)

	if _, err := store.ActivePoll(t.Context()); !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected no active poll after deactivation, got %v", err)
	}

	req = testutil.MakeRequest("PATCH", "/admin/polls/missing", models.SetActiveRequest{IsActive: boolPtr(true)}, nil)
	w = httptest.NewRecorder()
	handler.SetPollActive(w, withID(req, "missing"))
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestAdminSongRequestStatus(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	pub := &testutil.RecordingPublisher{}
	handler := NewAdminHandler(store, cfg, pub)

	song, err := store.CreateSongRequest(t.Context(), models.CreateSongRequest{UserName: "Maria", SongTitle: "Oceans"})
	if err != nil {
		t.Fatalf("Failed to create song request: %v", err)
	}

	steps := []struct {
		name           string
		status         string
		expectedStatus int
	}{
		{"cannot skip to completed", models.StatusCompleted, http.StatusConflict},
		{"approve", models.StatusApproved, http.StatusOK},
		{"cannot reject once approved", models.StatusRejected, http.StatusConflict},
		{"complete", models.StatusCompleted, http.StatusOK},
		{"final state", models.StatusPending, http.StatusConflict},
		{"unknown status", "played", http.StatusBadRequest},
	}

	for _, tt := range steps {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("PATCH", "/admin/song-requests/"+song.ID, models.UpdateSongStatusRequest{Status: tt.status}, nil)
			w := httptest.NewRecorder()
			handler.UpdateSongRequestStatus(w, withID(req, song.ID))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	req := testutil.MakeRequest("PATCH", "/admin/song-requests/missing", models.UpdateSongStatusRequest{Status: models.StatusApproved}, nil)
	w := httptest.NewRecorder()
	handler.UpdateSongRequestStatus(w, withID(req, "missing"))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	if n := len(pub.Changes()); n != 2 {
		t.Errorf("Expected 2 published updates, got %d", n)
	}
}

func TestAdminOverview(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	handler := NewAdminHandler(store, cfg, realtime.NopPublisher{})

	testutil.CreateTestPoll(t, store, "Rascunho", false, "A", "B")
	if _, err := store.CreateSermon(t.Context(), models.CreateSermonRequest{Title: "t", Theme: "t", MainVerse: "v", Author: "a"}); err != nil {
		t.Fatalf("Failed to create sermon: %v", err)
	}
	if _, err := store.CreatePrayer(t.Context(), models.CreatePrayerRequest{PrayerRequest: "Paz", IsAnonymous: true}); err != nil {
		t.Fatalf("Failed to create prayer: %v", err)
	}

	w := httptest.NewRecorder()
	handler.Overview(w, httptest.NewRequest("GET", "/admin/overview", nil))
	testutil.AssertStatus(t, w, http.StatusOK)

	var overview models.AdminOverview
	testutil.AssertJSON(t, w, &overview)

	// Unpublished and inactive rows are visible to admins
	if len(overview.Polls) != 1 || len(overview.Sermons) != 1 || len(overview.Prayers) != 1 {
		t.Errorf("Unexpected overview counts: polls=%d sermons=%d prayers=%d",
			len(overview.Polls), len(overview.Sermons), len(overview.Prayers))
	}
	if overview.Comments == nil || overview.SongRequests == nil || overview.Schedule == nil {
		t.Error("Empty lists should encode as [] not null")
	}
}

func TestAdminDeleteInteractions(t *testing.T) {
	store := testutil.SetupTestStore(t)
	cfg := testutil.GetTestConfig()
	pub := &testutil.RecordingPublisher{}
	handler := NewAdminHandler(store, cfg, pub)

	comment, err := store.CreateComment(t.Context(), models.CreateCommentRequest{UserName: "Spam", Comment: "compre já"})
	if err != nil {
		t.Fatalf("Failed to create comment: %v", err)
	}
	prayer, err := store.CreatePrayer(t.Context(), models.CreatePrayerRequest{UserName: "Ana", PrayerRequest: "Cura"})
	if err != nil {
		t.Fatalf("Failed to create prayer: %v", err)
	}

	w := httptest.NewRecorder()
	handler.DeleteComment(w, withID(httptest.NewRequest("DELETE", "/", nil), comment.ID))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	handler.DeletePrayer(w, withID(httptest.NewRequest("DELETE", "/", nil), prayer.ID))
	testutil.AssertStatus(t, w, http.StatusNoContent)

	w = httptest.NewRecorder()
	handler.DeleteSongRequest(w, withID(httptest.NewRequest("DELETE", "/", nil), "missing"))
	testutil.AssertStatus(t, w, http.StatusNotFound)

	changes := pub.Changes()
	if len(changes) != 2 || changes[0].Table != db.TableComments || changes[1].Table != db.TablePrayers {
		t.Errorf("Unexpected changes: %+v", changes)
	}
}
