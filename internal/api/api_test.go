// PMAtlas - Location-Based Networking for Product Managers
// Copyright 2026 PMAtlas Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/pmatlas/pmatlas

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/pmatlas/pmatlas/internal/auth"
	"github.com/pmatlas/pmatlas/internal/config"
	"github.com/pmatlas/pmatlas/internal/database"
	"github.com/pmatlas/pmatlas/internal/fallback"
	"github.com/pmatlas/pmatlas/internal/gateway"
	"github.com/pmatlas/pmatlas/internal/models"
)

type testServer struct {
	srv *httptest.Server
	db  *database.DB
	gw  *gateway.Gateway
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{
		Path:      filepath.Join(t.TempDir(), "api_test.duckdb"),
		MaxMemory: "256MB",
		Threads:   2,
	})
	if err != nil {
		t.Fatalf("Failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bdb, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("Failed to open badger: %v", err)
	}
	t.Cleanup(func() { _ = bdb.Close() })

	gw := gateway.New(db, fallback.NewWithDB(bdb))

	cfg := &config.Config{
		Security: config.SecurityConfig{
			RateLimitDisabled: true,
			CORSOrigins:       []string{"*"},
		},
		API: config.APIConfig{DefaultPageSize: 20, MaxPageSize: 100},
	}

	router := NewRouter(
		NewHandlers(gw, db, cfg),
		NewChiMiddleware(&cfg.Security),
		auth.NewMiddleware(nil, true),
	)

	srv := httptest.NewServer(router.Setup())
	t.Cleanup(srv.Close)

	return &testServer{srv: srv, db: db, gw: gw}
}

// call performs a request and decodes the envelope.
func (ts *testServer) call(t *testing.T, method, path string, body interface{}) (int, models.APIResponse) {
	t.Helper()

	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal body: %v", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequest(method, ts.srv.URL+path, reqBody)
	if err != nil {
		t.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.srv.Client().Do(req)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var envelope models.APIResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp.StatusCode, envelope
}

// decodeData re-marshals the envelope's data field into dst.
func decodeData(t *testing.T, envelope models.APIResponse, dst interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	if err != nil {
		t.Fatalf("Failed to re-marshal data: %v", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.Fatalf("Failed to decode data: %v", err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/api/health", "/api/health/live", "/api/health/ready"} {
		status, envelope := ts.call(t, http.MethodGet, path, nil)
		if status != http.StatusOK {
			t.Errorf("GET %s status = %d", path, status)
		}
		if envelope.Status != "success" {
			t.Errorf("GET %s envelope status = %q", path, envelope.Status)
		}
	}
}

func TestMeProvisionsOnFirstAccess(t *testing.T) {
	ts := newTestServer(t)

	status, envelope := ts.call(t, http.MethodGet, "/api/users/me", nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}

	var p models.Profile
	decodeData(t, envelope, &p)

	if p.SubjectID != "dev|local" {
		t.Errorf("SubjectID = %q", p.SubjectID)
	}
	if p.IsProfileComplete {
		t.Error("Fresh profile must be incomplete")
	}
	if len(p.PMFocus) != 0 {
		t.Errorf("Fresh profile focus = %v", p.PMFocus)
	}
	if !p.Privacy.AllowConnections || p.Privacy.AnonymousMode {
		t.Errorf("Privacy = %+v", p.Privacy)
	}

	// Second call returns the same record.
	_, again := ts.call(t, http.MethodGet, "/api/users/me", nil)
	var p2 models.Profile
	decodeData(t, again, &p2)
	if p2.ID != p.ID {
		t.Errorf("Profile ID changed across calls: %q then %q", p.ID, p2.ID)
	}
}

func TestMeConflictsOnTakenEmail(t *testing.T) {
	ts := newTestServer(t)

	// Another member already registered the caller's email address.
	squatter := seedProfile(t, ts, "auth0|squatter", "Early Bird", false)
	squatter.Email = "dev@localhost"
	if err := ts.db.UpsertProfile(context.Background(), squatter); err != nil {
		t.Fatalf("Failed to reassign seeded email: %v", err)
	}

	status, envelope := ts.call(t, http.MethodGet, "/api/users/me", nil)
	if status != http.StatusConflict {
		t.Fatalf("Status = %d, want 409", status)
	}
	if envelope.Error == nil || envelope.Error.Code != models.CodeValidationError {
		t.Errorf("Error = %+v, want %s", envelope.Error, models.CodeValidationError)
	}
}

func TestUpdateMe(t *testing.T) {
	ts := newTestServer(t)

	body := map[string]interface{}{
		"status":     "current-employee",
		"experience": "senior-pm",
		"pmFocus":    []string{"technical-pm"},
		"industry":   []string{"saas"},
		"location": map[string]interface{}{
			"country":   "USA",
			"state":     "CA",
			"city":      "San Francisco",
			"isVisible": true,
		},
	}

	status, envelope := ts.call(t, http.MethodPut, "/api/users/me", body)
	if status != http.StatusOK {
		t.Fatalf("Status = %d: %+v", status, envelope.Error)
	}

	var p models.Profile
	decodeData(t, envelope, &p)

	if !p.IsProfileComplete {
		t.Error("Profile should be complete")
	}
	if p.Location == nil || p.Location.Coordinates == nil {
		t.Fatal("Location coordinates missing")
	}
	if p.Location.Coordinates.Lat != 37.7749 || p.Location.Coordinates.Lng != -122.4194 {
		t.Errorf("Coordinates = %+v, want San Francisco", p.Location.Coordinates)
	}
}

func TestUpdateMeRejectsUnknownEnumValues(t *testing.T) {
	ts := newTestServer(t)

	status, envelope := ts.call(t, http.MethodPut, "/api/users/me", map[string]interface{}{
		"status": "unemployed",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("Status = %d", status)
	}
	if envelope.Error == nil || envelope.Error.Code != models.CodeValidationError {
		t.Errorf("Error = %+v", envelope.Error)
	}

	status, _ = ts.call(t, http.MethodPut, "/api/users/me", map[string]interface{}{
		"pmFocus": []string{"technical-pm", "bogus"},
	})
	if status != http.StatusBadRequest {
		t.Errorf("Status = %d for bad focus", status)
	}
}

func TestMapMarkers(t *testing.T) {
	ts := newTestServer(t)

	// Make the viewer visible on the map.
	ts.call(t, http.MethodPut, "/api/users/me", map[string]interface{}{
		"status":     "current-employee",
		"experience": "pm",
		"location": map[string]interface{}{
			"state": "CA", "city": "San Francisco", "isVisible": true,
		},
	})

	status, envelope := ts.call(t, http.MethodGet, "/api/users/map", nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}

	var markers []map[string]interface{}
	decodeData(t, envelope, &markers)
	if len(markers) != 1 {
		t.Fatalf("Markers = %d, want 1", len(markers))
	}
	if markers[0]["isViewer"] != true {
		t.Error("Expected the viewer marker first")
	}
	if markers[0]["color"] == "" || markers[0]["glyph"] == "" {
		t.Errorf("Marker encoding missing: %+v", markers[0])
	}
}

func TestSearchUsers(t *testing.T) {
	ts := newTestServer(t)

	ts.call(t, http.MethodPut, "/api/users/me", map[string]interface{}{
		"status":     "job-seeker",
		"experience": "senior-pm",
		"pmFocus":    []string{"growth-pm"},
		"industry":   []string{"fintech"},
	})

	status, envelope := ts.call(t, http.MethodGet, "/api/users/search?experience=senior-pm", nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}

	var results []models.SearchProfile
	decodeData(t, envelope, &results)
	if len(results) != 1 {
		t.Fatalf("Results = %d, want 1", len(results))
	}
	if results[0].Experience != models.ExperienceSenior {
		t.Errorf("Experience = %q", results[0].Experience)
	}

	status, _ = ts.call(t, http.MethodGet, "/api/users/search?status=bogus", nil)
	if status != http.StatusBadRequest {
		t.Errorf("Status = %d for unknown status filter", status)
	}
}

func TestGetUserPublicAndPrivate(t *testing.T) {
	ts := newTestServer(t)

	public := seedProfile(t, ts, "auth0|public", "Public PM", false)
	private := seedProfile(t, ts, "auth0|private", "Private PM", true)

	status, envelope := ts.call(t, http.MethodGet, "/api/users/"+public.ID, nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}
	var pub models.PublicProfile
	decodeData(t, envelope, &pub)
	if pub.Name != "Public PM" {
		t.Errorf("Name = %q", pub.Name)
	}

	status, envelope = ts.call(t, http.MethodGet, "/api/users/"+private.ID, nil)
	if status != http.StatusForbidden {
		t.Fatalf("Status = %d, want 403", status)
	}
	if envelope.Error == nil || envelope.Error.Code != models.CodeProfilePrivate {
		t.Errorf("Error = %+v", envelope.Error)
	}

	status, _ = ts.call(t, http.MethodGet, "/api/users/00000000-0000-0000-0000-000000000000", nil)
	if status != http.StatusNotFound {
		t.Errorf("Status = %d for missing profile", status)
	}
}

func TestForumLifecycle(t *testing.T) {
	ts := newTestServer(t)

	// Create a post.
	status, envelope := ts.call(t, http.MethodPost, "/api/forum/posts", map[string]interface{}{
		"title":    "Negotiating senior PM offers",
		"content":  "What worked for you?",
		"category": "job-market",
		"tags":     []string{"salary", "negotiation"},
	})
	if status != http.StatusCreated {
		t.Fatalf("Create status = %d: %+v", status, envelope.Error)
	}
	var post models.ForumPost
	decodeData(t, envelope, &post)

	// Unknown category is rejected.
	status, _ = ts.call(t, http.MethodPost, "/api/forum/posts", map[string]interface{}{
		"title": "X", "content": "Y", "category": "all",
	})
	if status != http.StatusBadRequest {
		t.Errorf("Create with sentinel category status = %d", status)
	}

	// List includes it, filtered by tag.
	status, envelope = ts.call(t, http.MethodGet, "/api/forum/posts?tag=salary", nil)
	if status != http.StatusOK {
		t.Fatalf("List status = %d", status)
	}
	var posts []models.ForumPost
	decodeData(t, envelope, &posts)
	if len(posts) != 1 || posts[0].ID != post.ID {
		t.Fatalf("Posts = %d", len(posts))
	}

	// Vote up twice, down once.
	for _, dir := range []string{"up", "up", "down"} {
		status, _ = ts.call(t, http.MethodPost, fmt.Sprintf("/api/forum/posts/%s/vote", post.ID), map[string]string{"direction": dir})
		if status != http.StatusOK {
			t.Fatalf("Vote status = %d", status)
		}
	}

	// Comment on it.
	status, envelope = ts.call(t, http.MethodPost, fmt.Sprintf("/api/forum/posts/%s/comments", post.ID), map[string]string{
		"content": "Anchoring high worked for me.",
	})
	if status != http.StatusCreated {
		t.Fatalf("Comment status = %d: %+v", status, envelope.Error)
	}

	// Detail view reflects votes, comment, and the view count bump.
	status, envelope = ts.call(t, http.MethodGet, "/api/forum/posts/"+post.ID, nil)
	if status != http.StatusOK {
		t.Fatalf("Get status = %d", status)
	}
	var got models.ForumPost
	decodeData(t, envelope, &got)
	if got.Upvotes != 2 || got.Downvotes != 1 {
		t.Errorf("Votes = %d/%d, want 2/1", got.Upvotes, got.Downvotes)
	}
	if len(got.Comments) != 1 {
		t.Errorf("Comments = %d, want 1", len(got.Comments))
	}
	if got.ViewCount != 1 {
		t.Errorf("ViewCount = %d, want 1", got.ViewCount)
	}

	// Tag vocabulary.
	status, envelope = ts.call(t, http.MethodGet, "/api/forum/tags", nil)
	if status != http.StatusOK {
		t.Fatalf("Tags status = %d", status)
	}
	var tags []string
	decodeData(t, envelope, &tags)
	if len(tags) != 2 || tags[0] != "negotiation" || tags[1] != "salary" {
		t.Errorf("Tags = %v", tags)
	}

	// Missing post is 404.
	status, _ = ts.call(t, http.MethodGet, "/api/forum/posts/00000000-0000-0000-0000-000000000000", nil)
	if status != http.StatusNotFound {
		t.Errorf("Missing post status = %d", status)
	}
}

func TestResourceLifecycle(t *testing.T) {
	ts := newTestServer(t)

	status, envelope := ts.call(t, http.MethodPost, "/api/resources/", map[string]interface{}{
		"title":       "Cracking the PM Interview",
		"description": "The classic interview prep book.",
		"url":         "https://example.com/book",
		"category":    "interview-prep",
		"type":        "book",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create status = %d: %+v", status, envelope.Error)
	}

	status, envelope = ts.call(t, http.MethodGet, "/api/resources/?category=interview-prep&type=book", nil)
	if status != http.StatusOK {
		t.Fatalf("List status = %d", status)
	}
	var resources []models.Resource
	decodeData(t, envelope, &resources)
	if len(resources) != 1 {
		t.Fatalf("Resources = %d", len(resources))
	}

	status, _ = ts.call(t, http.MethodGet, "/api/resources/?category=bogus", nil)
	if status != http.StatusBadRequest {
		t.Errorf("Unknown category status = %d", status)
	}
}

func TestConnectionLifecycle(t *testing.T) {
	ts := newTestServer(t)

	recipient := seedProfile(t, ts, "auth0|rcpt", "Recipient PM", false)

	status, envelope := ts.call(t, http.MethodPost, "/api/connections/", map[string]string{
		"recipientId": recipient.ID,
		"message":     "Would love to compare notes.",
	})
	if status != http.StatusCreated {
		t.Fatalf("Create status = %d: %+v", status, envelope.Error)
	}
	var conn models.Connection
	decodeData(t, envelope, &conn)
	if conn.Status != models.ConnectionPending {
		t.Errorf("Status = %q", conn.Status)
	}

	// Duplicate request conflicts.
	status, _ = ts.call(t, http.MethodPost, "/api/connections/", map[string]string{"recipientId": recipient.ID})
	if status != http.StatusConflict {
		t.Errorf("Duplicate status = %d", status)
	}

	// The caller is the requester, not the recipient, so responding fails.
	status, _ = ts.call(t, http.MethodPut, "/api/connections/"+conn.ID, map[string]string{"status": "accepted"})
	if status != http.StatusForbidden {
		t.Errorf("Requester responding status = %d, want 403", status)
	}

	// The list shows the pending request.
	status, envelope = ts.call(t, http.MethodGet, "/api/connections/", nil)
	if status != http.StatusOK {
		t.Fatalf("List status = %d", status)
	}
	var conns []models.Connection
	decodeData(t, envelope, &conns)
	if len(conns) != 1 {
		t.Errorf("Connections = %d", len(conns))
	}
}

func TestConnectionToClosedProfile(t *testing.T) {
	ts := newTestServer(t)

	closed := seedProfile(t, ts, "auth0|closed", "Closed PM", false)
	closed.Privacy.AllowConnections = false
	if err := ts.db.UpsertProfile(context.Background(), closed); err != nil {
		t.Fatalf("Failed to update profile: %v", err)
	}

	status, _ := ts.call(t, http.MethodPost, "/api/connections/", map[string]string{"recipientId": closed.ID})
	if status != http.StatusForbidden {
		t.Errorf("Status = %d, want 403", status)
	}
}

// seedProfile inserts a member directly into the primary store.
func seedProfile(t *testing.T, ts *testServer, subject, name string, anonymous bool) *models.Profile {
	t.Helper()

	now := time.Now().UTC()
	privacy := models.DefaultPrivacy()
	privacy.AnonymousMode = anonymous

	p := &models.Profile{
		ID:         uuid.NewString(),
		SubjectID:  subject,
		Email:      subject + "@example.com",
		Name:       name,
		Status:     models.StatusEmployee,
		Experience: models.ExperiencePM,
		PMFocus:    []models.Focus{models.FocusB2B},
		Industry:   []models.Industry{models.IndustrySaaS},
		Privacy:    privacy,
		LastActive: now,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := ts.db.UpsertProfile(context.Background(), p); err != nil {
		t.Fatalf("Failed to seed profile: %v", err)
	}
	return p
}

func TestMapMarkersRadius(t *testing.T) {
	ts := newTestServer(t)

	ts.call(t, http.MethodPut, "/api/users/me", map[string]interface{}{
		"status":     "current-employee",
		"experience": "pm",
		"location": map[string]interface{}{
			"state": "CA", "city": "San Francisco", "isVisible": true,
		},
	})

	// A 50 km radius around San Francisco keeps the viewer.
	status, envelope := ts.call(t, http.MethodGet, "/api/users/map?lat=37.77&lng=-122.42&radius=50", nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}
	var markers []map[string]interface{}
	decodeData(t, envelope, &markers)
	if len(markers) != 1 {
		t.Errorf("Markers near SF = %d, want 1", len(markers))
	}

	// The same radius around New York excludes everyone.
	status, envelope = ts.call(t, http.MethodGet, "/api/users/map?lat=40.71&lng=-74.00&radius=50", nil)
	if status != http.StatusOK {
		t.Fatalf("Status = %d", status)
	}
	decodeData(t, envelope, &markers)
	if len(markers) != 0 {
		t.Errorf("Markers near NY = %d, want 0", len(markers))
	}

	// Partial parameters are rejected.
	status, _ = ts.call(t, http.MethodGet, "/api/users/map?lat=37.77&radius=50", nil)
	if status != http.StatusBadRequest {
		t.Errorf("Partial radius params status = %d", status)
	}
}
