package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/service"
)

func shareForm(t *testing.T, api *API, postID uint, platform string) *httptest.ResponseRecorder {
	t.Helper()

	router := adminTestRouter(api)
	target := fmt.Sprintf("/admin/api/posts/%d/share", postID)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader("platform="+platform))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSharePostToMastodon(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	var received struct {
		path   string
		auth   string
		status string
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.path = r.URL.Path
		received.auth = r.Header.Get("Authorization")
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received.status = payload["status"]
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "{}")
	}))
	defer server.Close()

	api.shares = service.NewShareService(server.URL, "token-123", "", "", "")

	post, err := service.NewPostService(db.DB).Create(service.PostInput{Title: "Shared Post", Status: db.StatusPublished, UserID: 1})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	w := shareForm(t, api, post.ID, "mastodon")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Successfully shared to Mastodon!") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
	if received.path != "/api/v1/statuses" {
		t.Fatalf("unexpected path %q", received.path)
	}
	if received.auth != "Bearer token-123" {
		t.Fatalf("unexpected auth %q", received.auth)
	}
	want := "New blog post: Shared Post\n\nRead more here: https://blog.example.com/post/shared-post/"
	if received.status != want {
		t.Fatalf("status = %q, want %q", received.status, want)
	}
}

func TestSharePostFailureLeavesPostUntouched(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad token"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	api.shares = service.NewShareService(server.URL, "token-123", "", "", "")

	post, err := service.NewPostService(db.DB).Create(service.PostInput{Title: "Unshared Post", Status: db.StatusPublished, UserID: 1})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}
	stampBefore := *post.PublishedAt

	w := shareForm(t, api, post.ID, "mastodon")
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Error sharing to Mastodon") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}

	var stored db.Post
	if err := db.DB.First(&stored, post.ID).Error; err != nil {
		t.Fatalf("reload post: %v", err)
	}
	if stored.Status != db.StatusPublished || stored.PublishedAt == nil || !stored.PublishedAt.Equal(stampBefore) {
		t.Fatalf("share failure must not change post state: %+v", stored)
	}
}

func TestSharePostToBluesky(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/xrpc/com.atproto.server.createSession":
			fmt.Fprint(w, `{"accessJwt":"jwt-abc","did":"did:plc:xyz"}`)
		case "/xrpc/com.atproto.repo.createRecord":
			fmt.Fprint(w, "{}")
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	api.shares = service.NewShareService("", "", server.URL, "blog.example.com", "app-pass")

	post, err := service.NewPostService(db.DB).Create(service.PostInput{Title: "Sky Post", Status: db.StatusPublished, UserID: 1})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	w := shareForm(t, api, post.ID, "bluesky")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Successfully shared to Bluesky!") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestSharePostUnknownPlatform(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	post, err := service.NewPostService(db.DB).Create(service.PostInput{Title: "Platformless", Status: db.StatusPublished, UserID: 1})
	if err != nil {
		t.Fatalf("seed post: %v", err)
	}

	w := shareForm(t, api, post.ID, "myspace")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Could not determine the sharing platform") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}
