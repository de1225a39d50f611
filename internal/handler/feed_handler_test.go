package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

func seedFeedPosts(t *testing.T, api *API, count int) {
	t.Helper()

	posts := service.NewPostService(api.DB())
	for i := 0; i < count; i++ {
		if _, err := posts.Create(service.PostInput{
			Title:   "Feed Post " + string(rune('A'+i)),
			Content: strings.Repeat("long feed content ", 20),
			Status:  db.StatusPublished,
			UserID:  1,
		}); err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}
}

func feedGet(t *testing.T, api *API, register func(*gin.Engine), target string) *httptest.ResponseRecorder {
	t.Helper()

	router := gin.New()
	register(router)
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestShowRSSFeed(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedFeedPosts(t, api, 12)

	w := feedGet(t, api, func(r *gin.Engine) { r.GET("/feed/rss", api.ShowRSSFeed) }, "/feed/rss")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/rss+xml") {
		t.Fatalf("unexpected content type %q", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, `<rss version="2.0">`) {
		t.Fatalf("missing rss element: %s", body)
	}
	if !strings.Contains(body, "<title>Byte Board Blog</title>") {
		t.Fatalf("missing channel title: %s", body)
	}
	if got := strings.Count(body, "<item>"); got != feedItemLimit {
		t.Fatalf("expected %d items, got %d", feedItemLimit, got)
	}
	// The newest post is always among the ten items.
	if !strings.Contains(body, "https://blog.example.com/post/feed-post-l/") {
		t.Fatalf("missing absolute post link: %s", body)
	}
	// Long content gets cut to the feed description length.
	if !strings.Contains(body, "...") {
		t.Fatalf("expected truncated descriptions: %s", body)
	}
}

func TestShowAtomFeed(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedFeedPosts(t, api, 2)

	w := feedGet(t, api, func(r *gin.Engine) { r.GET("/feed/atom", api.ShowAtomFeed) }, "/feed/atom")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/atom+xml") {
		t.Fatalf("unexpected content type %q", got)
	}

	body := w.Body.String()
	if !strings.Contains(body, `xmlns="http://www.w3.org/2005/Atom"`) {
		t.Fatalf("missing atom namespace: %s", body)
	}
	if got := strings.Count(body, "<entry>"); got != 2 {
		t.Fatalf("expected 2 entries, got %d", got)
	}
	if !strings.Contains(body, `rel="self"`) {
		t.Fatalf("missing self link: %s", body)
	}
}

func TestShowSitemap(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	posts := service.NewPostService(api.DB())
	if _, err := posts.Create(service.PostInput{Title: "Mapped Post", Status: db.StatusPublished, UserID: 1}); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if _, err := posts.Create(service.PostInput{Title: "Hidden Draft", UserID: 1}); err != nil {
		t.Fatalf("seed draft: %v", err)
	}
	if _, err := service.NewCategoryService(api.DB()).Create("Tech"); err != nil {
		t.Fatalf("seed category: %v", err)
	}
	if _, err := service.NewTagService(api.DB()).Create("golang"); err != nil {
		t.Fatalf("seed tag: %v", err)
	}

	w := feedGet(t, api, func(r *gin.Engine) { r.GET("/sitemap.xml", api.ShowSitemap) }, "/sitemap.xml")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`) {
		t.Fatalf("missing sitemap namespace: %s", body)
	}

	checks := []struct {
		loc      string
		priority string
	}{
		{"https://blog.example.com/", "0.5"},
		{"https://blog.example.com/post/mapped-post/", "0.9"},
		{"https://blog.example.com/category/tech/", "0.8"},
		{"https://blog.example.com/tag/golang/", "0.7"},
	}
	for _, check := range checks {
		if !strings.Contains(body, "<loc>"+check.loc+"</loc>") {
			t.Fatalf("missing loc %s in %s", check.loc, body)
		}
		if !strings.Contains(body, "<priority>"+check.priority+"</priority>") {
			t.Fatalf("missing priority %s in %s", check.priority, body)
		}
	}
	if strings.Contains(body, "hidden-draft") {
		t.Fatalf("draft leaked into sitemap: %s", body)
	}
}
