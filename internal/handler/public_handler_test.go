package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

func publicTestRouter(api *API) (*gin.Engine, *stubHTMLRender) {
	renderer := &stubHTMLRender{}
	router := gin.New()
	router.HTMLRender = renderer
	router.GET("/", api.ShowHome)
	router.GET("/post/:slug", api.ShowPostDetail)
	router.GET("/category/:slug", api.ShowCategoryPosts)
	router.GET("/tag/:slug", api.ShowTagPosts)
	router.GET("/archive/:year", api.ShowArchive)
	router.GET("/archive/:year/:month", api.ShowArchive)
	router.GET("/search", api.SearchPosts)
	return router, renderer
}

func publicGet(router *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedPublishedPosts(t *testing.T, api *API, count int) {
	t.Helper()

	posts := service.NewPostService(api.DB())
	for i := 1; i <= count; i++ {
		if _, err := posts.Create(service.PostInput{
			Title:   fmt.Sprintf("Public Post %d", i),
			Content: "Body of the post.",
			Status:  db.StatusPublished,
			UserID:  1,
		}); err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}
}

func renderedData(t *testing.T, renderer *stubHTMLRender) gin.H {
	t.Helper()

	data, ok := renderer.lastData.(gin.H)
	if !ok {
		t.Fatalf("expected gin.H payload, got %T", renderer.lastData)
	}
	return data
}

func TestShowHomePaginates(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPosts(t, api, 12)
	router, renderer := publicTestRouter(api)

	w := publicGet(router, "/?page=2")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if renderer.lastName != "home.html" {
		t.Fatalf("expected home.html, got %s", renderer.lastName)
	}

	data := renderedData(t, renderer)
	if data["page"] != 2 || data["totalPages"] != 3 {
		t.Fatalf("pagination wrong: page=%v totalPages=%v", data["page"], data["totalPages"])
	}
	views, ok := data["posts"].([]postView)
	if !ok || len(views) != 5 {
		t.Fatalf("expected 5 posts on page 2, got %T len=%d", data["posts"], len(views))
	}
}

func TestShowHomeClampsToFirstPage(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	seedPublishedPosts(t, api, 12)
	router, renderer := publicTestRouter(api)

	for _, target := range []string{"/?page=99", "/?page=banana"} {
		w := publicGet(router, target)
		if w.Code != http.StatusOK {
			t.Fatalf("%s: expected status 200, got %d", target, w.Code)
		}
		data := renderedData(t, renderer)
		if data["page"] != 1 {
			t.Fatalf("%s: expected clamp to page 1, got %v", target, data["page"])
		}
	}
}

func TestShowCategoryPostsClampsToLastPage(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	category, err := service.NewCategoryService(api.DB()).Create("Tech")
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	posts := service.NewPostService(api.DB())
	for i := 1; i <= 12; i++ {
		if _, err := posts.Create(service.PostInput{
			Title:       fmt.Sprintf("Tech Post %d", i),
			Status:      db.StatusPublished,
			UserID:      1,
			CategoryIDs: []uint{category.ID},
		}); err != nil {
			t.Fatalf("seed post %d: %v", i, err)
		}
	}

	router, renderer := publicTestRouter(api)

	w := publicGet(router, "/category/tech?page=99")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	data := renderedData(t, renderer)
	if data["page"] != 3 {
		t.Fatalf("expected clamp to last page 3, got %v", data["page"])
	}

	if w := publicGet(router, "/category/missing"); w.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 for unknown category, got %d", w.Code)
	}
}

func TestShowPostDetail(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	posts := service.NewPostService(api.DB())
	if _, err := posts.Create(service.PostInput{
		Title:   "Visible Post",
		Content: "**bold** body",
		Status:  db.StatusPublished,
		UserID:  1,
	}); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if _, err := posts.Create(service.PostInput{Title: "Hidden Draft", UserID: 1}); err != nil {
		t.Fatalf("seed draft: %v", err)
	}

	router, renderer := publicTestRouter(api)

	w := publicGet(router, "/post/visible-post")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if renderer.lastName != "post_detail.html" {
		t.Fatalf("expected post_detail.html, got %s", renderer.lastName)
	}
	data := renderedData(t, renderer)
	if data["ogTitle"] != "Visible Post" {
		t.Fatalf("og title missing, got %v", data["ogTitle"])
	}
	if data["canonicalURL"] != "https://blog.example.com/post/visible-post/" {
		t.Fatalf("canonical URL wrong: %v", data["canonicalURL"])
	}

	if w := publicGet(router, "/post/hidden-draft"); w.Code != http.StatusNotFound {
		t.Fatalf("draft should 404 publicly, got %d", w.Code)
	}
	if w := publicGet(router, "/post/nope"); w.Code != http.StatusNotFound {
		t.Fatalf("unknown slug should 404, got %d", w.Code)
	}
}

func TestSearchPosts(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	posts := service.NewPostService(api.DB())
	if _, err := posts.Create(service.PostInput{Title: "Golang Patterns", Status: db.StatusPublished, UserID: 1}); err != nil {
		t.Fatalf("seed post: %v", err)
	}
	if _, err := posts.Create(service.PostInput{Title: "Cooking Pasta", Status: db.StatusPublished, UserID: 1}); err != nil {
		t.Fatalf("seed post: %v", err)
	}

	router, renderer := publicTestRouter(api)

	w := publicGet(router, "/search?q=golang")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	data := renderedData(t, renderer)
	views, ok := data["posts"].([]postView)
	if !ok || len(views) != 1 || views[0].Title != "Golang Patterns" {
		t.Fatalf("unexpected search results: %+v", data["posts"])
	}

	// An empty query renders the page with no results.
	w = publicGet(router, "/search?q=")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	data = renderedData(t, renderer)
	views, ok = data["posts"].([]postView)
	if !ok || len(views) != 0 {
		t.Fatalf("empty query should return no results, got %+v", data["posts"])
	}
}

func TestShowArchive(t *testing.T) {
	api, cleanup := setupTestDB(t)
	defer cleanup()

	stamp := func(m int) db.Post {
		ts := time.Date(2025, time.Month(m), 15, 12, 0, 0, 0, time.UTC)
		return db.Post{
			Title:       fmt.Sprintf("Post %d", m),
			Slug:        fmt.Sprintf("post-%d", m),
			UserID:      1,
			Status:      db.StatusPublished,
			PublishedAt: &ts,
		}
	}
	for _, m := range []int{1, 3} {
		post := stamp(m)
		if err := db.DB.Create(&post).Error; err != nil {
			t.Fatalf("seed post: %v", err)
		}
	}

	router, renderer := publicTestRouter(api)

	w := publicGet(router, "/archive/2025")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	data := renderedData(t, renderer)
	if views := data["posts"].([]postView); len(views) != 2 {
		t.Fatalf("expected 2 posts for the year, got %d", len(views))
	}
	if data["title"] != "Archive: Posts from 2025" {
		t.Fatalf("unexpected title %v", data["title"])
	}

	w = publicGet(router, "/archive/2025/01")
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	data = renderedData(t, renderer)
	if views := data["posts"].([]postView); len(views) != 1 || views[0].Title != "Post 1" {
		t.Fatalf("unexpected month results: %+v", data["posts"])
	}
	if data["title"] != "Archive: Posts from January 2025" {
		t.Fatalf("unexpected title %v", data["title"])
	}

	if w := publicGet(router, "/archive/2025/13"); w.Code != http.StatusNotFound {
		t.Fatalf("month 13 should 404, got %d", w.Code)
	}
}
