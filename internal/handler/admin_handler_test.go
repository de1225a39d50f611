package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/byteboard/internal/db"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"golang.org/x/crypto/bcrypt"
)

type stubHTMLRender struct {
	lastName string
	lastData interface{}
}

type stubHTMLInstance struct {
	render *stubHTMLRender
	name   string
	data   interface{}
}

func (r *stubHTMLRender) Instance(name string, data interface{}) render.Render {
	r.lastName = name
	r.lastData = data
	return &stubHTMLInstance{render: r, name: name, data: data}
}

func (r *stubHTMLInstance) Render(http.ResponseWriter) error {
	return nil
}

func (r *stubHTMLInstance) WriteContentType(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
}

func loginTestRouter() (*gin.Engine, *stubHTMLRender) {
	renderer := &stubHTMLRender{}
	router := gin.New()
	router.HTMLRender = renderer
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("byteboard_session", store))
	router.POST("/admin/login", Login)
	router.GET("/admin/dashboard", AuthRequired(), ShowDashboard)
	return router, renderer
}

func seedAdminUser(t *testing.T, password string) {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if err := db.DB.Create(&db.User{Username: "admin", Password: string(hashed)}).Error; err != nil {
		t.Fatalf("seed admin user: %v", err)
	}
}

func postLoginForm(router *gin.Engine, username, password string) *httptest.ResponseRecorder {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLoginSuccessRedirectsToDashboard(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	seedAdminUser(t, "correct horse")
	router, _ := loginTestRouter()

	w := postLoginForm(router, "admin", "correct horse")
	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/admin/dashboard" {
		t.Fatalf("unexpected redirect target %q", got)
	}
	if len(w.Result().Cookies()) == 0 {
		t.Fatalf("expected a session cookie")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	seedAdminUser(t, "correct horse")
	router, renderer := loginTestRouter()

	w := postLoginForm(router, "admin", "wrong")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", w.Code)
	}
	if renderer.lastName != "login_error.html" {
		t.Fatalf("expected login_error.html, got %s", renderer.lastName)
	}
}

func TestAuthRequiredRedirectsAnonymous(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	router, _ := loginTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", w.Code)
	}
	if got := w.Header().Get("Location"); got != "/admin/login" {
		t.Fatalf("unexpected redirect target %q", got)
	}
}

func TestDashboardReachableAfterLogin(t *testing.T) {
	_, cleanup := setupTestDB(t)
	defer cleanup()

	seedAdminUser(t, "correct horse")
	router, renderer := loginTestRouter()

	login := postLoginForm(router, "admin", "correct horse")

	req := httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil)
	for _, c := range login.Result().Cookies() {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if renderer.lastName != "dashboard.html" {
		t.Fatalf("expected dashboard.html, got %s", renderer.lastName)
	}
}
