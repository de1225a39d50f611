package handler

import (
	"strings"

	"github.com/byteboard/internal/config"
	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db         *gorm.DB
	posts      *service.PostService
	categories *service.CategoryService
	tags       *service.TagService
	pages      *service.PageService
	shares     *service.ShareService
	baseURL    string
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig) *API {
	return &API{
		db:         gdb,
		posts:      service.NewPostService(gdb),
		categories: service.NewCategoryService(gdb),
		tags:       service.NewTagService(gdb),
		pages:      service.NewPageService(gdb),
		shares: service.NewShareService(
			cfg.MastodonBaseURL,
			cfg.MastodonToken,
			cfg.BlueskyPDSURL,
			cfg.BlueskyHandle,
			cfg.BlueskyAppPassword,
		),
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.SiteBaseURL), "/"),
		uploadDir: cfg.UploadDir,
		uploadURL: cfg.UploadURLPath,
	}
}

// DB exposes the underlying gorm instance for legacy paths.
func (a *API) DB() *gorm.DB {
	return a.db
}

// absoluteURL joins the configured site base URL with a relative path.
func (a *API) absoluteURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return a.baseURL + path
}

// commonContext returns the sidebar data shared by every public view:
// all categories, all tags and the archive dates. Lookup failures leave
// the sidebar empty rather than failing the page.
func (a *API) commonContext() gin.H {
	categories, err := a.categories.List()
	if err != nil {
		categories = nil
	}

	tags, err := a.tags.List()
	if err != nil {
		tags = nil
	}

	archiveDates, err := a.posts.ArchiveDates()
	if err != nil {
		archiveDates = nil
	}

	return gin.H{
		"categories":   categories,
		"tags":         tags,
		"archiveDates": archiveDates,
	}
}
