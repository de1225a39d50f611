package router

import (
	"html/template"

	"github.com/byteboard/internal/config"
	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/handler"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

// Setup configures the Gin engine and all routes.
func Setup(cfg config.AppConfig) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("byteboard_session", store))

	r.SetFuncMap(template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"seq": func(n int) []int {
			out := make([]int, n)
			for i := range out {
				out[i] = i + 1
			}
			return out
		},
	})
	r.LoadHTMLGlob("web/template/**/*.html")

	r.Static("/static", "./web/static")

	api := handler.NewAPI(db.DB, cfg)

	// Public site
	r.GET("/", api.ShowHome)
	r.GET("/post/:slug", api.ShowPostDetail)
	r.GET("/category/:slug", api.ShowCategoryPosts)
	r.GET("/tag/:slug", api.ShowTagPosts)
	r.GET("/archive/:year", api.ShowArchive)
	r.GET("/archive/:year/:month", api.ShowArchive)
	r.GET("/search", api.SearchPosts)
	r.GET("/about", api.ShowAbout)
	r.GET("/feed/rss", api.ShowRSSFeed)
	r.GET("/feed/atom", api.ShowAtomFeed)
	r.GET("/sitemap.xml", api.ShowSitemap)

	// Read-only REST API
	v1 := r.Group("/api/v1")
	{
		v1.GET("/posts", api.APIListPosts)
		v1.GET("/posts/:slug", api.APIGetPost)
		v1.GET("/categories", api.APIListCategories)
		v1.GET("/categories/:slug", api.APIGetCategory)
		v1.GET("/tags", api.APIListTags)
		v1.GET("/tags/:slug", api.APIGetTag)
	}

	// Admin console
	admin := r.Group("/admin")
	{
		admin.GET("/login", handler.ShowLoginPage)
		admin.POST("/login", handler.Login)
		admin.GET("/logout", handler.Logout)

		auth := admin.Group("")
		auth.Use(handler.AuthRequired())
		{
			auth.GET("/dashboard", handler.ShowDashboard)
			auth.GET("/about", api.ShowAboutEditor)

			adminAPI := auth.Group("/api")
			{
				adminAPI.GET("/posts", api.GetPosts)
				adminAPI.GET("/posts/:id", api.GetPost)
				adminAPI.POST("/posts", api.CreatePost)
				adminAPI.PUT("/posts/:id", api.UpdatePost)
				adminAPI.DELETE("/posts/:id", api.DeletePost)
				adminAPI.POST("/posts/:id/publish", api.PublishPost)
				adminAPI.POST("/posts/:id/unpublish", api.UnpublishPost)
				adminAPI.POST("/posts/:id/share", api.SharePost)

				adminAPI.GET("/categories", api.GetCategories)
				adminAPI.POST("/categories", api.CreateCategory)
				adminAPI.PUT("/categories/:id", api.UpdateCategory)
				adminAPI.DELETE("/categories/:id", api.DeleteCategory)

				adminAPI.GET("/tags", api.GetTags)
				adminAPI.POST("/tags", api.CreateTag)
				adminAPI.PUT("/tags/:id", api.UpdateTag)
				adminAPI.DELETE("/tags/:id", api.DeleteTag)

				adminAPI.PUT("/pages/about", api.UpdateAboutPage)

				adminAPI.POST("/upload", api.UploadImage)
			}
		}
	}

	return r
}
