package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/markdown"
	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

// postView pairs a post with its on-demand list excerpt.
type postView struct {
	db.Post
	Summary string
}

// ShowHome renders the latest published posts. An invalid or
// out-of-range page number falls back to the first page.
func (a *API) ShowHome(c *gin.Context) {
	filter := service.PostFilter{
		Status:   db.StatusPublished,
		Page:     parsePageQuery(c),
		PerPage:  service.PublicPageSize,
		Fallback: service.FallbackFirst,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderListError(c, "home.html", "Latest Posts")
		return
	}

	data := a.listContext(result)
	data["title"] = "Latest Posts"
	c.HTML(http.StatusOK, "home.html", data)
}

// ShowPostDetail renders a published post with its Markdown body and
// Open Graph metadata.
func (a *API) ShowPostDetail(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"), true)
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	htmlContent, err := markdown.Render(post.Content)
	if err != nil {
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	data := a.commonContext()
	data["title"] = post.Title
	data["post"] = post
	data["content"] = htmlContent
	data["ogTitle"] = post.OGTitle
	data["ogDescription"] = post.OGDescription
	data["canonicalURL"] = a.absoluteURL(post.Path())
	data["year"] = time.Now().Year()
	c.HTML(http.StatusOK, "post_detail.html", data)
}

// ShowCategoryPosts lists published posts in one category. Out-of-range
// pages fall back to the last page.
func (a *API) ShowCategoryPosts(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	filter := service.PostFilter{
		Status:       db.StatusPublished,
		CategorySlug: category.Slug,
		Page:         parsePageQuery(c),
		PerPage:      service.PublicPageSize,
		Fallback:     service.FallbackLast,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderListError(c, "category_posts.html", category.Name)
		return
	}

	data := a.listContext(result)
	data["title"] = "Category: " + category.Name
	data["category"] = category
	c.HTML(http.StatusOK, "category_posts.html", data)
}

// ShowTagPosts lists published posts carrying one tag.
func (a *API) ShowTagPosts(c *gin.Context) {
	tag, err := a.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	filter := service.PostFilter{
		Status:   db.StatusPublished,
		TagSlug:  tag.Slug,
		Page:     parsePageQuery(c),
		PerPage:  service.PublicPageSize,
		Fallback: service.FallbackLast,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderListError(c, "tag_posts.html", tag.Name)
		return
	}

	data := a.listContext(result)
	data["title"] = "Tag: " + tag.Name
	data["tag"] = tag
	c.HTML(http.StatusOK, "tag_posts.html", data)
}

// ShowArchive lists published posts from a year, optionally narrowed to
// a month.
func (a *API) ShowArchive(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year <= 0 {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}

	month := 0
	if raw := c.Param("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 1 || month > 12 {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
	}

	filter := service.PostFilter{
		Status:   db.StatusPublished,
		Year:     year,
		Month:    month,
		Page:     parsePageQuery(c),
		PerPage:  service.PublicPageSize,
		Fallback: service.FallbackLast,
	}

	title := fmt.Sprintf("Archive: Posts from %d", year)
	if month > 0 {
		title = fmt.Sprintf("Archive: Posts from %s %d", time.Month(month).String(), year)
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderListError(c, "archive_posts.html", title)
		return
	}

	data := a.listContext(result)
	data["title"] = title
	data["archiveYear"] = year
	data["archiveMonth"] = month
	c.HTML(http.StatusOK, "archive_posts.html", data)
}

// SearchPosts searches published posts by substring across title,
// content and related category and tag names. An empty query returns no
// results.
func (a *API) SearchPosts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))

	if query == "" {
		data := a.commonContext()
		data["title"] = "Search"
		data["query"] = ""
		data["posts"] = []postView{}
		data["page"] = 1
		data["totalPages"] = 1
		data["year"] = time.Now().Year()
		c.HTML(http.StatusOK, "search_posts.html", data)
		return
	}

	filter := service.PostFilter{
		Status:   db.StatusPublished,
		Search:   query,
		Page:     parsePageQuery(c),
		PerPage:  service.PublicPageSize,
		Fallback: service.FallbackLast,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		a.renderListError(c, "search_posts.html", "Search")
		return
	}

	data := a.listContext(result)
	data["title"] = "Search"
	data["query"] = query
	c.HTML(http.StatusOK, "search_posts.html", data)
}

// ShowAbout renders the static about page.
func (a *API) ShowAbout(c *gin.Context) {
	data := a.commonContext()
	data["title"] = "About Me"
	data["year"] = time.Now().Year()

	page, err := a.pages.GetBySlug("about")
	if err != nil {
		c.HTML(http.StatusOK, "about.html", data)
		return
	}

	htmlContent, err := markdown.Render(page.Content)
	if err != nil {
		c.HTML(http.StatusOK, "about.html", data)
		return
	}

	data["title"] = page.Title
	data["page"] = page
	data["content"] = htmlContent
	c.HTML(http.StatusOK, "about.html", data)
}

func (a *API) listContext(result *service.PostListResult) gin.H {
	views := make([]postView, 0, len(result.Posts))
	for i := range result.Posts {
		views = append(views, postView{
			Post:    result.Posts[i],
			Summary: a.posts.Summary(&result.Posts[i]),
		})
	}

	data := a.commonContext()
	data["posts"] = views
	data["page"] = result.Page
	data["totalPages"] = result.TotalPages
	data["hasMore"] = result.Page < result.TotalPages
	data["year"] = time.Now().Year()
	return data
}

func (a *API) renderListError(c *gin.Context, template, title string) {
	data := a.commonContext()
	data["title"] = title
	data["error"] = "Failed to load posts"
	data["year"] = time.Now().Year()
	c.HTML(http.StatusInternalServerError, template, data)
}
