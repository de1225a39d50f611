package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/byteboard/internal/db"
	"github.com/gin-gonic/gin"
)

const (
	apiDefaultPageSize = 10
	apiMaxPageSize     = 100
)

type authorJSON struct {
	ID          uint   `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
}

type categoryJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type tagJSON struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type postListJSON struct {
	ID            uint           `json:"id"`
	Title         string         `json:"title"`
	Slug          string         `json:"slug"`
	Author        authorJSON     `json:"author"`
	Status        string         `json:"status"`
	Categories    []categoryJSON `json:"categories"`
	Tags          []tagJSON      `json:"tags"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	PublishedDate *time.Time     `json:"published_date"`
}

type postDetailJSON struct {
	postListJSON
	Content         string `json:"content"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Image           string `json:"image"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`
	Summary         string `json:"summary"`
	URL             string `json:"url"`
}

// apiPostOrdering whitelists the ordering values the posts endpoint
// accepts, mirrored onto the actual column names.
var apiPostOrdering = map[string]string{
	"published_date": "published_at",
	"created_at":     "created_at",
	"title":          "title",
}

// APIListPosts serves the read-only paginated post collection. Only
// published posts are visible.
func (a *API) APIListPosts(c *gin.Context) {
	page := parsePositiveInt(c.DefaultQuery("page", "1"), 1)
	pageSize := parsePositiveInt(c.DefaultQuery("page_size", "10"), apiDefaultPageSize)
	if pageSize > apiMaxPageSize {
		pageSize = apiMaxPageSize
	}

	query := a.db.Model(&db.Post{}).Where("status = ?", db.StatusPublished)

	if search := strings.TrimSpace(c.Query("search")); search != "" {
		like := "%" + search + "%"
		query = query.Where("title LIKE ? OR content LIKE ?", like, like)
	}

	orderBy := "published_at desc"
	if raw := strings.TrimSpace(c.Query("ordering")); raw != "" {
		direction := "asc"
		field := raw
		if strings.HasPrefix(raw, "-") {
			direction = "desc"
			field = raw[1:]
		}
		if column, ok := apiPostOrdering[field]; ok {
			orderBy = column + " " + direction
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	var posts []db.Post
	if err := query.
		Preload("Categories").
		Preload("Tags").
		Preload("User").
		Order(orderBy).
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&posts).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	results := make([]postListJSON, 0, len(posts))
	for i := range posts {
		results = append(results, postToListJSON(&posts[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"results":   results,
	})
}

// APIGetPost serves a single published post by slug, including content,
// SEO fields and the derived summary.
func (a *API) APIGetPost(c *gin.Context) {
	post, err := a.posts.GetBySlug(c.Param("slug"), true)
	if err != nil {
		respondError(c, http.StatusNotFound, "Post not found")
		return
	}

	detail := postDetailJSON{
		postListJSON:    postToListJSON(post),
		Content:         post.Content,
		MetaTitle:       post.MetaTitle,
		MetaDescription: post.MetaDescription,
		Image:           post.Image,
		OGTitle:         post.OGTitle,
		OGDescription:   post.OGDescription,
		Summary:         a.posts.Summary(post),
		URL:             a.absoluteURL(post.Path()),
	}

	c.JSON(http.StatusOK, detail)
}

// APIListCategories serves all categories, optionally filtered by a
// name substring.
func (a *API) APIListCategories(c *gin.Context) {
	query := a.db.Model(&db.Category{}).Order("name asc")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var categories []db.Category
	if err := query.Find(&categories).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	results := make([]categoryJSON, 0, len(categories))
	for _, category := range categories {
		results = append(results, categoryJSON{ID: category.ID, Name: category.Name, Slug: category.Slug})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

// APIGetCategory serves a single category by slug.
func (a *API) APIGetCategory(c *gin.Context) {
	category, err := a.categories.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Category not found")
		return
	}

	c.JSON(http.StatusOK, categoryJSON{ID: category.ID, Name: category.Name, Slug: category.Slug})
}

// APIListTags serves all tags, optionally filtered by a name substring.
func (a *API) APIListTags(c *gin.Context) {
	query := a.db.Model(&db.Tag{}).Order("name asc")
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	var tags []db.Tag
	if err := query.Find(&tags).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tags")
		return
	}

	results := make([]tagJSON, 0, len(tags))
	for _, tag := range tags {
		results = append(results, tagJSON{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}

	c.JSON(http.StatusOK, gin.H{"count": len(results), "results": results})
}

// APIGetTag serves a single tag by slug.
func (a *API) APIGetTag(c *gin.Context) {
	tag, err := a.tags.GetBySlug(c.Param("slug"))
	if err != nil {
		respondError(c, http.StatusNotFound, "Tag not found")
		return
	}

	c.JSON(http.StatusOK, tagJSON{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
}

func postToListJSON(post *db.Post) postListJSON {
	categories := make([]categoryJSON, 0, len(post.Categories))
	for _, category := range post.Categories {
		categories = append(categories, categoryJSON{ID: category.ID, Name: category.Name, Slug: category.Slug})
	}

	tags := make([]tagJSON, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, tagJSON{ID: tag.ID, Name: tag.Name, Slug: tag.Slug})
	}

	return postListJSON{
		ID:    post.ID,
		Title: post.Title,
		Slug:  post.Slug,
		Author: authorJSON{
			ID:          post.User.ID,
			Username:    post.User.Username,
			DisplayName: post.User.Name(),
		},
		Status:        post.Status,
		Categories:    categories,
		Tags:          tags,
		CreatedAt:     post.CreatedAt,
		UpdatedAt:     post.UpdatedAt,
		PublishedDate: post.PublishedAt,
	}
}
