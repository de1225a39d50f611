package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

type postRequest struct {
	Title           string `json:"title" binding:"required"`
	Slug            string `json:"slug"`
	Content         string `json:"content"`
	Status          string `json:"status"`
	CategoryIDs     []uint `json:"category_ids"`
	TagIDs          []uint `json:"tag_ids"`
	MetaTitle       string `json:"meta_title"`
	MetaDescription string `json:"meta_description"`
	Image           string `json:"image"`
	OGTitle         string `json:"og_title"`
	OGDescription   string `json:"og_description"`
}

// GetPosts lists posts for the admin table with status/search filters.
func (a *API) GetPosts(c *gin.Context) {
	filter := service.PostFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Status:   strings.TrimSpace(c.Query("status")),
		Page:     parsePageQuery(c),
		PerPage:  parsePositiveInt(c.DefaultQuery("per_page", "10"), 10),
		Fallback: service.FallbackFirst,
	}

	result, err := a.posts.List(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list posts")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"posts":          result.Posts,
		"total":          result.Total,
		"publishedCount": result.PublishedCount,
		"draftCount":     result.DraftCount,
		"page":           result.Page,
		"totalPages":     result.TotalPages,
	})
}

// GetPost returns a single post for editing.
func (a *API) GetPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := a.posts.Get(id)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			respondError(c, http.StatusNotFound, "Post not found")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to load post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// CreatePost creates a new post owned by the logged-in author.
func (a *API) CreatePost(c *gin.Context) {
	var req postRequest
	if !bindJSON(c, &req, "Post title is required") {
		return
	}

	post, err := a.posts.Create(service.PostInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Content:         req.Content,
		Status:          req.Status,
		UserID:          sessionUserID(c),
		CategoryIDs:     req.CategoryIDs,
		TagIDs:          req.TagIDs,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Image:           req.Image,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post created", "post": post})
}

// UpdatePost edits an existing post. Status is not touched here; the
// publish and unpublish endpoints own that transition.
func (a *API) UpdatePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	var req postRequest
	if !bindJSON(c, &req, "Post title is required") {
		return
	}

	post, err := a.posts.Update(id, service.PostInput{
		Title:           req.Title,
		Content:         req.Content,
		CategoryIDs:     req.CategoryIDs,
		TagIDs:          req.TagIDs,
		MetaTitle:       req.MetaTitle,
		MetaDescription: req.MetaDescription,
		Image:           req.Image,
		OGTitle:         req.OGTitle,
		OGDescription:   req.OGDescription,
	})
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post updated", "post": post})
}

// PublishPost moves a post to the published state.
func (a *API) PublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := a.posts.Publish(id)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post published", "post": post})
}

// UnpublishPost returns a post to draft.
func (a *API) UnpublishPost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	post, err := a.posts.Unpublish(id)
	if err != nil {
		respondPostError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post unpublished", "post": post})
}

// DeletePost removes a post.
func (a *API) DeletePost(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid post ID")
		return
	}

	if err := a.posts.Delete(id); err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to delete post")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Post deleted"})
}

func respondPostError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "Post not found")
	case errors.Is(err, service.ErrTitleRequired):
		respondError(c, http.StatusBadRequest, "Post title is required")
	case errors.Is(err, service.ErrSlugTaken):
		respondError(c, http.StatusBadRequest, "Post slug is already taken")
	case errors.Is(err, service.ErrAuthorRequired):
		respondError(c, http.StatusBadRequest, "Post author is required")
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, "Invalid post status")
	case errors.Is(err, service.ErrFieldTooLong):
		respondError(c, http.StatusBadRequest, "SEO field exceeds its length limit")
	case errors.Is(err, service.ErrCategoryNotFound):
		respondError(c, http.StatusBadRequest, "Unknown category")
	case errors.Is(err, service.ErrTagNotFound):
		respondError(c, http.StatusBadRequest, "Unknown tag")
	default:
		respondError(c, http.StatusInternalServerError, "Failed to save post")
	}
}
