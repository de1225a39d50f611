package handler

import (
	"errors"
	"net/http"

	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

type tagRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetTags lists all tags.
func (a *API) GetTags(c *gin.Context) {
	tags, err := a.tags.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tags")
		return
	}

	response := make([]gin.H, 0, len(tags))
	for _, tag := range tags {
		response = append(response, gin.H{
			"id":   tag.ID,
			"name": tag.Name,
			"slug": tag.Slug,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tags": response})
}

// CreateTag creates a tag; the slug is derived once from the name.
func (a *API) CreateTag(c *gin.Context) {
	var req tagRequest
	if !bindJSON(c, &req, "Tag name is required") {
		return
	}

	tag, err := a.tags.Create(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrTagExists) {
			respondError(c, http.StatusBadRequest, "Tag already exists")
			return
		}
		respondError(c, http.StatusBadRequest, "Failed to create tag")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag created", "tag": tag})
}

// UpdateTag renames a tag without touching its slug.
func (a *API) UpdateTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	var req tagRequest
	if !bindJSON(c, &req, "Tag name is required") {
		return
	}

	tag, err := a.tags.Rename(id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTagExists):
			respondError(c, http.StatusBadRequest, "Tag name is already taken")
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "Tag not found")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to update tag")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag updated", "tag": tag})
}

// DeleteTag removes a tag that no post references.
func (a *API) DeleteTag(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid tag ID")
		return
	}

	if err := a.tags.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrTagNotFound):
			respondError(c, http.StatusNotFound, "Tag not found")
		case errors.Is(err, service.ErrTagInUse):
			respondError(c, http.StatusBadRequest, "Tag is still used by posts")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to delete tag")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Tag deleted"})
}
