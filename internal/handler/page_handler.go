package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

type aboutPayload struct {
	Content string `json:"content"`
}

// ShowAboutEditor renders the admin editor for the about page.
func (a *API) ShowAboutEditor(c *gin.Context) {
	var content string
	page, err := a.pages.GetBySlug("about")
	if err != nil && !errors.Is(err, service.ErrPageNotFound) {
		c.HTML(http.StatusInternalServerError, "about_edit.html", gin.H{
			"title": "About Me",
			"error": "Failed to load the about page",
		})
		return
	}
	if page != nil {
		content = page.Content
	}

	c.HTML(http.StatusOK, "about_edit.html", gin.H{
		"title":   "About Me",
		"content": content,
	})
}

// UpdateAboutPage saves the Markdown content of the about page.
func (a *API) UpdateAboutPage(c *gin.Context) {
	var payload aboutPayload
	if !bindJSON(c, &payload, "Invalid page payload") {
		return
	}

	page, err := a.pages.SaveAboutPage(payload.Content)
	if err != nil {
		if errors.Is(err, service.ErrPageContentMissing) {
			respondError(c, http.StatusBadRequest, "Page content is required")
			return
		}
		respondError(c, http.StatusInternalServerError, "Failed to save the about page")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "About page updated",
		"page": gin.H{
			"content":   page.Content,
			"updatedAt": page.UpdatedAt.Format(time.RFC3339),
		},
	})
}
