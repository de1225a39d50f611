package handler

import (
	"errors"
	"net/http"

	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

// SharePost announces a post on the requested social network. Sharing
// only ever reads the post; success or failure never changes its state.
func (a *API) SharePost(c *gin.Context) {
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

	postURL := a.absoluteURL(post.Path())

	switch c.PostForm("platform") {
	case "mastodon":
		if err := a.shares.ShareToMastodon(c.Request.Context(), post.Title, postURL); err != nil {
			respondError(c, http.StatusBadGateway, "Error sharing to Mastodon: "+err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Successfully shared to Mastodon!"})
	case "bluesky":
		if err := a.shares.ShareToBluesky(c.Request.Context(), post.Title, postURL); err != nil {
			respondError(c, http.StatusBadGateway, "Error sharing to Bluesky: "+err.Error())
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Successfully shared to Bluesky!"})
	default:
		respondError(c, http.StatusBadRequest, "Could not determine the sharing platform")
	}
}
