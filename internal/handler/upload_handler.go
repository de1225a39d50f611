package handler

import (
	"fmt"
	"image"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	_ "golang.org/x/image/webp"
)

// UploadImage stores a post image under a unique filename and reports
// its URL and pixel dimensions.
func (a *API) UploadImage(c *gin.Context) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image in request", "success": 0})
		return
	}

	contentType := file.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only image files are allowed", "success": 0})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image", "success": 0})
		return
	}
	cfg, _, err := image.DecodeConfig(src)
	src.Close()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unsupported image format", "success": 0})
		return
	}

	if err := os.MkdirAll(a.uploadDir, 0o755); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create upload directory", "success": 0})
		return
	}

	ext := filepath.Ext(file.Filename)
	newFilename := fmt.Sprintf("%s-%s%s", time.Now().Format("20060102"), uuid.New().String(), ext)
	filePath := filepath.Join(a.uploadDir, newFilename)

	if err := c.SaveUploadedFile(file, filePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file", "success": 0})
		return
	}

	fileURL := strings.TrimRight(a.uploadURL, "/") + "/" + newFilename
	c.JSON(http.StatusOK, gin.H{
		"success": 1,
		"message": "Upload complete",
		"data": gin.H{
			"filePath": fileURL,
			"url":      fileURL,
			"width":    cfg.Width,
			"height":   cfg.Height,
		},
	})
}
