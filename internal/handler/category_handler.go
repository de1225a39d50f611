package handler

import (
	"errors"
	"net/http"

	"github.com/byteboard/internal/service"
	"github.com/gin-gonic/gin"
)

type categoryRequest struct {
	Name string `json:"name" binding:"required"`
}

// GetCategories lists all categories.
func (a *API) GetCategories(c *gin.Context) {
	categories, err := a.categories.List()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list categories")
		return
	}

	response := make([]gin.H, 0, len(categories))
	for _, category := range categories {
		response = append(response, gin.H{
			"id":   category.ID,
			"name": category.Name,
			"slug": category.Slug,
		})
	}

	c.JSON(http.StatusOK, gin.H{"categories": response})
}

// CreateCategory creates a category; the slug is derived once from the name.
func (a *API) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if !bindJSON(c, &req, "Category name is required") {
		return
	}

	category, err := a.categories.Create(req.Name)
	if err != nil {
		if errors.Is(err, service.ErrCategoryExists) {
			respondError(c, http.StatusBadRequest, "Category already exists")
			return
		}
		respondError(c, http.StatusBadRequest, "Failed to create category")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category created", "category": category})
}

// UpdateCategory renames a category without touching its slug.
func (a *API) UpdateCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	var req categoryRequest
	if !bindJSON(c, &req, "Category name is required") {
		return
	}

	category, err := a.categories.Rename(id, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryExists):
			respondError(c, http.StatusBadRequest, "Category name is already taken")
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "Category not found")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to update category")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

// DeleteCategory removes a category that no post references.
func (a *API) DeleteCategory(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid category ID")
		return
	}

	if err := a.categories.Delete(id); err != nil {
		switch {
		case errors.Is(err, service.ErrCategoryNotFound):
			respondError(c, http.StatusNotFound, "Category not found")
		case errors.Is(err, service.ErrCategoryInUse):
			respondError(c, http.StatusBadRequest, "Category is still used by posts")
		default:
			respondError(c, http.StatusInternalServerError, "Failed to delete category")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
