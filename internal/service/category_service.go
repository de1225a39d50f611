package service

import (
	"errors"
	"strings"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrCategoryExists   = errors.New("category already exists")
	ErrCategoryInUse    = errors.New("category is associated with posts")
	ErrCategoryNotFound = errors.New("category not found")
)

// CategoryService wraps category related database operations.
type CategoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a CategoryService instance.
func NewCategoryService(gdb *gorm.DB) *CategoryService {
	return &CategoryService{db: gdb}
}

// List returns all categories ordered by name.
func (s *CategoryService) List() ([]db.Category, error) {
	var categories []db.Category
	if err := s.db.Order("name asc").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetBySlug fetches a category by its slug.
func (s *CategoryService) GetBySlug(categorySlug string) (*db.Category, error) {
	var category db.Category
	if err := s.db.Where("slug = ?", categorySlug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// Create inserts a new category, deriving its slug from the name. The
// slug is fixed from this point on.
func (s *CategoryService) Create(name string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	categorySlug := slug.Make(name)
	if categorySlug == "" {
		return nil, errors.New("category name is required")
	}

	var existing db.Category
	if err := s.db.Where("name = ? OR slug = ?", name, categorySlug).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category := db.Category{Name: name, Slug: categorySlug}
	if err := s.db.Create(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return &category, nil
}

// Rename changes the category name. The slug stays as assigned at
// creation time.
func (s *CategoryService) Rename(id uint, name string) (*db.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("category name is required")
	}

	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	var existing db.Category
	if err := s.db.Where("name = ? AND id <> ?", name, id).First(&existing).Error; err == nil {
		return nil, ErrCategoryExists
	}

	category.Name = name
	if err := s.db.Save(&category).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrCategoryExists
		}
		return nil, err
	}

	return &category, nil
}

// Delete removes a category unless posts still reference it.
func (s *CategoryService) Delete(id uint) error {
	var category db.Category
	if err := s.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}

	count, err := s.postUsageCount(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrCategoryInUse
	}

	return s.db.Unscoped().Delete(&category).Error
}

func (s *CategoryService) postUsageCount(id uint) (int64, error) {
	var count int64
	if err := s.db.Model(&db.Post{}).
		Joins("JOIN post_categories ON posts.id = post_categories.post_id").
		Where("post_categories.category_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// isUniqueViolation reports whether err is a storage-level uniqueness
// constraint failure. The unique index is the authority for slug and
// name collisions under concurrent creation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
