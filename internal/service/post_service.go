package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/byteboard/internal/db"
	"github.com/byteboard/internal/markdown"
	"github.com/byteboard/internal/slug"
	"gorm.io/gorm"
)

var (
	ErrPostNotFound   = errors.New("post not found")
	ErrTitleRequired  = errors.New("post title is required")
	ErrSlugTaken      = errors.New("post slug is already taken")
	ErrAuthorRequired = errors.New("post author is required")
	ErrInvalidStatus  = errors.New("invalid post status")
	ErrFieldTooLong   = errors.New("seo field exceeds its length limit")
)

const (
	ogTitleLimit       = 60
	ogDescriptionLimit = 160
	summaryWordLimit   = 30

	// PublicPageSize is the page size of all public list views.
	PublicPageSize = 5
)

// PageFallback selects how an out-of-range page number is resolved.
type PageFallback int

const (
	// FallbackFirst clamps any invalid page number to the first page.
	FallbackFirst PageFallback = iota
	// FallbackLast clamps non-numeric page numbers to the first page
	// and past-the-end page numbers to the last page.
	FallbackLast
)

// PostService wraps post related database operations and owns the
// draft/published lifecycle.
type PostService struct {
	db *gorm.DB
}

// NewPostService creates a PostService instance.
func NewPostService(gdb *gorm.DB) *PostService {
	return &PostService{db: gdb}
}

// PostFilter describes filters for listing posts.
type PostFilter struct {
	Search       string
	Status       string
	CategorySlug string
	TagSlug      string
	Year         int
	Month        int
	Page         int
	PerPage      int
	Fallback     PageFallback
}

// PostListResult aggregates paginated list data and counters.
type PostListResult struct {
	Posts          []db.Post
	Total          int64
	PublishedCount int64
	DraftCount     int64
	TotalPages     int
	Page           int
	PerPage        int
}

// PostInput represents fields accepted when creating or updating a post.
// Status is only honored at creation time; later transitions go through
// Publish and Unpublish.
type PostInput struct {
	Title           string
	Slug            string
	Content         string
	Status          string
	UserID          uint
	CategoryIDs     []uint
	TagIDs          []uint
	MetaTitle       string
	MetaDescription string
	Image           string
	OGTitle         string
	OGDescription   string
}

// ArchiveYear groups the months of a year that have published posts.
type ArchiveYear struct {
	Year   int
	Months []int
}

// Get fetches a post by id with relations preloaded.
func (s *PostService) Get(id uint) (*db.Post, error) {
	var post db.Post
	if err := s.db.Preload("Categories").Preload("Tags").Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// GetBySlug fetches a post by slug. With publishedOnly set, drafts are
// reported as not found.
func (s *PostService) GetBySlug(postSlug string, publishedOnly bool) (*db.Post, error) {
	query := s.db.Preload("Categories").Preload("Tags").Preload("User").Where("slug = ?", postSlug)
	if publishedOnly {
		query = query.Where("status = ?", db.StatusPublished)
	}

	var post db.Post
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return &post, nil
}

// Create persists a new post. The slug is derived from the title unless
// supplied explicitly, OG fields are filled for anything left empty, and
// a post created as published gets its publication time stamped.
func (s *PostService) Create(input PostInput) (*db.Post, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	status := strings.TrimSpace(input.Status)
	if status == "" {
		status = db.StatusDraft
	}
	if status != db.StatusDraft && status != db.StatusPublished {
		return nil, ErrInvalidStatus
	}

	if err := validateSEOInput(input); err != nil {
		return nil, err
	}

	if input.UserID == 0 {
		return nil, ErrAuthorRequired
	}
	var author db.User
	if err := s.db.First(&author, input.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAuthorRequired
		}
		return nil, err
	}

	postSlug := strings.TrimSpace(input.Slug)
	if postSlug == "" {
		postSlug = slug.Make(title)
	}
	if postSlug == "" {
		return nil, ErrTitleRequired
	}

	var existing db.Post
	if err := s.db.Where("slug = ?", postSlug).First(&existing).Error; err == nil {
		return nil, ErrSlugTaken
	}

	post := db.Post{
		Title:           title,
		Slug:            postSlug,
		UserID:          input.UserID,
		Content:         input.Content,
		Status:          status,
		MetaTitle:       strings.TrimSpace(input.MetaTitle),
		MetaDescription: strings.TrimSpace(input.MetaDescription),
		Image:           strings.TrimSpace(input.Image),
		OGTitle:         strings.TrimSpace(input.OGTitle),
		OGDescription:   strings.TrimSpace(input.OGDescription),
	}

	if status == db.StatusPublished {
		now := time.Now()
		post.PublishedAt = &now
	}

	post.OGTitle, post.OGDescription = deriveOGFields(&post)

	return s.saveWithRelations(&post, input.CategoryIDs, input.TagIDs)
}

// Update applies edits to an existing post. The slug is never
// regenerated, even when the title changes, and the status is left
// untouched; OG derivation runs again for fields left empty.
func (s *PostService) Update(id uint, input PostInput) (*db.Post, error) {
	var existing db.Post
	if err := s.db.First(&existing, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}

	if err := validateSEOInput(input); err != nil {
		return nil, err
	}

	existing.Title = title
	existing.Content = input.Content
	existing.MetaTitle = strings.TrimSpace(input.MetaTitle)
	existing.MetaDescription = strings.TrimSpace(input.MetaDescription)
	existing.Image = strings.TrimSpace(input.Image)
	existing.OGTitle = strings.TrimSpace(input.OGTitle)
	existing.OGDescription = strings.TrimSpace(input.OGDescription)
	existing.OGTitle, existing.OGDescription = deriveOGFields(&existing)

	return s.saveWithRelations(&existing, input.CategoryIDs, input.TagIDs)
}

// Publish moves a post to the published state. The publication time is
// stamped only when absent, so publishing twice keeps the original
// timestamp.
func (s *PostService) Publish(id uint) (*db.Post, error) {
	post, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"status": db.StatusPublished}
	if post.PublishedAt == nil {
		updates["published_at"] = time.Now()
	}

	if err := s.db.Model(&db.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Unpublish returns a post to draft and clears the publication time
// unconditionally. A later publish stamps a fresh timestamp.
func (s *PostService) Unpublish(id uint) (*db.Post, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"status":       db.StatusDraft,
		"published_at": nil,
	}

	if err := s.db.Model(&db.Post{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Summary renders the 30 word plain-text excerpt used on list pages. It
// is computed on demand and never persisted.
func (s *PostService) Summary(post *db.Post) string {
	return markdown.SummarizeWords(post.Content, summaryWordLimit)
}

// Delete removes a post by id.
func (s *PostService) Delete(id uint) error {
	return s.db.Delete(&db.Post{}, id).Error
}

// List provides paginated posts with aggregated counters based on
// filters. Out-of-range pages are clamped per the filter's fallback
// policy instead of erroring.
func (s *PostService) List(filter PostFilter) (*PostListResult, error) {
	result := &PostListResult{PerPage: filter.PerPage}
	if result.PerPage <= 0 {
		result.PerPage = 10
	}

	modelQuery := s.applyFilters(s.db.Model(&db.Post{}), filter, true)
	if err := modelQuery.Count(&result.Total).Error; err != nil {
		return nil, err
	}

	if result.Total == 0 {
		result.TotalPages = 1
	} else {
		result.TotalPages = int((result.Total + int64(result.PerPage) - 1) / int64(result.PerPage))
	}

	result.Page = resolvePage(filter.Page, result.TotalPages, filter.Fallback)
	offset := (result.Page - 1) * result.PerPage

	orderBy := "posts.created_at desc"
	if strings.EqualFold(filter.Status, db.StatusPublished) {
		orderBy = "posts.published_at desc, posts.id desc"
	}

	var posts []db.Post
	dataQuery := s.db.Model(&db.Post{}).
		Preload("Categories").
		Preload("Tags").
		Preload("User")
	dataQuery = s.applyFilters(dataQuery, filter, true)

	if err := dataQuery.Order(orderBy).Limit(result.PerPage).Offset(offset).Find(&posts).Error; err != nil {
		return nil, err
	}

	filterWithoutStatus := filter
	filterWithoutStatus.Status = ""

	publishedCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)
	if err := publishedCounter.Where("posts.status = ?", db.StatusPublished).Count(&result.PublishedCount).Error; err != nil {
		return nil, err
	}

	draftCounter := s.applyFilters(s.db.Model(&db.Post{}), filterWithoutStatus, false)
	if err := draftCounter.Where("posts.status = ?", db.StatusDraft).Count(&result.DraftCount).Error; err != nil {
		return nil, err
	}

	result.Posts = posts
	return result, nil
}

// ArchiveDates returns the year/month pairs that have published posts,
// newest first, for the sidebar archive.
func (s *PostService) ArchiveDates() ([]ArchiveYear, error) {
	var rows []struct {
		Year  string
		Month string
	}

	if err := s.db.Model(&db.Post{}).
		Select("DISTINCT strftime('%Y', published_at) AS year, strftime('%m', published_at) AS month").
		Where("status = ? AND published_at IS NOT NULL", db.StatusPublished).
		Order("year desc, month desc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	years := make([]ArchiveYear, 0, len(rows))
	for _, row := range rows {
		year, _ := strconv.Atoi(row.Year)
		month, _ := strconv.Atoi(row.Month)
		if year == 0 || month == 0 {
			continue
		}
		if len(years) == 0 || years[len(years)-1].Year != year {
			years = append(years, ArchiveYear{Year: year})
		}
		years[len(years)-1].Months = append(years[len(years)-1].Months, month)
	}

	return years, nil
}

func (s *PostService) saveWithRelations(post *db.Post, categoryIDs, tagIDs []uint) (*db.Post, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(post).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrSlugTaken
			}
			return err
		}

		var categories []db.Category
		if len(categoryIDs) > 0 {
			if err := tx.Where("id IN ?", categoryIDs).Find(&categories).Error; err != nil {
				return err
			}
			if len(categories) != len(categoryIDs) {
				return ErrCategoryNotFound
			}
		}
		if err := tx.Model(post).Association("Categories").Replace(categories); err != nil {
			return err
		}

		var tags []db.Tag
		if len(tagIDs) > 0 {
			if err := tx.Where("id IN ?", tagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if len(tags) != len(tagIDs) {
				return ErrTagNotFound
			}
		}
		if err := tx.Model(post).Association("Tags").Replace(tags); err != nil {
			return err
		}

		return tx.Preload("Categories").Preload("Tags").Preload("User").First(post, post.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) applyFilters(query *gorm.DB, filter PostFilter, includeStatus bool) *gorm.DB {
	if filter.Search != "" {
		search := "%" + filter.Search + "%"
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("LEFT JOIN post_categories ON post_categories.post_id = posts.id").
			Joins("LEFT JOIN categories ON categories.id = post_categories.category_id").
			Joins("LEFT JOIN post_tags ON post_tags.post_id = posts.id").
			Joins("LEFT JOIN tags ON tags.id = post_tags.tag_id").
			Where("posts.title LIKE ? OR posts.content LIKE ? OR categories.name LIKE ? OR tags.name LIKE ?",
				search, search, search, search).
			Distinct()

		query = query.Where("posts.id IN (?)", subQuery)
	}

	if includeStatus && filter.Status != "" {
		query = query.Where("posts.status = ?", filter.Status)
	}

	if filter.CategorySlug != "" {
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("JOIN post_categories ON posts.id = post_categories.post_id").
			Joins("JOIN categories ON categories.id = post_categories.category_id").
			Where("categories.slug = ?", filter.CategorySlug)

		query = query.Where("posts.id IN (?)", subQuery)
	}

	if filter.TagSlug != "" {
		subQuery := s.db.Model(&db.Post{}).
			Select("posts.id").
			Joins("JOIN post_tags ON posts.id = post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("tags.slug = ?", filter.TagSlug)

		query = query.Where("posts.id IN (?)", subQuery)
	}

	if filter.Year > 0 {
		query = query.Where("strftime('%Y', posts.published_at) = ?", fmt.Sprintf("%04d", filter.Year))
	}
	if filter.Month > 0 {
		query = query.Where("strftime('%m', posts.published_at) = ?", fmt.Sprintf("%02d", filter.Month))
	}

	return query
}

// deriveOGFields computes the Open Graph title and description from the
// fallback chain: explicit OG value, then meta value, then the title or
// a plain-text summary of the content. Only derived values are
// truncated; explicit input is validated separately.
func deriveOGFields(post *db.Post) (string, string) {
	title := strings.TrimSpace(post.OGTitle)
	if title == "" {
		title = strings.TrimSpace(post.MetaTitle)
	}
	if title == "" {
		title = markdown.TruncateChars(strings.TrimSpace(post.Title), ogTitleLimit)
	}

	description := strings.TrimSpace(post.OGDescription)
	if description == "" {
		description = strings.TrimSpace(post.MetaDescription)
	}
	if description == "" {
		description = markdown.SummarizeChars(post.Content, ogDescriptionLimit)
	}

	return title, description
}

func validateSEOInput(input PostInput) error {
	if utf8.RuneCountInString(strings.TrimSpace(input.MetaTitle)) > ogTitleLimit {
		return ErrFieldTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(input.OGTitle)) > ogTitleLimit {
		return ErrFieldTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(input.MetaDescription)) > ogDescriptionLimit {
		return ErrFieldTooLong
	}
	if utf8.RuneCountInString(strings.TrimSpace(input.OGDescription)) > ogDescriptionLimit {
		return ErrFieldTooLong
	}
	return nil
}

func resolvePage(page, totalPages int, fallback PageFallback) int {
	if page <= 0 {
		return 1
	}
	if page > totalPages {
		if fallback == FallbackLast {
			return totalPages
		}
		return 1
	}
	return page
}
