package db

import (
	"time"

	"gorm.io/gorm"
)

// Post status values. The lifecycle only ever moves between these two.
const (
	StatusDraft     = "draft"
	StatusPublished = "published"
)

// Post is a blog article written in Markdown. Slug is assigned once from
// the title and never silently regenerated; PublishedAt is owned by the
// publish/unpublish transitions.
type Post struct {
	gorm.Model
	Title           string     `gorm:"not null"`
	Slug            string     `gorm:"uniqueIndex;not null"`
	UserID          uint       `gorm:"not null"`
	User            User
	Content         string     `gorm:"type:text"`
	Status          string     `gorm:"not null;default:draft"`
	Categories      []Category `gorm:"many2many:post_categories;"`
	Tags            []Tag      `gorm:"many2many:post_tags;"`
	PublishedAt     *time.Time
	MetaTitle       string `gorm:"size:60"`
	MetaDescription string `gorm:"size:160"`
	Image           string
	OGTitle         string `gorm:"size:60"`
	OGDescription   string `gorm:"size:160"`
}

// Path returns the canonical relative URL of the post detail page.
func (p Post) Path() string {
	return "/post/" + p.Slug + "/"
}

// IsPublished reports whether the post is publicly visible.
func (p Post) IsPublished() bool {
	return p.Status == StatusPublished
}
