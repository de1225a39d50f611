package db

import "gorm.io/gorm"

// Tag labels posts. Same shape as Category but a disjoint namespace.
type Tag struct {
	gorm.Model
	Name  string `gorm:"unique;not null"`
	Slug  string `gorm:"uniqueIndex;not null"`
	Posts []Post `gorm:"many2many:post_tags;"`
}

// Path returns the canonical relative URL of the tag listing.
func (t Tag) Path() string {
	return "/tag/" + t.Slug + "/"
}
