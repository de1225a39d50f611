package db

import "gorm.io/gorm"

// Category groups posts by topic. The slug is assigned once from the
// initial name and is never regenerated on rename.
type Category struct {
	gorm.Model
	Name  string `gorm:"unique;not null"`
	Slug  string `gorm:"uniqueIndex;not null"`
	Posts []Post `gorm:"many2many:post_categories;"`
}

// Path returns the canonical relative URL of the category listing.
func (c Category) Path() string {
	return "/category/" + c.Slug + "/"
}
