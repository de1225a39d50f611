package db

import "gorm.io/gorm"

// Page is a standalone content page such as About. Pages sit outside the
// post lifecycle: no status, no tags, no OG derivation.
type Page struct {
	gorm.Model
	Slug    string `gorm:"uniqueIndex;not null"`
	Title   string `gorm:"not null"`
	Content string `gorm:"type:text"`
}
