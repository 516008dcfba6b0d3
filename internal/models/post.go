package models

import (
	"time"

	"gorm.io/gorm"
)

// Media type values stored in Post.MediaType.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Post represents a media post published by a user.
type Post struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	AuthorID  uint   `gorm:"not null;index" json:"author_id"`
	Author    User   `gorm:"foreignKey:AuthorID" json:"author"`
	Caption   string `gorm:"type:text" json:"caption"`
	MediaURL  string `gorm:"not null" json:"media_url"`
	MediaType string `gorm:"not null" json:"media_type"`
	// LikesCount is not persisted; computed at query time. The migration
	// exclusion keeps AutoMigrate from creating a column for it.
	LikesCount int            `gorm:"->;-:migration" json:"likes_count"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}
