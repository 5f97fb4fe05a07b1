package models

import "time"

// FeedPost is one entry in the chronological activity feed. Author display
// name and avatar are denormalized onto the post so the feed renders without
// per-post profile lookups.
type FeedPost struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	UserID         uint          `gorm:"index;not null"`
	AuthorName     string        `gorm:"size:255;not null"`
	AuthorImageURL string        `gorm:"size:512"`
	Content        string        `gorm:"size:4096;not null"`
	Likes          []PostLike    `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Comments       []FeedComment `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Media          []PostMedia   `gorm:"foreignKey:PostID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// PostLike records one user's like on one post. The composite unique index
// makes the like set a set.
type PostLike struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	PostID    uint `gorm:"index;not null;uniqueIndex:idx_post_user_like"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_post_user_like"`
}

// FeedComment is an ordered comment on a post with embedded author info and
// a server-side timestamp (CreatedAt).
type FeedComment struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	PostID       uint   `gorm:"index;not null"`
	UserID       uint   `gorm:"index;not null"`
	UserName     string `gorm:"size:255;not null"`
	UserImageURL string `gorm:"size:512"`
	Comment      string `gorm:"size:2048;not null"`
}

// PostMedia is one uploaded media blob attached to a post, stored at a
// random key and publicly fetchable at URL.
type PostMedia struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	PostID    uint   `gorm:"index;not null"`
	URL       string `gorm:"size:512;not null"`
	MediaType string `gorm:"size:16;not null"` // "image" or "video"
	Position  int    `gorm:"not null"`
}
