package models

import (
	"time"
)

// Upload represents a stored media blob (avatar, post media, or scorecard
// image). StorePath is the path under the public media base.
type Upload struct {
	ID          uint `gorm:"primaryKey"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	FileName    string  `gorm:"size:255;not null"`
	StorePath   string  `gorm:"column:store_path;size:512;uniqueIndex"`
	ProfileID   uint    `gorm:"index;not null"`
	Profile     Profile `gorm:"foreignKey:ProfileID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ContentType string  `gorm:"size:128"`
	Kind        string  `gorm:"size:32;index"` // "avatar", "post", "scorecard"
	// Mark upload as failed for pipeline processing (record kept so the
	// maintenance tooling can retry or an admin can review).
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
