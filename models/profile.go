package models

import "time"

// Profile is the golfer-facing record (one-to-one with User): display name,
// handicap, home course, avatar, and aggregate round stats. Stats are
// recomputed whenever a scorecard is saved.
type Profile struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	UserID    uint       `gorm:"uniqueIndex;not null"` // one-to-one relation
	User      User       `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	FirstName string     `gorm:"size:255;not null"`
	LastName  string     `gorm:"size:255"`
	// Handicap and HomeCourse are nullable: new members have neither.
	Handicap        *float64
	HomeCourse      *string `gorm:"size:255"`
	ProfileImageURL string  `gorm:"size:512"`
	// Aggregate stats over saved scorecards (18-hole totals).
	TotalRounds  int `gorm:"default:0;not null"`
	LowestScore  *int
	AverageScore *float64
	// Uploads is a one-to-many relation from Profile to Upload
	Uploads []Upload `gorm:"foreignKey:ProfileID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
}

// DisplayName is the name shown on feed posts and comments.
func (p Profile) DisplayName() string {
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
