package models

import "time"

// Scorecard is a saved round, the durable form of a reconciled scorecard
// record after the user confirmed it in review.
type Scorecard struct {
	ID           uint `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	UserID       uint   `gorm:"index;not null"`
	CourseName   string `gorm:"size:255"`
	CourseRating *float64
	SlopeRating  *int
	TeeColor     *string           `gorm:"size:64"`
	TeeOptions   []ScorecardTee    `gorm:"foreignKey:ScorecardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Players      []ScorecardPlayer `gorm:"foreignKey:ScorecardID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ScorecardTee is one tee option kept when the extractor reported multiple
// tee colors and the user did not pick one.
type ScorecardTee struct {
	ID           uint   `gorm:"primaryKey"`
	ScorecardID  uint   `gorm:"index;not null"`
	Color        string `gorm:"size:64;not null"`
	CourseRating *float64
	SlopeRating  *int
}

// ScorecardPlayer is one player's 18-hole line on a saved scorecard.
type ScorecardPlayer struct {
	ID          uint            `gorm:"primaryKey"`
	ScorecardID uint            `gorm:"index;not null"`
	PlayerName  string          `gorm:"size:255;not null"`
	Holes       []ScorecardHole `gorm:"foreignKey:PlayerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// ScorecardHole is a single hole result.
type ScorecardHole struct {
	ID         uint `gorm:"primaryKey"`
	PlayerID   uint `gorm:"index;not null;uniqueIndex:idx_player_hole"`
	HoleNumber int  `gorm:"not null;uniqueIndex:idx_player_hole"`
	Par        int  `gorm:"not null"`
	Score      int  `gorm:"not null"`
}
