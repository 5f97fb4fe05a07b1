package scorecard

import "github.com/google/uuid"

// TeeOption describes one set of tee boxes reported for a course. Ratings are
// optional because the remote extractor usually returns colors only.
type TeeOption struct {
	Color        string   `json:"color"`
	CourseRating *float64 `json:"course_rating,omitempty"`
	SlopeRating  *int     `json:"slope_rating,omitempty"`
}

// HoleScore is one hole of one player's round.
type HoleScore struct {
	HoleNumber int `json:"hole_number"`
	Par        int `json:"par"`
	Score      int `json:"score"`
}

// PlayerScore is a full 18-hole sequence for one player.
type PlayerScore struct {
	ID         string      `json:"id"`
	PlayerName string      `json:"player_name"`
	HoleScores []HoleScore `json:"hole_scores"`
}

// ScorecardData is the reconciled record produced by the pipeline. It is
// held in memory while the user reviews it and persisted only on explicit
// save.
type ScorecardData struct {
	CourseName   string        `json:"course_name"`
	CourseRating *float64      `json:"course_rating,omitempty"`
	SlopeRating  *int          `json:"slope_rating,omitempty"`
	TeeColor     *string       `json:"tee_color,omitempty"`
	TeeOptions   []TeeOption   `json:"tee_options,omitempty"`
	PlayerScores []PlayerScore `json:"player_scores"`
}

// NewPlayerScore assigns a fresh id so edited copies stay distinguishable on
// the client side.
func NewPlayerScore(name string, holes []HoleScore) PlayerScore {
	return PlayerScore{ID: uuid.NewString(), PlayerName: name, HoleScores: holes}
}
