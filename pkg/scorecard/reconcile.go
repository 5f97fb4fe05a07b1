package scorecard

import "strings"

// unknownName is the sentinel the model returns when it cannot read a name.
const unknownName = "Unknown"

// Reconcile merges remote metadata with the locally detected name and score
// run into one reviewable record. Name precedence: remote name unless absent
// or literally "unknown" (any case), then the locally detected name, then
// "Unknown". A single remote tee color maps to TeeColor; a list maps to
// TeeOptions with ratings unset. The record always holds exactly one player.
func Reconcile(meta *ScorecardMetadata, detectedName string, scores []int) *ScorecardData {
	name := unknownName
	switch {
	case meta.PlayerName != nil && !strings.EqualFold(*meta.PlayerName, unknownName):
		name = *meta.PlayerName
	case detectedName != "":
		name = detectedName
	}

	data := &ScorecardData{
		PlayerScores: []PlayerScore{NewPlayerScore(name, GenerateHoleScores(scores))},
	}
	if meta.CourseName != nil {
		data.CourseName = *meta.CourseName
	}
	if meta.TeeColor != nil {
		if meta.TeeColor.Multiple != nil {
			opts := make([]TeeOption, 0, len(meta.TeeColor.Multiple))
			for _, color := range meta.TeeColor.Multiple {
				opts = append(opts, TeeOption{Color: color})
			}
			data.TeeOptions = opts
		} else {
			color := meta.TeeColor.Single
			data.TeeColor = &color
		}
	}
	return data
}
