package scorecard

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ScorecardMetadata is the remote extractor's output before reconciliation.
// Scores and par are deliberately absent: they come from local detection.
type ScorecardMetadata struct {
	PlayerName *string    `json:"player_name"`
	CourseName *string    `json:"course_name"`
	TeeColor   *TeeColors `json:"tee_color"`
}

// TeeColors is a two-variant tagged union: the model returns either a single
// tee color or a list of them for the same logical field. Exactly one of
// Single/Multiple is set.
type TeeColors struct {
	Single   string
	Multiple []string
}

func (t *TeeColors) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t.Single = s
		t.Multiple = nil
		return nil
	}
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		t.Single = ""
		t.Multiple = list
		return nil
	}
	return fmt.Errorf("tee color is neither a string nor a list: %s", data)
}

func (t TeeColors) MarshalJSON() ([]byte, error) {
	if t.Multiple != nil {
		return json.Marshal(t.Multiple)
	}
	return json.Marshal(t.Single)
}

// slopeReplacer normalizes the "not applicable" phrasings the model uses for
// the slope field into a JSON null so decoding does not trip on them.
var slopeReplacer = strings.NewReplacer(
	`"slope": "N/A"`, `"slope": null`,
	`"slope": "Not indicated"`, `"slope": null`,
	`"slope": ""`, `"slope": null`,
	`"slope": "Not Available"`, `"slope": null`,
	`"slope": "Not specified"`, `"slope": null`,
)

// extractJSONBlock pulls the JSON payload out of a completion that wraps it
// in a fenced code block. It picks the fence segment containing both "{" and
// "course_name", strips a leading json language tag, and falls back to the
// whole content when no such segment exists.
func extractJSONBlock(content string) string {
	for _, part := range strings.Split(content, "```") {
		if strings.Contains(part, "{") && strings.Contains(part, "course_name") {
			part = strings.TrimSpace(part)
			part = strings.TrimPrefix(part, "json")
			return strings.TrimSpace(part)
		}
	}
	return strings.TrimSpace(content)
}

// decodeMetadata cleans a completion's content and decodes it. The cleaned
// text is carried in the DecodeError so a bad payload can be diagnosed.
func decodeMetadata(content string) (*ScorecardMetadata, error) {
	cleaned := slopeReplacer.Replace(extractJSONBlock(content))
	var meta ScorecardMetadata
	if err := json.Unmarshal([]byte(cleaned), &meta); err != nil {
		return nil, &DecodeError{Raw: cleaned, Err: err}
	}
	return &meta, nil
}
