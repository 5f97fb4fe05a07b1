package scorecard

import (
	"regexp"
	"strconv"
)

// nameRE is a crude proper-noun test: one capital followed by at least two
// more letters. Handwritten initials and stray marks fail it.
var nameRE = regexp.MustCompile(`^[A-Z][a-zA-Z]{2,}$`)

// DetectPlayerName scans rows top to bottom for a leading token that looks
// like a name followed by at least MinScoreTokens numeric tokens — the shape
// of a "name then score run" line. The first qualifying row wins. Returns ""
// when no row qualifies.
func DetectPlayerName(rows []Row) string {
	for _, row := range rows {
		if len(row.Observations) == 0 {
			continue
		}
		first := row.Observations[0].Text
		if !nameRE.MatchString(first) {
			continue
		}
		numeric := 0
		for _, o := range row.Observations[1:] {
			if _, err := strconv.Atoi(o.Text); err == nil {
				numeric++
			}
		}
		if numeric >= MinScoreTokens {
			return first
		}
	}
	return ""
}
