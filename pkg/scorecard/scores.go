package scorecard

import "strconv"

// Heuristic constants for score-row detection. These encode assumptions
// about what a 9- or 18-hole score line looks like; keep them named rather
// than inlined.
const (
	// HoleCount is the number of holes on a full scorecard.
	HoleCount = 18
	// MinScoreTokens is the minimum count of per-hole numbers a row must
	// contain to be considered a score row. Filters stray single-digit
	// OCR artifacts.
	MinScoreTokens = 5
	// MinHoleScore and MaxHoleScore bound what counts as a plausible
	// single-hole score token.
	MinHoleScore = 1
	MaxHoleScore = 12
	// DefaultPar is applied to every hole; the card's par row is not read.
	DefaultPar = 4
	// DefaultScore fills holes the OCR pass did not produce a number for.
	DefaultScore = 4
)

// ExtractScores selects the row that most plausibly holds per-hole scores
// and returns its numeric tokens, at most HoleCount of them. A qualifying
// token is an integer in [MinHoleScore, MaxHoleScore]; rows with fewer than
// MinScoreTokens qualifying tokens are ignored. Among candidates the row
// with the most qualifying tokens wins, topmost row on ties. Returns an
// empty slice when no row qualifies.
func ExtractScores(rows []Row) []int {
	var best []int
	for _, row := range rows {
		nums := scoreTokens(row)
		if len(nums) < MinScoreTokens {
			continue
		}
		if len(nums) > len(best) {
			best = nums
		}
	}
	if len(best) > HoleCount {
		best = best[:HoleCount]
	}
	return best
}

func scoreTokens(row Row) []int {
	var nums []int
	for _, o := range row.Observations {
		n, err := strconv.Atoi(o.Text)
		if err != nil {
			continue
		}
		if n < MinHoleScore || n > MaxHoleScore {
			continue
		}
		nums = append(nums, n)
	}
	return nums
}

// GenerateHoleScores pairs extracted scores with hole numbers 1..HoleCount,
// padding missing holes with DefaultScore. Par is DefaultPar for every hole.
func GenerateHoleScores(scores []int) []HoleScore {
	holes := make([]HoleScore, 0, HoleCount)
	for i := 0; i < HoleCount; i++ {
		score := DefaultScore
		if i < len(scores) {
			score = scores[i]
		}
		holes = append(holes, HoleScore{HoleNumber: i + 1, Par: DefaultPar, Score: score})
	}
	return holes
}
