package scorecard

import "testing"

func TestExtractScoresPicksRowWithMostQualifyingTokens(t *testing.T) {
	rows := []Row{
		{Key: 0.1, Observations: rowObs(0.1, "Pine", "Valley", "Golf")},
		{Key: 0.3, Observations: rowObs(0.3, "4", "5", "3", "4", "4")},
		{Key: 0.5, Observations: rowObs(0.5, "4", "5", "3", "4", "4", "5", "4", "3", "4")},
	}
	got := ExtractScores(rows)
	want := []int{4, 5, 3, 4, 4, 5, 4, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("expected %d scores got %d (%v)", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("score %d: expected %d got %d", i, want[i], got[i])
		}
	}
}

func TestExtractScoresTieBreaksTopmost(t *testing.T) {
	rows := []Row{
		{Key: 0.2, Observations: rowObs(0.2, "1", "2", "3", "4", "5")},
		{Key: 0.6, Observations: rowObs(0.6, "6", "7", "8", "9", "10")},
	}
	got := ExtractScores(rows)
	if len(got) != 5 || got[0] != 1 {
		t.Fatalf("expected topmost row on tie, got %v", got)
	}
}

func TestExtractScoresFiltersRangeAndThreshold(t *testing.T) {
	rows := []Row{
		// 13 and 0 are out of range; only 4 qualifying tokens remain, below
		// the 5-token noise floor.
		{Key: 0.2, Observations: rowObs(0.2, "13", "0", "4", "5", "3", "4")},
	}
	if got := ExtractScores(rows); len(got) != 0 {
		t.Fatalf("expected no score row, got %v", got)
	}
}

func TestExtractScoresTruncatesToHoleCount(t *testing.T) {
	tokens := make([]string, 20)
	for i := range tokens {
		tokens[i] = "4"
	}
	rows := []Row{{Key: 0.4, Observations: rowObs(0.4, tokens...)}}
	if got := ExtractScores(rows); len(got) != HoleCount {
		t.Fatalf("expected %d scores got %d", HoleCount, len(got))
	}
}

func TestGenerateHoleScoresPadsWithDefaults(t *testing.T) {
	holes := GenerateHoleScores(nil)
	if len(holes) != HoleCount {
		t.Fatalf("expected %d holes got %d", HoleCount, len(holes))
	}
	for i, h := range holes {
		if h.HoleNumber != i+1 || h.Par != DefaultPar || h.Score != DefaultScore {
			t.Fatalf("hole %d: got %+v", i+1, h)
		}
	}
}

func TestGenerateHoleScoresIdempotentOnFullRound(t *testing.T) {
	scores := []int{4, 5, 3, 4, 4, 5, 4, 3, 4, 6, 5, 4, 3, 4, 5, 4, 4, 5}
	holes := GenerateHoleScores(scores)
	if len(holes) != HoleCount {
		t.Fatalf("expected %d holes got %d", HoleCount, len(holes))
	}
	for i, h := range holes {
		if h.Score != scores[i] {
			t.Fatalf("hole %d: expected score %d got %d", i+1, scores[i], h.Score)
		}
		if h.HoleNumber != i+1 || h.Par != DefaultPar {
			t.Fatalf("hole %d: got %+v", i+1, h)
		}
	}
}
