package scorecard

import "testing"

func TestDetectPlayerNameAcceptsNameBeforeScoreRun(t *testing.T) {
	rows := GroupRows(rowObs(0.4, "Smith", "4", "5", "3", "4", "4", "5"))
	if got := DetectPlayerName(rows); got != "Smith" {
		t.Fatalf("expected Smith got %q", got)
	}
}

func TestDetectPlayerNameRequiresNumericRun(t *testing.T) {
	// Only 4 numeric tokens after the name: not a score row.
	rows := GroupRows(rowObs(0.4, "Smith", "4", "5", "3", "4"))
	if got := DetectPlayerName(rows); got != "" {
		t.Fatalf("expected no name got %q", got)
	}
}

func TestDetectPlayerNameRejectsNonNameTokens(t *testing.T) {
	for _, lead := range []string{"smith", "S", "S4th", "4"} {
		rows := GroupRows(rowObs(0.4, lead, "4", "5", "3", "4", "4", "5"))
		if got := DetectPlayerName(rows); got != "" {
			t.Fatalf("leading token %q: expected no name got %q", lead, got)
		}
	}
}

func TestDetectPlayerNameSkipsWithoutShortCircuit(t *testing.T) {
	// The top row fails the numeric-run test; scanning must continue to the
	// qualifying row below it.
	var in []TextObservation
	in = append(in, rowObs(0.2, "Pine", "Valley", "Golf", "Club")...)
	in = append(in, rowObs(0.6, "Jones", "4", "5", "3", "4", "4")...)
	rows := GroupRows(in)
	if got := DetectPlayerName(rows); got != "Jones" {
		t.Fatalf("expected Jones got %q", got)
	}
}

func TestDetectPlayerNameFirstMatchWins(t *testing.T) {
	var in []TextObservation
	in = append(in, rowObs(0.3, "Smith", "4", "5", "3", "4", "4")...)
	in = append(in, rowObs(0.7, "Jones", "4", "5", "3", "4", "4")...)
	rows := GroupRows(in)
	if got := DetectPlayerName(rows); got != "Smith" {
		t.Fatalf("expected topmost match Smith got %q", got)
	}
}
