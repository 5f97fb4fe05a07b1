package main

import (
	"fmt"
	"testing"

	"goltrip/models"
	"goltrip/pkg/scorecard"
)

type stubRecognizer struct {
	rec *scorecard.Recognition
	err error
}

func (s *stubRecognizer) Recognize(path string) (*scorecard.Recognition, error) {
	return s.rec, s.err
}

func TestRetryScorecardOCRClearsOnlyOnUsableText(t *testing.T) {
	up := &models.Upload{Kind: "scorecard", Failed: true, StorePath: "scorecards/x.jpg", FailedReason: "text recognition failed: blurry image"}

	if ok := retryScorecardOCR(&stubRecognizer{rec: &scorecard.Recognition{Text: "Smith 4 5 4 3 5"}}, "media", up); !ok {
		t.Fatalf("expected retry to succeed with usable text")
	}
	if ok := retryScorecardOCR(&stubRecognizer{err: fmt.Errorf("still blurry")}, "media", up); ok {
		t.Fatalf("expected retry to fail when recognition errors")
	}
	if ok := retryScorecardOCR(&stubRecognizer{rec: &scorecard.Recognition{Text: "   "}}, "media", up); ok {
		t.Fatalf("expected retry to fail on whitespace-only text")
	}
}

func TestRetryScorecardOCRSkipsHealthyAndNonScorecard(t *testing.T) {
	rec := &stubRecognizer{rec: &scorecard.Recognition{Text: "plenty of text"}}
	if retryScorecardOCR(rec, "media", &models.Upload{Kind: "scorecard", Failed: false, StorePath: "scorecards/x.jpg"}) {
		t.Fatalf("healthy scorecard upload must not be retried")
	}
	if retryScorecardOCR(rec, "media", &models.Upload{Kind: "post", Failed: true, StorePath: "posts/x.jpg"}) {
		t.Fatalf("non-scorecard upload must not be retried")
	}
}

func TestKindForMapsSubdirectories(t *testing.T) {
	cases := map[string]string{
		"avatars/user-1.jpg": "avatar",
		"posts/abc.png":      "post",
		"scorecards/def.jpg": "scorecard",
		"loose.jpg":          "",
		"other/x.jpg":        "",
	}
	for storePath, want := range cases {
		if got := kindFor(storePath); got != want {
			t.Fatalf("kindFor(%q) = %q, want %q", storePath, got, want)
		}
	}
}
