package scorecard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

// fakeRecognizer returns canned recognitions keyed by path.
type fakeRecognizer struct {
	byPath map[string]*Recognition
	errs   map[string]error
}

func (f *fakeRecognizer) Recognize(path string) (*Recognition, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if rec, ok := f.byPath[path]; ok {
		return rec, nil
	}
	return &Recognition{}, nil
}

// newCompletionServer serves a chat-completion envelope whose content embeds
// the given metadata JSON in a fenced block, the shape the pipeline parses.
func newCompletionServer(t *testing.T, metadataJSON string, gotBody *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected authorization header %q", auth)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if gotBody != nil && len(req.Messages) == 2 {
			*gotBody = req.Messages[1].Content
		}
		content := "```json\n" + metadataJSON + "\n```"
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func TestPipelineEndToEnd(t *testing.T) {
	frontRow := rowObs(0.42, "Smith", "4", "5", "3", "4", "4", "5", "4", "3", "4")
	rec := &fakeRecognizer{byPath: map[string]*Recognition{
		"front.jpg": {Text: "Smith 4 5 3 4 4 5 4 3 4", Observations: frontRow},
		"back.jpg":  {Text: "10 11 12 13 14 15 16 17 18"},
	}}
	var userContent string
	srv := newCompletionServer(t, `{"course_name": "Pine Valley", "tee_color": "blue"}`, &userContent)
	defer srv.Close()

	p := NewPipeline(rec, NewExtractor("test-key", srv.URL))
	data, warnings, err := p.Process(context.Background(), "front.jpg", "back.jpg")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(warnings) != 0 {
		t.Fatalf("expected no warnings got %v", warnings)
	}
	if data.CourseName != "Pine Valley" {
		t.Fatalf("expected course Pine Valley got %q", data.CourseName)
	}
	if data.TeeColor == nil || *data.TeeColor != "blue" {
		t.Fatalf("expected tee color blue got %+v", data.TeeColor)
	}
	player := data.PlayerScores[0]
	if player.PlayerName != "Smith" {
		t.Fatalf("expected player Smith got %q", player.PlayerName)
	}
	wantFront := []int{4, 5, 3, 4, 4, 5, 4, 3, 4}
	for i, want := range wantFront {
		if player.HoleScores[i].Score != want {
			t.Fatalf("hole %d: expected %d got %d", i+1, want, player.HoleScores[i].Score)
		}
	}
	for i := 9; i < HoleCount; i++ {
		if player.HoleScores[i].Score != DefaultScore {
			t.Fatalf("hole %d: expected default got %d", i+1, player.HoleScores[i].Score)
		}
	}
	// Both images' text reaches the remote call, front first.
	want := "Here is the OCR text from a scorecard:\n\nSmith 4 5 3 4 4 5 4 3 4\n10 11 12 13 14 15 16 17 18"
	if userContent != want {
		t.Fatalf("unexpected user content:\n%q\nwant:\n%q", userContent, want)
	}
}

func TestPipelineMissingKeyFailsBeforeNetwork(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	p := NewPipeline(&fakeRecognizer{}, NewExtractor("", srv.URL))
	_, _, err := p.Process(context.Background(), "front.jpg", "back.jpg")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey got %v", err)
	}
	if calls != 0 {
		t.Fatalf("expected no network call, saw %d", calls)
	}
}

func TestPipelineSurvivesBackImageFailure(t *testing.T) {
	rec := &fakeRecognizer{
		byPath: map[string]*Recognition{
			"front.jpg": {Text: "Smith 4 5 3 4 4", Observations: rowObs(0.4, "Smith", "4", "5", "3", "4", "4")},
		},
		errs: map[string]error{"back.jpg": fmt.Errorf("blurry image")},
	}
	srv := newCompletionServer(t, `{"course_name": "Pine Valley"}`, nil)
	defer srv.Close()

	p := NewPipeline(rec, NewExtractor("test-key", srv.URL))
	data, warnings, err := p.Process(context.Background(), "front.jpg", "back.jpg")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if data.PlayerScores[0].PlayerName != "Smith" {
		t.Fatalf("expected local detection to survive, got %q", data.PlayerScores[0].PlayerName)
	}
	if len(warnings) != 1 || warnings[0].Side != "back" {
		t.Fatalf("expected one back-side warning got %v", warnings)
	}
	if warnings[0].Message == "" {
		t.Fatalf("expected warning message to carry the failure")
	}
}

func TestPipelineWarnsPerImageWhenBothFail(t *testing.T) {
	rec := &fakeRecognizer{errs: map[string]error{
		"front.jpg": fmt.Errorf("blurry image"),
		"back.jpg":  fmt.Errorf("blurry image"),
	}}
	srv := newCompletionServer(t, `{"course_name": null}`, nil)
	defer srv.Close()

	p := NewPipeline(rec, NewExtractor("test-key", srv.URL))
	data, warnings, err := p.Process(context.Background(), "front.jpg", "back.jpg")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	// The degraded record still comes back for review, but each failed side
	// is reported so a caller never mistakes it for a clean extraction.
	if len(warnings) != 2 {
		t.Fatalf("expected warnings for both sides got %v", warnings)
	}
	if warnings[0].Side != "front" || warnings[1].Side != "back" {
		t.Fatalf("expected front then back warnings got %v", warnings)
	}
	for _, w := range warnings {
		if w.Message == "" {
			t.Fatalf("warning for %s has no message", w.Side)
		}
	}
	player := data.PlayerScores[0]
	if player.PlayerName != "Unknown" || len(player.HoleScores) != HoleCount {
		t.Fatalf("expected defaulted record got %+v", player)
	}
}

func TestPipelineUnexpectedEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer srv.Close()

	p := NewPipeline(&fakeRecognizer{}, NewExtractor("test-key", srv.URL))
	_, _, err := p.Process(context.Background(), "front.jpg", "back.jpg")
	if !errors.Is(err, ErrUnexpectedResponse) {
		t.Fatalf("expected ErrUnexpectedResponse got %v", err)
	}
}
