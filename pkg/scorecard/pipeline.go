package scorecard

import (
	"context"
	"fmt"
	"log"
	"sync"
)

// Warning reports a non-fatal per-image failure during processing. The
// pipeline degrades rather than aborting on OCR failures, so callers need
// these to tell a clean record from one built on partial input.
type Warning struct {
	Side    string `json:"side"` // "front" or "back"
	Message string `json:"message"`
}

// Pipeline sequences the full extraction flow: OCR both images, send the
// combined text to the remote extractor, then reconcile with local name and
// score detection.
type Pipeline struct {
	Recognizer Recognizer
	Extractor  MetadataExtractor
}

func NewPipeline(rec Recognizer, ext MetadataExtractor) *Pipeline {
	return &Pipeline{Recognizer: rec, Extractor: ext}
}

// Process runs extraction for a front-nine and back-nine image pair. The two
// recognitions run concurrently and are both awaited before the remote call,
// which consumes their concatenated text. Local name/score detection reads
// the front image only; the back image contributes OCR text for the remote
// extractor and nothing else. A failed recognition contributes an empty
// recognition plus a Warning for that side rather than aborting the other
// image; remote-extractor failures abort with no partial record. Warnings
// are returned even when the remote call fails so the failed side can still
// be flagged for retry.
func (p *Pipeline) Process(ctx context.Context, frontPath, backPath string) (*ScorecardData, []Warning, error) {
	var (
		wg        sync.WaitGroup
		front     *Recognition
		back      *Recognition
		frontWarn *Warning
		backWarn  *Warning
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		front, frontWarn = p.recognize(frontPath, "front")
	}()
	go func() {
		defer wg.Done()
		back, backWarn = p.recognize(backPath, "back")
	}()
	wg.Wait()

	var warnings []Warning
	if frontWarn != nil {
		warnings = append(warnings, *frontWarn)
	}
	if backWarn != nil {
		warnings = append(warnings, *backWarn)
	}

	combined := front.Text + "\n" + back.Text
	meta, err := p.Extractor.ExtractMetadata(ctx, combined)
	if err != nil {
		return nil, warnings, err
	}

	rows := GroupRows(front.Observations)
	scores := ExtractScores(rows)
	name := DetectPlayerName(rows)
	return Reconcile(meta, name, scores), warnings, nil
}

func (p *Pipeline) recognize(path, side string) (*Recognition, *Warning) {
	rec, err := p.Recognizer.Recognize(path)
	if err != nil {
		log.Printf("scorecard ocr failed side=%s path=%s: %v", side, path, err)
		return &Recognition{}, &Warning{Side: side, Message: fmt.Sprintf("text recognition failed: %v", err)}
	}
	return rec, nil
}
