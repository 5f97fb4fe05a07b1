package scorecard

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestTeeColorsDecodeSingle(t *testing.T) {
	var meta ScorecardMetadata
	if err := json.Unmarshal([]byte(`{"course_name":"Pine Valley","tee_color":"blue"}`), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if meta.TeeColor == nil || meta.TeeColor.Single != "blue" || meta.TeeColor.Multiple != nil {
		t.Fatalf("expected single blue got %+v", meta.TeeColor)
	}
}

func TestTeeColorsDecodeList(t *testing.T) {
	var meta ScorecardMetadata
	if err := json.Unmarshal([]byte(`{"course_name":"Pine Valley","tee_color":["blue","white"]}`), &meta); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	tc := meta.TeeColor
	if tc == nil || tc.Single != "" || len(tc.Multiple) != 2 || tc.Multiple[0] != "blue" || tc.Multiple[1] != "white" {
		t.Fatalf("expected list [blue white] got %+v", tc)
	}
}

func TestTeeColorsDecodeRejectsOtherShapes(t *testing.T) {
	var tc TeeColors
	if err := json.Unmarshal([]byte(`{"color":"blue"}`), &tc); err == nil {
		t.Fatalf("expected error for object-shaped tee color")
	}
}

func TestExtractJSONBlockFencedWithTag(t *testing.T) {
	content := "Here you go:\n```json\n{\"course_name\": \"Pine Valley\"}\n```\nDone."
	got := extractJSONBlock(content)
	if got != `{"course_name": "Pine Valley"}` {
		t.Fatalf("unexpected block: %q", got)
	}
}

func TestExtractJSONBlockFallsBackToContent(t *testing.T) {
	content := `{"course_name": "Pine Valley"}`
	if got := extractJSONBlock(content); got != content {
		t.Fatalf("expected passthrough got %q", got)
	}
}

func TestDecodeMetadataNormalizesSlopeVariants(t *testing.T) {
	content := "```json\n{\"course_name\": \"Pine Valley\", \"slope\": \"N/A\"}\n```"
	meta, err := decodeMetadata(content)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if meta.CourseName == nil || *meta.CourseName != "Pine Valley" {
		t.Fatalf("expected course name got %+v", meta)
	}
}

func TestDecodeMetadataErrorCarriesRawText(t *testing.T) {
	_, err := decodeMetadata("```json\n{\"course_name\": not json}\n```")
	if err == nil {
		t.Fatalf("expected decode error")
	}
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected DecodeError got %T", err)
	}
	if de.Raw == "" {
		t.Fatalf("expected raw payload in decode error")
	}
}
