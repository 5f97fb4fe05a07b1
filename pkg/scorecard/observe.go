package scorecard

import (
	"fmt"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// BoundingBox is a text fragment's location normalized to [0,1] in both
// axes, origin top-left.
type BoundingBox struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// MidY returns the vertical midpoint, the row-grouping coordinate.
func (b BoundingBox) MidY() float64 {
	return (b.MinY + b.MaxY) / 2
}

// TextObservation is one recognized text fragment with its location and
// recognition confidence (0..1).
type TextObservation struct {
	Text       string
	Box        BoundingBox
	Confidence float64
}

// Recognition is the output of one OCR pass over one image.
type Recognition struct {
	// Text is the full recognized text in reading order.
	Text string
	// Observations are the word-level fragments with positions.
	Observations []TextObservation
}

// Recognizer converts an image file into positioned text fragments.
type Recognizer interface {
	Recognize(path string) (*Recognition, error)
}

// TesseractRecognizer runs Tesseract over a lightly preprocessed copy of the
// image and reports word-level observations.
type TesseractRecognizer struct {
	Language string // tesseract language code, default "eng"
}

func (r *TesseractRecognizer) language() string {
	if r == nil || r.Language == "" {
		return "eng"
	}
	return r.Language
}

// Recognize performs grayscale/contrast/sharpen preprocessing, upscales small
// photos, then extracts text plus word bounding boxes. Boxes are normalized
// against the preprocessed image dimensions.
func (r *TesseractRecognizer) Recognize(path string) (*Recognition, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open image: %w", err)
	}
	gray := imaging.Grayscale(img)
	gray = imaging.AdjustContrast(gray, 15)
	gray = imaging.Sharpen(gray, 0.7)
	if gray.Bounds().Dy() < 900 {
		gray = imaging.Resize(gray, 0, 1300, imaging.Lanczos)
	}

	tmp := path
	if tmpFile, err := os.CreateTemp("", "scorecard-ocr-*.png"); err == nil {
		tmp = tmpFile.Name()
		_ = tmpFile.Close()
		if err := imaging.Save(gray, tmp); err != nil {
			tmp = path
		}
	}
	if tmp != path {
		defer os.Remove(tmp)
	}

	client := gosseract.NewClient()
	defer client.Close()
	if err := client.SetLanguage(r.language()); err != nil {
		return nil, fmt.Errorf("set language: %w", err)
	}
	if err := client.SetImage(tmp); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}
	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("ocr failed: %w", err)
	}

	rec := &Recognition{Text: strings.TrimSpace(text)}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		// Full text is still usable for the remote extractor; local
		// row detection just sees no observations.
		return rec, nil
	}
	w := float64(gray.Bounds().Dx())
	h := float64(gray.Bounds().Dy())
	if w == 0 || h == 0 {
		return rec, nil
	}
	rec.Observations = make([]TextObservation, 0, len(boxes))
	for _, box := range boxes {
		word := strings.TrimSpace(box.Word)
		if word == "" {
			continue
		}
		rec.Observations = append(rec.Observations, TextObservation{
			Text:       word,
			Confidence: box.Confidence / 100.0,
			Box: BoundingBox{
				MinX: float64(box.Box.Min.X) / w,
				MinY: float64(box.Box.Min.Y) / h,
				MaxX: float64(box.Box.Max.X) / w,
				MaxY: float64(box.Box.Max.Y) / h,
			},
		})
	}
	return rec, nil
}
