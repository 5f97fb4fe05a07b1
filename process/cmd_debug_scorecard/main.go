package main

import (
	"flag"
	"fmt"
	"log"

	"goltrip/pkg/scorecard"
)

// Runs the local (offline) pipeline stages on a single scorecard photo:
// OCR, row grouping, score-row extraction and name detection. No remote call.
func main() {
	f := flag.String("file", "", "scorecard image to analyze")
	showRows := flag.Bool("rows", false, "dump grouped rows")
	flag.Parse()
	if *f == "" {
		log.Fatalf("-file required")
	}
	rec, err := (&scorecard.TesseractRecognizer{}).Recognize(*f)
	if err != nil {
		log.Fatalf("ocr error: %v", err)
	}
	rows := scorecard.GroupRows(rec.Observations)
	if *showRows {
		for _, row := range rows {
			fmt.Printf("row key=%.2f:", row.Key)
			for _, obs := range row.Observations {
				fmt.Printf(" %q", obs.Text)
			}
			fmt.Println()
		}
	}
	scores := scorecard.ExtractScores(rows)
	name := scorecard.DetectPlayerName(rows)
	fmt.Printf("observations=%d rows=%d name=%q scores=%v\n", len(rec.Observations), len(rows), name, scores)
}
