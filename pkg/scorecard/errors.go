package scorecard

import (
	"errors"
	"fmt"
)

// ErrMissingAPIKey is returned before any network call when no credential is
// configured for the remote extractor.
var ErrMissingAPIKey = errors.New("missing OpenAI API key")

// ErrUnexpectedResponse is returned when the completion envelope does not
// have the expected choices/message shape.
var ErrUnexpectedResponse = errors.New("unexpected completion response structure")

// DecodeError reports a metadata payload that failed structural parsing
// after cleanup. Raw holds the cleaned text for diagnosis.
type DecodeError struct {
	Raw string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode scorecard metadata: %v (raw: %s)", e.Err, e.Raw)
}

func (e *DecodeError) Unwrap() error { return e.Err }
