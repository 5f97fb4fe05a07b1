package scorecard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4-turbo"
	maxTokens      = 1500

	// Remote calls get a bounded timeout instead of waiting forever; there
	// is no automatic retry, failed extractions are re-initiated by the
	// user.
	defaultTimeout = 60 * time.Second
)

// systemPrompt restricts extraction to identity/course metadata. Scores,
// holes and par are derived locally and must not come from the model.
const systemPrompt = `You are a golf scorecard parser. You will receive raw OCR text from a scorecard image. Extract ONLY the following fields:

1. player_name — if clearly legible
2. course_name — if printed or readable
3. tee_color — if clearly marked

Do NOT include player scores, hole numbers, or par information. Return structured JSON with just these fields.`

// MetadataExtractor turns raw OCR text into scorecard metadata.
type MetadataExtractor interface {
	ExtractMetadata(ctx context.Context, ocrText string) (*ScorecardMetadata, error)
}

// Extractor calls an OpenAI-style chat-completions endpoint.
type Extractor struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
}

// NewExtractor builds an Extractor with the default endpoint, model and
// timeout. baseURL overrides the endpoint when non-empty (tests, proxies).
func NewExtractor(apiKey, baseURL string) *Extractor {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Extractor{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		Model:      defaultModel,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// ExtractMetadata sends the combined OCR text to the completion endpoint and
// decodes the JSON payload embedded in the reply. It fails fast with
// ErrMissingAPIKey when no credential is configured.
func (e *Extractor) ExtractMetadata(ctx context.Context, ocrText string) (*ScorecardMetadata, error) {
	if e.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	body := chatRequest{
		Model: e.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: "Here is the OCR text from a scorecard:\n\n" + ocrText},
		},
		MaxTokens: maxTokens,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.BaseURL+"/v1/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build completion request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+e.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("completion endpoint status %d: %s", resp.StatusCode, snippet(string(raw), 200))
	}

	var envelope chatResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}
	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		log.Printf("completion raw response snippet=%q", snippet(string(raw), 200))
		return nil, ErrUnexpectedResponse
	}
	return decodeMetadata(envelope.Choices[0].Message.Content)
}
