package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FallbackMessage is substituted whenever no usable candidate text can be
// extracted from the upstream response. Genuine failures and legitimate
// off-topic refusals are deliberately indistinguishable to the caller; the
// actual cause is only logged server-side.
const FallbackMessage = "Sorry, I can only answer fitness, health, nutrition, or workout-related questions. Please ask something related to fitness!"

var (
	ErrAPIKeyMissing = errors.New("gemini: API key is not configured")
	ErrPromptMissing = errors.New("gemini: prompt is required")
)

// GeminiService relays a composed prompt to the generative-language HTTP API
// and normalizes the response to plain text. One outbound call per
// invocation, no retries, no state between calls.
type GeminiService struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewGeminiService(apiKey, baseURL, model string) *GeminiService {
	return &GeminiService{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		model:   model,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Request/response envelopes for models/{model}:generateContent.
type generatePart struct {
	Text string `json:"text"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []generatePart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Answer sends the prompt upstream and returns the first candidate's first
// part verbatim. Any upstream failure mode collapses into FallbackMessage
// with a nil error. The two typed errors are the only configuration and
// validation failures the handler distinguishes.
func (s *GeminiService) Answer(ctx context.Context, prompt string) (string, error) {
	if s.apiKey == "" {
		return "", ErrAPIKeyMissing
	}
	if prompt == "" {
		return "", ErrPromptMissing
	}

	reqBody, err := json.Marshal(generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		s.baseURL, s.model, url.QueryEscape(s.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("gemini: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		log.Printf("gemini: request failed: %v", err)
		return FallbackMessage, nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("gemini: read response: %v", err)
		return FallbackMessage, nil
	}

	var parsed generateResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("gemini: malformed response (status %d): %v", resp.StatusCode, err)
		return FallbackMessage, nil
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Printf("gemini: upstream status %d: %s", resp.StatusCode, truncate(body, 200))
		return FallbackMessage, nil
	}

	if parsed.Error != nil {
		log.Printf("gemini: upstream error (status %d): %s", resp.StatusCode, parsed.Error.Message)
		return FallbackMessage, nil
	}

	text := extractText(&parsed)
	if text == "" {
		log.Printf("gemini: no candidate text (status %d)", resp.StatusCode)
		return FallbackMessage, nil
	}

	return text, nil
}

func truncate(b []byte, n int) string {
	if len(b) > n {
		b = b[:n]
	}
	return string(b)
}

// extractText pulls the first candidate's first text part, if any.
func extractText(resp *generateResponse) string {
	if len(resp.Candidates) == 0 {
		return ""
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
