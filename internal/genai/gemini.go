// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package genai wraps the Generative AI API used by the planning,
// extraction, and summary stages. Every call is single-turn and stateless.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/research-agent/internal/httputil"
	"github.com/pdiddy/research-agent/pkg/types"
)

// Client is the single-turn text generation interface. Stages depend on
// this so tests can supply a mock.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// geminiAPIBase is the Gemini API base URL. Declared as a var so tests can
// substitute an httptest server.
var geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta"

const defaultModel = "gemini-2.0-flash"

// GeminiBackend calls the Gemini generateContent API.
type GeminiBackend struct {
	APIKey     string
	Model      string
	Client     *http.Client
	MaxRetries int
}

// NewGemini builds a backend from AI configuration. The HTTP client carries
// the configured per-call timeout.
func NewGemini(cfg types.AIConfig) *GeminiBackend {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = defaultModel
	}
	return &GeminiBackend{
		APIKey:     cfg.APIKey,
		Model:      model,
		Client:     &http.Client{Timeout: timeout},
		MaxRetries: cfg.MaxRetries,
	}
}

// Gemini generateContent JSON structures.
type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content geminiContent `json:"content"`
}

// Generate sends one prompt and returns the model's trimmed text response.
func (b *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", geminiAPIBase, b.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", b.APIKey)

	client := b.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := httputil.DoWithRetry(ctx, client, req, b.MaxRetries)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	if len(gResp.Candidates) == 0 {
		return "", fmt.Errorf("Gemini API returned no candidates")
	}

	var b2 strings.Builder
	for _, part := range gResp.Candidates[0].Content.Parts {
		b2.WriteString(part.Text)
	}
	text := strings.TrimSpace(b2.String())
	if text == "" {
		return "", fmt.Errorf("Gemini API returned empty text")
	}
	return text, nil
}
