package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const DefaultGeminiModel = "gemini-2.5-flash"

var (
	ErrMissingAPIKey = errors.New("missing gemini api key")
	ErrEmptyResponse = errors.New("empty gemini response")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gemini api error: status %d", e.StatusCode)
}

type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewGeminiClient(client *http.Client, apiKey, model string) *GeminiClient {
	if model == "" {
		model = DefaultGeminiModel
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &GeminiClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  client,
	}
}

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 4 << 20

func (g *GeminiClient) Configured() bool {
	return g.apiKey != ""
}

// Generate sends a single-turn prompt to generateContent and returns the
// first candidate's first text part.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (Response, error) {
	if g.apiKey == "" {
		return Response{}, ErrMissingAPIKey
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, err
	}

	u := fmt.Sprintf("%s/models/%s:generateContent?key=%s",
		g.baseURL,
		url.PathEscape(g.model),
		url.QueryEscape(g.apiKey),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewBuffer(body))
	if err != nil {
		return Response{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Response{}, err
	}
	out := Response{Raw: string(raw)}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return out, &StatusError{StatusCode: resp.StatusCode}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return out, err
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return out, ErrEmptyResponse
	}

	out.Text = result.Candidates[0].Content.Parts[0].Text
	return out, nil
}
