package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"curriculos/internal/config"
)

// Sentinel errors for the two API failure modes the UI treats specially.
var (
	ErrUnauthorized = errors.New("api key rejected")
	ErrQuota        = errors.New("api quota exceeded")
)

// StatusError is any other non-2xx response from the completion API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api status %d", e.Code)
}

// Client calls an OpenAI-compatible chat-completions API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a completion client from the LLM config.
func NewClient(cfg config.LLMConfig) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends one user prompt and returns the assistant's text.
func (c *Client) Complete(ctx context.Context, key, model, prompt string) (string, error) {
	resp, err := c.post(ctx, key, chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   8000,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("response has no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Test verifies a key with a minimal request and returns the model name the
// API answered with.
func (c *Client) Test(ctx context.Context, key, model string) (string, error) {
	resp, err := c.post(ctx, key, chatRequest{
		Model:     model,
		Messages:  []chatMessage{{Role: "user", Content: "Reply with only: OK"}},
		MaxTokens: 5,
	})
	if err != nil {
		return "", err
	}
	if resp.Model != "" {
		return resp.Model, nil
	}
	return model, nil
}

func (c *Client) post(ctx context.Context, key string, payload chatRequest) (*chatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("completion request: %w", err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	case res.StatusCode == http.StatusTooManyRequests:
		return nil, ErrQuota
	case res.StatusCode < 200 || res.StatusCode > 299:
		return nil, &StatusError{Code: res.StatusCode}
	}

	var out chatResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

var fencedBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)```")

// ExtractJSON pulls a JSON object out of LLM output: a fenced code block
// first, then the whole text, then the outermost brace pair.
func ExtractJSON(text string) (json.RawMessage, bool) {
	if m := fencedBlockRe.FindStringSubmatch(text); m != nil {
		if raw, ok := validObject(strings.TrimSpace(m[1])); ok {
			return raw, true
		}
	}

	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") {
		if raw, ok := validObject(trimmed); ok {
			return raw, true
		}
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start != -1 && end > start {
		if raw, ok := validObject(text[start : end+1]); ok {
			return raw, true
		}
	}
	return nil, false
}

func validObject(s string) (json.RawMessage, bool) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &probe); err != nil {
		return nil, false
	}
	return json.RawMessage(s), true
}
