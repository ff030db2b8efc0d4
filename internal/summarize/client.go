// Package summarize turns a session's conversation digest into a short
// narrative, via an external model when configured and a deterministic
// fallback otherwise.
package summarize

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/scottatron-wd/devday/internal/logger"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"

	// requestTimeout bounds every individual summarization call. A call
	// that exceeds it is cancelled and counts as a plain failure.
	requestTimeout = 25 * time.Second

	maxBodySize     = 1 << 20 // 1 MB
	maxOutputTokens = 1024
)

// Client calls the Anthropic Messages API. The zero-value contract is
// uniform failure: network errors, non-success statuses, and malformed
// bodies all surface as ok=false, never as a panic or a partial result.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a different endpoint. Used by tests.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) { c.baseURL = url }
}

// NewClient builds a client for the given key and model. An empty key
// yields nil, which the pipeline treats as "summarizer disabled".
func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	if apiKey == "" {
		return nil
	}
	c := &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		http:    &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"content"`
}

// Complete sends one request and returns the concatenated text content.
// Any failure returns ("", false); the ladder above decides what happens
// next.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	body, err := json.Marshal(messagesRequest{
		Model:     c.model,
		MaxTokens: maxOutputTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-Key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		logger.Debug("summarize: request failed: %v", err)
		return "", false
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Debug("summarize: unexpected status %d", resp.StatusCode)
		return "", false
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", false
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false
	}

	var text string
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", false
	}
	return text, true
}
