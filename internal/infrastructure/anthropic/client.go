// Package anthropic is a minimal client for the Anthropic messages API,
// covering the single "create completion" call the assistant needs.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	messagesPath   = "/v1/messages"
	apiVersion     = "2023-06-01"
	defaultModel   = "claude-3-opus-20240229"
	defaultTimeout = 120 * time.Second
)

// Config carries the injected credentials and model selection. The API key
// is never embedded anywhere; it arrives from configuration.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
}

// Client handles communication with the completion endpoint.
type Client struct {
	httpClient *http.Client
	cfg        Config
}

// NewClient creates a completion client. Zero-valued optional fields of cfg
// get defaults; the API key is required.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 1000
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		cfg: cfg,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

// contentFragment is one typed block of the response content. Only "text"
// fragments are consumed; everything else is skipped.
type contentFragment struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type messagesResponse struct {
	Content []contentFragment `json:"content"`
}

type errorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one user utterance under the given system instruction and
// returns the concatenation of all text fragments of the reply, in order.
func (c *Client) Complete(ctx context.Context, system, input string) (string, error) {
	reqBody := messagesRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    system,
		Messages: []message{
			{Role: "user", Content: input},
		},
	}

	encoded, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+messagesPath, bytes.NewReader(encoded))
	if err != nil {
		return "", fmt.Errorf("failed to create completion request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute completion request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error.Message == "" {
			return "", fmt.Errorf("completion request failed with status %d: %s", resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("completion request failed (status %d): %s - %s", resp.StatusCode, errResp.Error.Type, errResp.Error.Message)
	}

	var decoded messagesResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", fmt.Errorf("failed to unmarshal completion response: %w", err)
	}

	var text bytes.Buffer
	for _, fragment := range decoded.Content {
		if fragment.Type == "text" {
			text.WriteString(fragment.Text)
		}
	}

	return text.String(), nil
}
