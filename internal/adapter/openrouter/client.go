package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	DefaultTimeout = 120 * time.Second

	maxErrorBody = 400
)

// Config holds the connection settings for the OpenRouter API.
type Config struct {
	APIKey  string
	BaseURL string
	SiteURL string
	AppName string
	Timeout time.Duration
}

// Client calls the OpenRouter chat completions endpoint.
type Client struct {
	cfg  Config
	http *http.Client
}

var _ repository.CompletionClient = (*Client)(nil)

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{cfg: cfg, http: &http.Client{}}
}

type chatRequest struct {
	Model    string           `json:"model"`
	Messages []entity.Message `json:"messages"`
	entity.SamplingParams
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content json.RawMessage `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends one request and returns the text of the first choice. Each
// call is bounded by the configured timeout.
func (c *Client) Complete(ctx context.Context, req entity.CompletionRequest) (string, error) {
	if c.cfg.APIKey == "" {
		return "", fmt.Errorf("%w: OPENROUTER_API_KEY is not set", repository.ErrAuthentication)
	}

	body, err := json.Marshal(chatRequest{Model: req.Model, Messages: req.Messages, SamplingParams: req.Params})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.SiteURL != "" {
		httpReq.Header.Set("HTTP-Referer", c.cfg.SiteURL)
	}
	if c.cfg.AppName != "" {
		httpReq.Header.Set("X-Title", c.cfg.AppName)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: reading body: %v", repository.ErrTransport, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(raw)
		return "", &repository.StatusError{
			StatusCode: resp.StatusCode,
			Body:       truncate(text, maxErrorBody),
			Auth:       IsAuthFailure(resp.StatusCode, text),
		}
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("%w: %v", repository.ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices", repository.ErrMalformedResponse)
	}
	content := parseContent(parsed.Choices[0].Message.Content)
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("%w: empty content", repository.ErrMalformedResponse)
	}
	return content, nil
}

// IsAuthFailure reports whether a failed response means the credentials are
// unusable, in which case trying other models is pointless.
func IsAuthFailure(status int, body string) bool {
	if status == http.StatusUnauthorized {
		return true
	}
	lower := strings.ToLower(body)
	return strings.Contains(lower, "user not found") || strings.Contains(lower, "invalid api key")
}

// parseContent accepts either a plain string or an array of parts, where each
// part is a string or an object with a text field.
func parseContent(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var parts []json.RawMessage
	if err := json.Unmarshal(raw, &parts); err != nil {
		return ""
	}
	texts := make([]string, 0, len(parts))
	for _, p := range parts {
		var str string
		if json.Unmarshal(p, &str) == nil {
			texts = append(texts, str)
			continue
		}
		var obj struct {
			Text *string `json:"text"`
		}
		if json.Unmarshal(p, &obj) == nil && obj.Text != nil {
			texts = append(texts, *obj.Text)
			continue
		}
		texts = append(texts, "")
	}
	return strings.Join(texts, "\n")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.ToValidUTF8(s[:n], "")
}
