package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/hallucination-cache/internal/entity"
	"github.com/user/hallucination-cache/internal/repository"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", SiteURL: "http://site", AppName: "Cache", Timeout: 2 * time.Second})
}

func testRequest() entity.CompletionRequest {
	return entity.CompletionRequest{
		Model:    "vendor/model-a",
		Messages: []entity.Message{{Role: "user", Content: "hi"}},
		Params:   entity.SamplingParams{Temperature: 0.9, TopP: 0.95, MaxTokens: 12000},
	}
}

func TestComplete_SendsRequestAndReadsStringContent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "http://site", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Cache", r.Header.Get("X-Title"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "vendor/model-a", body["model"])
		assert.Equal(t, 0.9, body["temperature"])
		assert.Equal(t, 0.95, body["top_p"])
		assert.Equal(t, float64(12000), body["max_tokens"])
		assert.NotContains(t, body, "presence_penalty")

		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"<html></html>"}}]}`))
	})

	out, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "<html></html>", out)
}

func TestComplete_JoinsContentParts(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":[{"type":"text","text":"<p>a</p>"},"<p>b</p>",{"type":"image"}]}}]}`))
	})

	out, err := client.Complete(context.Background(), testRequest())
	require.NoError(t, err)
	assert.Equal(t, "<p>a</p>\n<p>b</p>\n", out)
}

func TestComplete_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		auth   bool
	}{
		{"unauthorized", http.StatusUnauthorized, `{"error":"nope"}`, true},
		{"user not found", http.StatusForbidden, `{"error":{"message":"User not found."}}`, true},
		{"invalid key", http.StatusBadRequest, `Invalid API key provided`, true},
		{"rate limited", http.StatusTooManyRequests, `slow down`, false},
		{"server error", http.StatusBadGateway, strings.Repeat("x", 1000), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Complete(context.Background(), testRequest())
			require.Error(t, err)

			var se *repository.StatusError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.status, se.StatusCode)
			assert.LessOrEqual(t, len(se.Body), maxErrorBody)
			assert.Equal(t, tt.auth, errors.Is(err, repository.ErrAuthentication))
			assert.Equal(t, !tt.auth, errors.Is(err, repository.ErrUpstreamStatus))
		})
	}
}

func TestComplete_MalformedResponses(t *testing.T) {
	for name, body := range map[string]string{
		"not json":   `<html>gateway</html>`,
		"no choices": `{"choices":[]}`,
		"empty":      `{"choices":[{"message":{"content":"  "}}]}`,
		"null":       `{"choices":[{"message":{"content":null}}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(body))
			})
			_, err := client.Complete(context.Background(), testRequest())
			assert.ErrorIs(t, err, repository.ErrMalformedResponse)
		})
	}
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: url})
	_, err := client.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, repository.ErrTransport)
}

func TestComplete_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() { close(release); srv.Close() })

	client := NewClient(Config{APIKey: "k", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := client.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, repository.ErrTransport)
}

func TestComplete_MissingKeyIsAuthFailure(t *testing.T) {
	client := NewClient(Config{})
	_, err := client.Complete(context.Background(), testRequest())
	assert.ErrorIs(t, err, repository.ErrAuthentication)
}
