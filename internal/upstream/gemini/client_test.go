package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ratescope/api/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return New(config.GeminiConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Model:   "gemini-1.5-flash",
	}, zerolog.Nop())
}

func TestGenerateTextSuccess(t *testing.T) {
	var gotPath string
	var gotPrompt string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		var req struct {
			Contents []struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"contents"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotPrompt = req.Contents[0].Parts[0].Text

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello from the model"}]}}]}`))
	})

	text, err := client.GenerateText(context.Background(), "say hello")
	require.NoError(t, err)

	assert.Equal(t, "hello from the model", text)
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)
	assert.Equal(t, "say hello", gotPrompt)
}

func TestGenerateTextProviderError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateTextEmptyCandidates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateText(context.Background(), "prompt")
	assert.Error(t, err)
}

func TestGenerateTextNotConfigured(t *testing.T) {
	client := New(config.GeminiConfig{BaseURL: "http://127.0.0.1:1", Model: "gemini-1.5-flash"}, zerolog.Nop())

	_, err := client.GenerateText(context.Background(), "prompt")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
