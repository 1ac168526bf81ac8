package generativeAI

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-travel-recommendations/internal/types"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestOpenAIClient_Generate(t *testing.T) {
	t.Run("sends system and user messages in json mode", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "gpt-test", body["model"])
			msgs := body["messages"].([]any)
			require.Len(t, msgs, 2)
			assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
			assert.Equal(t, "user", msgs[1].(map[string]any)["role"])
			assert.Equal(t, "json_object", body["response_format"].(map[string]any)["type"])

			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":" {\"places\":[]} "},"finish_reason":"stop"}]}`)
		}))
		defer srv.Close()

		c, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-test", Timeout: 2 * time.Second}, testLogger())
		require.NoError(t, err)
		assert.True(t, c.StrictJSON())

		out, err := c.Generate(context.Background(), "recommend", GenerationConfig{SystemInstruction: "be a guide", Temperature: 0.7, JSON: true})
		require.NoError(t, err)
		assert.Equal(t, `{"places":[]}`, out)
	})

	t.Run("api error is upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = io.WriteString(w, `{"error":{"message":"slow down","type":"rate_limit"}}`)
		}))
		defer srv.Close()

		c, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
		require.NoError(t, err)
		_, err = c.Generate(context.Background(), "recommend", GenerationConfig{})
		assert.ErrorIs(t, err, types.ErrUpstream)
	})

	t.Run("no choices is upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id":"c1","object":"chat.completion","choices":[]}`)
		}))
		defer srv.Close()

		c, err := NewOpenAIClient(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL}, testLogger())
		require.NoError(t, err)
		_, err = c.Generate(context.Background(), "recommend", GenerationConfig{})
		assert.ErrorIs(t, err, types.ErrUpstream)
	})

	t.Run("requires api key", func(t *testing.T) {
		_, err := NewOpenAIClient(OpenAIConfig{}, testLogger())
		assert.Error(t, err)
	})
}

func TestAIClient_Generate(t *testing.T) {
	t.Run("returns candidate text", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"candidates":[{"content":{"role":"model","parts":[{"text":"`+"```json\\n{\\\"places\\\":[]}\\n```"+`"}]}}]}`)
		}))
		defer srv.Close()

		c, err := NewAIClient(context.Background(), GeminiConfig{APIKey: "g-test", Model: "gemini-test", BaseURL: srv.URL, Timeout: 2 * time.Second}, testLogger())
		require.NoError(t, err)
		assert.False(t, c.StrictJSON())

		out, err := c.Generate(context.Background(), "recommend", GenerationConfig{SystemInstruction: "be a guide", Temperature: 0.7})
		require.NoError(t, err)
		assert.Contains(t, out, `{"places":[]}`)
	})

	t.Run("server error is upstream", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = io.WriteString(w, `{"error":{"code":500,"message":"internal","status":"INTERNAL"}}`)
		}))
		defer srv.Close()

		c, err := NewAIClient(context.Background(), GeminiConfig{APIKey: "g-test", BaseURL: srv.URL}, testLogger())
		require.NoError(t, err)
		_, err = c.Generate(context.Background(), "recommend", GenerationConfig{})
		assert.ErrorIs(t, err, types.ErrUpstream)
	})

	t.Run("requires api key", func(t *testing.T) {
		_, err := NewAIClient(context.Background(), GeminiConfig{}, testLogger())
		assert.Error(t, err)
	})
}
