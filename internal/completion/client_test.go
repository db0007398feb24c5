package completion

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{
	"id": "gen-1",
	"object": "chat.completion",
	"created": 1700000000,
	"model": "anthropic/claude-opus-4-6",
	"choices": [{"index": 0, "message": {"role": "assistant", "content": "hello"}, "finish_reason": "stop"}],
	"usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, APIKey: "sk-test", Referer: "https://example.test", Title: "Router Tests"}, nil), srv
}

func TestComplete_SendsHeadersAndDefaults(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "https://example.test", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Router Tests", r.Header.Get("X-Title"))

		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(okBody))
	})

	resp, err := client.Complete(context.Background(), "anthropic/claude-opus-4-6", []Message{{Role: "user", Content: "hi"}})
	require.NoError(t, err)

	assert.Equal(t, "gen-1", resp.ID)
	assert.Equal(t, "hello", resp.FirstContent())
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 15, resp.Usage.TotalTokens)

	assert.Len(t, body, 5)
	assert.Equal(t, "anthropic/claude-opus-4-6", body["model"])
	assert.Equal(t, float64(4096), body["max_tokens"])
	assert.Equal(t, 0.7, body["temperature"])
	assert.Equal(t, false, body["stream"])
	assert.Equal(t, []interface{}{map[string]interface{}{"role": "user", "content": "hi"}}, body["messages"])
}

func TestComplete_OptionsOverrideDefaults(t *testing.T) {
	var body map[string]interface{}
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		_, _ = w.Write([]byte(okBody))
	})

	_, err := client.Complete(context.Background(), "m", nil, WithMaxTokens(256), WithTemperature(0.1), WithStream(true))
	require.NoError(t, err)

	assert.Equal(t, float64(256), body["max_tokens"])
	assert.Equal(t, 0.1, body["temperature"])
	assert.Equal(t, true, body["stream"])
	assert.Equal(t, []interface{}{}, body["messages"])
}

func TestComplete_BackendMessageSurfaces(t *testing.T) {
	var calls int32
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit exceeded","type":"rate_limit","code":429}}`))
	})

	_, err := client.Complete(context.Background(), "m", []Message{{Role: "user", Content: "hi"}})
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	assert.Equal(t, "Rate limit exceeded", apiErr.Message)
	assert.Equal(t, "rate_limit", apiErr.Type)
	assert.Equal(t, "api error: Rate limit exceeded", err.Error())
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "exactly one attempt")
}

func TestComplete_UnparseableErrorBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("upstream exploded"))
	})

	_, err := client.Complete(context.Background(), "m", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "500")
	assert.True(t, IsAPIError(err))
}

func TestComplete_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := NewClient(Config{BaseURL: base, APIKey: "k"}, nil)
	_, err := client.Complete(context.Background(), "m", nil)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Zero(t, apiErr.StatusCode)
	assert.Contains(t, apiErr.Message, "request failed")
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestCalculateCost(t *testing.T) {
	client := NewClient(Config{}, nil)
	assert.Equal(t, 15.0, client.CalculateCost("anthropic/claude-opus-4-6", 1_000_000))
	assert.InDelta(t, 0.002, client.CalculateCost("unknown/model", 2000), 1e-12)
}

func TestGetModelInfo(t *testing.T) {
	t.Run("envelope", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/model", r.URL.Path)
			assert.Equal(t, "openai/gpt-4o", r.URL.Query().Get("model"))
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
			assert.Empty(t, r.Header.Get("Content-Type"))
			assert.Empty(t, r.Header.Get("X-Title"))
			_, _ = w.Write([]byte(`{"data":{"id":"openai/gpt-4o","name":"GPT-4o","context_length":128000}}`))
		})

		info := client.GetModelInfo(context.Background(), "openai/gpt-4o")
		require.NotNil(t, info)
		assert.Equal(t, "GPT-4o", info.Name)
		assert.Equal(t, 128000, info.ContextLength)
	})

	t.Run("bare object", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"google/gemini-2.5-flash","name":"Gemini Flash"}`))
		})

		info := client.GetModelInfo(context.Background(), "google/gemini-2.5-flash")
		require.NotNil(t, info)
		assert.Equal(t, "google/gemini-2.5-flash", info.ID)
	})

	t.Run("not found", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
		assert.Nil(t, client.GetModelInfo(context.Background(), "missing"))
	})

	t.Run("garbage", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>"))
		})
		assert.Nil(t, client.GetModelInfo(context.Background(), "m"))
	})
}
