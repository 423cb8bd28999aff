package generate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"curriculos/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.LLMConfig{BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestClient_Complete(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer gsk_test", r.Header.Get("Authorization"))

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "llama-3.3-70b-versatile", req["model"])

		json.NewEncoder(w).Encode(map[string]any{
			"model": "llama-3.3-70b-versatile",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "hello"}},
			},
		})
	})

	text, err := client.Complete(context.Background(), "gsk_test", "llama-3.3-70b-versatile", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)
}

func TestClient_StatusMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, ErrUnauthorized},
		{http.StatusTooManyRequests, ErrQuota},
	}
	for _, tt := range tests {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		})
		_, err := client.Complete(context.Background(), "gsk_x", "m", "p")
		assert.ErrorIs(t, err, tt.wantErr, "status %d", tt.status)
	}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err := client.Complete(context.Background(), "gsk_x", "m", "p")
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestClient_Test(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"model": "llama-3.3-70b-versatile",
			"choices": []map[string]any{
				{"message": map[string]string{"content": "OK"}},
			},
		})
	})

	model, err := client.Test(context.Background(), "gsk_test", "llama-3.3-70b-versatile")
	require.NoError(t, err)
	assert.Equal(t, "llama-3.3-70b-versatile", model)
}

func TestExtractJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{
			name: "fenced json block",
			in:   "Here you go:\n```json\n{\"a\":1}\n```\nDone.",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "fenced block without language tag",
			in:   "```\n{\"a\":1}\n```",
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "bare object",
			in:   `{"a":1}`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "object buried in prose",
			in:   `Sure! The result is {"a":1} as requested.`,
			want: `{"a":1}`,
			ok:   true,
		},
		{
			name: "no json at all",
			in:   "I cannot help with that.",
			ok:   false,
		},
		{
			name: "broken json",
			in:   `{"a":`,
			ok:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			raw, ok := ExtractJSON(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.JSONEq(t, tt.want, string(raw))
			}
		})
	}
}
