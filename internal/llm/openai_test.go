package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capture-gpt/backend/internal/prompts"
)

// newTestClient points a Client at a mock OpenAI server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, APIKey: "sk-test"}, nil, nil)
}

// TestClient_Complete verifies request construction and the mapping of every
// failure mode to reply text.
//
// GOAL: Complete must never return an empty string and never surface an
// error, whatever the API does.
func TestClient_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		var captured chatRequest
		var auth, path string
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			auth = r.Header.Get("Authorization")
			path = r.URL.Path
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Here are the notes."}}]}`))
		})

		// ACT
		out := client.Complete(ctx, "Summarize this", true, "gpt-4-turbo")

		// ASSERT
		assert.Equal(t, "Here are the notes.", out)
		assert.Equal(t, "Bearer sk-test", auth)
		assert.Equal(t, "/chat/completions", path)
		assert.Equal(t, "gpt-4-turbo", captured.Model)
		assert.Equal(t, 2000, captured.MaxTokens)
		assert.InDelta(t, 0.7, captured.Temperature, 1e-9)
		assert.False(t, captured.Stream)
		require.Len(t, captured.Messages, 2)
		assert.Equal(t, "system", captured.Messages[0].Role)
		assert.Contains(t, captured.Messages[0].Content, "Frame.io Workflow")
		assert.Equal(t, chatMessage{Role: "user", Content: "Summarize this"}, captured.Messages[1])
	})

	t.Run("Unknown model resolves to default", func(t *testing.T) {
		var captured chatRequest
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
			_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
		})

		client.Complete(ctx, "hi", false, "does-not-exist")

		assert.Equal(t, "gpt-4o", captured.Model)
		assert.Equal(t, 4000, captured.MaxTokens)
		assert.NotContains(t, captured.Messages[0].Content, "Frame.io Workflow")
	})

	t.Run("API error with message", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided"}}`))
		})

		out := client.Complete(ctx, "hi", false, "")

		assert.Equal(t, "❌ Error: OpenAI API Error: Incorrect API key provided. Please check your API key and try again.", out)
	})

	t.Run("API error without body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		})

		out := client.Complete(ctx, "hi", false, "")

		assert.Contains(t, out, "OpenAI API Error: Unknown error")
	})

	t.Run("Undecodable body", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>oops</html>`))
		})

		out := client.Complete(ctx, "hi", false, "")

		assert.True(t, strings.HasPrefix(out, "❌ Error:"))
	})

	t.Run("Empty choices", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices":[]}`))
		})

		out := client.Complete(ctx, "hi", false, "")

		assert.Contains(t, out, "no choices")
	})

	t.Run("Network failure", func(t *testing.T) {
		server := httptest.NewServer(http.NotFoundHandler())
		url := server.URL
		server.Close()
		client := NewClient(Config{BaseURL: url, APIKey: "sk-test"}, nil, nil)

		out := client.Complete(ctx, "hi", false, "")

		assert.True(t, strings.HasPrefix(out, "❌ Error: request failed"))
	})

	t.Run("Timeout", func(t *testing.T) {
		// The handler holds the request until the test releases it; the
		// server cannot observe the client leaving while the body is unread.
		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		client := NewClient(Config{BaseURL: server.URL, APIKey: "sk-test", Timeout: 50 * time.Millisecond}, nil, nil)

		start := time.Now()
		out := client.Complete(ctx, "hi", false, "")
		close(release)

		assert.True(t, strings.HasPrefix(out, "❌ Error:"))
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestClient_MissingKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	for _, key := range []string{"", "  ", PlaceholderAPIKey} {
		client := NewClient(Config{BaseURL: server.URL, APIKey: key}, nil, nil)
		assert.False(t, client.Configured())

		out := client.Complete(context.Background(), "hi", false, "")
		assert.Contains(t, out, "OPENAI_API_KEY")

		var frags []Fragment
		for f := range client.Stream(context.Background(), "hi", false, "") {
			frags = append(frags, f)
		}
		require.Len(t, frags, 1)
		assert.True(t, frags[0].Err)
	}
	assert.False(t, called, "no network attempt without a key")
}

func sseHandler(t *testing.T, lines ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.Stream)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, l := range lines {
			_, _ = fmt.Fprintf(w, "%s\n", l)
		}
	}
}

func drain(ch <-chan Fragment) []Fragment {
	var out []Fragment
	for f := range ch {
		out = append(out, f)
	}
	return out
}

// TestClient_Stream covers SSE parsing of the incremental reply.
func TestClient_Stream(t *testing.T) {
	ctx := context.Background()

	t.Run("Fragments in order until DONE", func(t *testing.T) {
		client := newTestClient(t, sseHandler(t,
			`data: {"choices":[{"delta":{"role":"assistant"}}]}`,
			"",
			`data: {"choices":[{"delta":{"content":"Hel"}}]}`,
			`: keep-alive comment`,
			`data: not json`,
			`data: {"choices":[{"delta":{"content":"lo"}}]}`,
			`data: [DONE]`,
			`data: {"choices":[{"delta":{"content":"ignored"}}]}`,
		))

		frags := drain(client.Stream(ctx, "hi", false, ""))

		assert.Equal(t, []Fragment{{Text: "Hel"}, {Text: "lo"}}, frags)
	})

	t.Run("Body ends without DONE", func(t *testing.T) {
		client := newTestClient(t, sseHandler(t, `data:{"choices":[{"delta":{"content":"partial"}}]}`))

		assert.Equal(t, "partial", Collect(client.Stream(ctx, "hi", false, "")))
	})

	t.Run("API error is a single final fragment", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached"}}`))
		})

		frags := drain(client.Stream(ctx, "hi", false, ""))

		require.Len(t, frags, 1)
		assert.True(t, frags[0].Err)
		assert.Equal(t, "❌ Error: OpenAI API Error: Rate limit reached. Please check your API key and try again.", frags[0].Text)
	})

	t.Run("Cancellation stops delivery", func(t *testing.T) {
		release := make(chan struct{})
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.Copy(io.Discard, r.Body)
			w.Header().Set("Content-Type", "text/event-stream")
			_, _ = fmt.Fprintln(w, `data: {"choices":[{"delta":{"content":"first"}}]}`)
			w.(http.Flusher).Flush()
			select {
			case <-release:
			case <-r.Context().Done():
			}
		})
		defer close(release)

		cctx, cancel := context.WithCancel(ctx)
		ch := client.Stream(cctx, "hi", false, "")

		first := <-ch
		assert.Equal(t, "first", first.Text)
		cancel()

		for f := range ch {
			assert.False(t, f.Err, "cancellation must not produce an error fragment")
		}
	})
}

func TestReadEvents_StopsWhenCallbackDeclines(t *testing.T) {
	body := strings.NewReader("data: a\ndata: b\ndata: c\n")
	var seen []string

	err := readEvents(body, func(data []byte) bool {
		seen = append(seen, string(data))
		return len(seen) < 2
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestNewClient_Defaults(t *testing.T) {
	lib, err := prompts.NewLibrary("kb")
	require.NoError(t, err)

	c := NewClient(Config{BaseURL: "http://example.test/v1/", APIKey: "k"}, DefaultRegistry(), lib)

	assert.Equal(t, "http://example.test/v1", c.baseURL)
	assert.Equal(t, DefaultTimeout, c.timeout)
	assert.True(t, c.Configured())
	assert.Equal(t, DefaultBaseURL, NewClient(Config{}, nil, nil).baseURL)
}
