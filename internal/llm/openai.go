// Package llm talks to an OpenAI-compatible chat-completion API. Every
// failure is reported as reply text so callers can append it to the
// conversation like any other answer.
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"capture-gpt/backend/internal/prompts"
)

const (
	// DefaultBaseURL is the public OpenAI API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// PlaceholderAPIKey is the example value shipped in .env templates.
	PlaceholderAPIKey = "your_openai_api_key_here"
	// DefaultTimeout bounds a blocking completion.
	DefaultTimeout = 60 * time.Second

	missingKeyText = "🔑 Please set your OpenAI API key. Add it to the .env file in the working directory:\nOPENAI_API_KEY=your_actual_api_key"

	maxEventSize = 1 << 20
)

// Fragment is one piece of an incrementally delivered reply. A fragment with
// Err set carries error text and is always the last one on its channel.
type Fragment struct {
	Text string
	Err  bool
}

// Completer produces assistant replies. Implementations never return Go
// errors: failures come back as reply text.
type Completer interface {
	Complete(ctx context.Context, prompt string, useKnowledge bool, modelID string) string
	Stream(ctx context.Context, prompt string, useKnowledge bool, modelID string) <-chan Fragment
}

// Config holds the connection settings of a Client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client is a Completer backed by the /chat/completions endpoint.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	timeout time.Duration
	models  *Registry
	prompts *prompts.Library
}

// NewClient builds a Client. Nil registry or library select the built-in ones.
func NewClient(cfg Config, models *Registry, lib *prompts.Library) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if models == nil {
		models = DefaultRegistry()
	}
	if lib == nil {
		lib = prompts.DefaultLibrary()
	}
	return &Client{
		// No client-wide timeout: it would cut long streams short.
		client:  &http.Client{},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		timeout: cfg.Timeout,
		models:  models,
		prompts: lib,
	}
}

// Configured reports whether an API key other than the placeholder is set.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != PlaceholderAPIKey
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
	Stream      bool          `json:"stream,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

type apiErrorBody struct {
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete sends one blocking completion request and returns the reply text.
func (c *Client) Complete(ctx context.Context, prompt string, useKnowledge bool, modelID string) string {
	if !c.Configured() {
		return missingKeyText
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.post(ctx, c.request(prompt, useKnowledge, modelID, false))
	if err != nil {
		slog.Error("Completion request failed", "error", err)
		return errorText(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("Could not read completion response", "error", err)
		return errorText(fmt.Errorf("could not read response: %w", err))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		slog.Error("Could not decode completion response", "error", err)
		return errorText(fmt.Errorf("could not decode response: %w", err))
	}
	if len(out.Choices) == 0 {
		return errorText(errors.New("the API returned no choices"))
	}
	return out.Choices[0].Message.Content
}

// Stream sends a streaming completion request. The channel is closed when
// the server sends [DONE], the body ends or ctx is cancelled. Failures are
// delivered as a single final fragment with Err set.
func (c *Client) Stream(ctx context.Context, prompt string, useKnowledge bool, modelID string) <-chan Fragment {
	ch := make(chan Fragment)
	go func() {
		defer close(ch)
		if !c.Configured() {
			send(ctx, ch, Fragment{Text: missingKeyText, Err: true})
			return
		}

		resp, err := c.post(ctx, c.request(prompt, useKnowledge, modelID, true))
		if err != nil {
			if ctx.Err() == nil {
				slog.Error("Streaming request failed", "error", err)
				send(ctx, ch, Fragment{Text: errorText(err), Err: true})
			}
			return
		}
		defer resp.Body.Close()

		err = readEvents(resp.Body, func(data []byte) bool {
			var chunk streamChunk
			if err := json.Unmarshal(data, &chunk); err != nil {
				slog.Debug("Skipping malformed stream record", "error", err)
				return true
			}
			if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
				return true
			}
			return send(ctx, ch, Fragment{Text: chunk.Choices[0].Delta.Content})
		})
		if err != nil && ctx.Err() == nil {
			slog.Error("Stream interrupted", "error", err)
			send(ctx, ch, Fragment{Text: errorText(err), Err: true})
		}
	}()
	return ch
}

// Collect drains a fragment channel into a single string.
func Collect(ch <-chan Fragment) string {
	var b strings.Builder
	for f := range ch {
		b.WriteString(f.Text)
	}
	return b.String()
}

func (c *Client) request(prompt string, useKnowledge bool, modelID string, stream bool) chatRequest {
	m := c.models.Resolve(modelID)
	return chatRequest{
		Model: m.ID,
		Messages: []chatMessage{
			{Role: "system", Content: c.prompts.System(useKnowledge)},
			{Role: "user", Content: prompt},
		},
		Temperature: m.Temperature,
		MaxTokens:   m.MaxTokens,
		Stream:      stream,
	}
}

// post issues the request and converts non-2xx responses into errors
// carrying the API's error message.
func (c *Client) post(ctx context.Context, req chatRequest) (*http.Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("could not marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("could not create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	if req.Stream {
		httpReq.Header.Set("Accept", "text/event-stream")
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, apiError(resp)
	}
	return resp, nil
}

func apiError(resp *http.Response) error {
	msg := "Unknown error"
	data, _ := io.ReadAll(resp.Body)
	var body apiErrorBody
	if err := json.Unmarshal(data, &body); err == nil && body.Error != nil && body.Error.Message != "" {
		msg = body.Error.Message
	}
	return fmt.Errorf("OpenAI API Error: %s", msg)
}

func errorText(err error) string {
	return fmt.Sprintf("❌ Error: %s. Please check your API key and try again.", err)
}

// readEvents calls fn with the payload of every "data:" line until [DONE],
// the end of the body, or fn returning false.
func readEvents(r io.Reader, fn func(data []byte) bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventSize)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if !bytes.HasPrefix(line, []byte("data:")) {
			continue
		}
		data := bytes.TrimSpace(bytes.TrimPrefix(line, []byte("data:")))
		if string(data) == "[DONE]" {
			return nil
		}
		if len(data) == 0 {
			continue
		}
		if !fn(data) {
			return nil
		}
	}
	return scanner.Err()
}

// send delivers f unless ctx is cancelled first.
func send(ctx context.Context, ch chan<- Fragment, f Fragment) bool {
	select {
	case ch <- f:
		return true
	case <-ctx.Done():
		return false
	}
}
