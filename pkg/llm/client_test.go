package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func messageResponse(text string) (body map[string]interface{}) {
	body = map[string]interface{}{
		"id":    "msg_test",
		"type":  "message",
		"role":  "assistant",
		"model": DefaultAnthropicModel,
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
		"stop_reason":   "end_turn",
		"stop_sequence": nil,
		"usage": map[string]interface{}{
			"input_tokens":  10,
			"output_tokens": 20,
		},
	}
	return body
}

func TestNewAnthropicClient(t *testing.T) {
	client, err := NewAnthropicClient("test-key", "", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultAnthropicModel, client.Model())

	client, err = NewAnthropicClient("test-key", "claude-custom", "")
	require.NoError(t, err)
	assert.Equal(t, "claude-custom", client.Model())
}

func TestNewAnthropicClientRequiresKey(t *testing.T) {
	_, err := NewAnthropicClient("", "", "")
	assert.Error(t, err)
}

func TestAnthropicComplete(t *testing.T) {
	var captured map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request.
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}

		if !strings.HasSuffix(r.URL.Path, "/v1/messages") {
			t.Errorf("Expected messages endpoint, got %s", r.URL.Path)
		}

		if r.Header.Get("X-Api-Key") != "test-key" {
			t.Error("Missing or incorrect API key header")
		}

		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(messageResponse("  Dear Hiring Manager,\n\nHello.  \n"))
	}))
	defer server.Close()

	client, err := NewAnthropicClient("test-key", "", server.URL+"/")
	require.NoError(t, err)

	completion, err := client.Complete(context.Background(), "Write a cover letter")
	require.NoError(t, err)

	assert.Equal(t, "Dear Hiring Manager,\n\nHello.", completion)

	require.NotNil(t, captured)
	assert.InDelta(t, Temperature, captured["temperature"], 0.0001)
	assert.InDelta(t, float64(MaxTokens), captured["max_tokens"], 0.0001)
	assert.Equal(t, DefaultAnthropicModel, captured["model"])
}

func TestAnthropicCompleteErrorIsNotRetried(t *testing.T) {
	var calls int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer server.Close()

	client, err := NewAnthropicClient("test-key", "", server.URL+"/")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)

	var completionErr *CompletionError
	require.True(t, errors.As(err, &completionErr))
	assert.Equal(t, ProviderAnthropic, completionErr.Provider)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAnthropicCompleteEmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body := messageResponse("")
		body["content"] = []map[string]interface{}{}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer server.Close()

	client, err := NewAnthropicClient("test-key", "", server.URL+"/")
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)

	var completionErr *CompletionError
	assert.True(t, errors.As(err, &completionErr))
}

func TestNewCompleter(t *testing.T) {
	ctx := context.Background()

	completer, err := NewCompleter(ctx, Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.IsType(t, &AnthropicClient{}, completer)

	completer, err = NewCompleter(ctx, Config{Provider: ProviderGemini, APIKey: "test-key"})
	require.NoError(t, err)
	gemini, ok := completer.(*GeminiClient)
	require.True(t, ok)
	assert.Equal(t, DefaultGeminiModel, gemini.Model())
	_ = gemini.Close()

	_, err = NewCompleter(ctx, Config{Provider: "openai", APIKey: "test-key"})
	assert.Error(t, err)

	completer, err = NewCompleter(ctx, Config{Provider: ProviderAnthropic})
	assert.Error(t, err)
	assert.Nil(t, completer)
}

func TestStripMarkdownCodeFences(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fence", input: "Summary:\nText", want: "Summary:\nText"},
		{name: "plain fence", input: "```\nSummary:\nText\n```", want: "Summary:\nText"},
		{name: "tagged fence", input: "```text\nSummary:\nText\n```\n", want: "Summary:\nText"},
		{name: "single line fence", input: "```Summary```", want: "Summary"},
		{name: "surrounding whitespace", input: "  Summary  ", want: "Summary"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdownCodeFences(tt.input))
		})
	}
}

func TestCompletionErrorMessage(t *testing.T) {
	err := &CompletionError{Operation: OpBullets, Provider: ProviderGemini, Err: errors.New("quota exceeded")}
	assert.Equal(t, "resume bullets completion via gemini failed: quota exceeded", err.Error())
	assert.Equal(t, "quota exceeded", errors.Cause(err).Error())

	err = &CompletionError{Provider: ProviderAnthropic, Err: errors.New("boom")}
	assert.Equal(t, "completion via anthropic failed: boom", err.Error())
}
