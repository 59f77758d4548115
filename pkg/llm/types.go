package llm

import (
	"context"
	"fmt"
)

// Provider names a completion backend.
type Provider string

const (
	// ProviderAnthropic is the Claude Messages API.
	ProviderAnthropic Provider = "anthropic"
	// ProviderGemini is the Google Gemini API.
	ProviderGemini Provider = "gemini"
)

const (
	// Temperature is fixed for every completion.
	Temperature = 0.7
	// MaxTokens caps the length of every completion.
	MaxTokens = 700
	// DefaultAnthropicModel is used when no model is configured for Claude.
	DefaultAnthropicModel = "claude-sonnet-4-20250514"
	// DefaultGeminiModel is used when no model is configured for Gemini.
	DefaultGeminiModel = "gemini-2.5-flash"
)

// Completer returns a single text completion for a prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (completion string, err error)
}

// Config selects and parameterizes a completion backend.
type Config struct {
	Provider Provider
	APIKey   string
	Model    string
	// BaseURL overrides the provider endpoint. Empty means the public API.
	BaseURL string
}

// CompletionError wraps any failure from a completion backend: transport, auth,
// quota or an unusable response.
type CompletionError struct {
	Operation string
	Provider  Provider
	Err       error
}

func (e *CompletionError) Error() string {
	if e.Operation != "" {
		return fmt.Sprintf("%s completion via %s failed: %v", e.Operation, e.Provider, e.Err)
	}
	return fmt.Sprintf("completion via %s failed: %v", e.Provider, e.Err)
}

func (e *CompletionError) Unwrap() error {
	return e.Err
}

// Cause supports github.com/pkg/errors.Cause.
func (e *CompletionError) Cause() error {
	return e.Err
}
