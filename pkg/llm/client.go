package llm

import (
	"context"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/pkg/errors"
)

// AnthropicClient completes prompts with the Claude Messages API.
type AnthropicClient struct {
	client anthropic.Client
	model  string
}

// NewAnthropicClient creates a Claude client. Retries are disabled; a failed call is
// reported to the caller immediately.
func NewAnthropicClient(apiKey, model, baseURL string) (client *AnthropicClient, err error) {
	if apiKey == "" {
		err = errors.New("anthropic API key is required")
		return client, err
	}

	if model == "" {
		model = DefaultAnthropicModel
	}

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client = &AnthropicClient{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
	return client, err
}

// Model returns the configured model identifier.
func (c *AnthropicClient) Model() (model string) {
	model = c.model
	return model
}

// Complete sends prompt as a single user message and returns the trimmed text reply.
func (c *AnthropicClient) Complete(ctx context.Context, prompt string) (completion string, err error) {
	var message *anthropic.Message
	message, err = c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(c.model),
		MaxTokens:   MaxTokens,
		Temperature: anthropic.Float(Temperature),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		err = &CompletionError{Provider: ProviderAnthropic, Err: errors.Wrap(err, "messages request failed")}
		return completion, err
	}

	var parts []string
	for _, block := range message.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}

	if len(parts) == 0 {
		err = &CompletionError{Provider: ProviderAnthropic, Err: errors.New("no text content in response")}
		return completion, err
	}

	completion = strings.TrimSpace(strings.Join(parts, ""))
	return completion, err
}

// NewCompleter builds the Completer selected by cfg.Provider. An empty provider means
// Anthropic.
func NewCompleter(ctx context.Context, cfg Config) (completer Completer, err error) {
	switch cfg.Provider {
	case ProviderAnthropic, "":
		var claude *AnthropicClient
		claude, err = NewAnthropicClient(cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return completer, err
		}
		completer = claude
	case ProviderGemini:
		var gemini *GeminiClient
		gemini, err = NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.BaseURL)
		if err != nil {
			return completer, err
		}
		completer = gemini
	default:
		err = errors.Errorf("unknown completion provider %q (expected %q or %q)", cfg.Provider, ProviderAnthropic, ProviderGemini)
	}
	return completer, err
}

// stripMarkdownCodeFences removes a surrounding ``` fence, with or without a language
// tag, that models sometimes add around plain text answers.
func stripMarkdownCodeFences(text string) (cleaned string) {
	cleaned = strings.TrimSpace(text)

	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	// Drop the opening fence line
	newline := strings.Index(cleaned, "\n")
	if newline == -1 {
		cleaned = strings.TrimSpace(strings.Trim(cleaned, "`"))
		return cleaned
	}
	cleaned = cleaned[newline+1:]

	cleaned = strings.TrimSpace(cleaned)
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	return cleaned
}
