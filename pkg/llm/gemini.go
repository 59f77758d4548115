package llm

import (
	"context"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pkg/errors"
	"google.golang.org/api/option"
)

// GeminiClient completes prompts with Google Gemini.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient creates a Gemini client.
func NewGeminiClient(ctx context.Context, apiKey, model, endpoint string) (client *GeminiClient, err error) {
	if apiKey == "" {
		err = errors.New("gemini API key is required")
		return client, err
	}

	if model == "" {
		model = DefaultGeminiModel
	}

	opts := []option.ClientOption{option.WithAPIKey(apiKey)}
	if endpoint != "" {
		opts = append(opts, option.WithEndpoint(endpoint))
	}

	var gc *genai.Client
	gc, err = genai.NewClient(ctx, opts...)
	if err != nil {
		err = errors.Wrap(err, "failed to create Gemini client")
		return client, err
	}

	client = &GeminiClient{
		client: gc,
		model:  model,
	}
	return client, err
}

// Model returns the configured model identifier.
func (c *GeminiClient) Model() (model string) {
	model = c.model
	return model
}

// Complete generates a single candidate for prompt and returns its trimmed text.
func (c *GeminiClient) Complete(ctx context.Context, prompt string) (completion string, err error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(Temperature)
	model.SetMaxOutputTokens(MaxTokens)

	var resp *genai.GenerateContentResponse
	resp, err = model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		err = &CompletionError{Provider: ProviderGemini, Err: errors.Wrap(err, "generate content failed")}
		return completion, err
	}

	completion, err = geminiText(resp)
	if err != nil {
		err = &CompletionError{Provider: ProviderGemini, Err: err}
		return completion, err
	}

	return completion, err
}

// Close releases the underlying connection.
func (c *GeminiClient) Close() (err error) {
	if c.client != nil {
		err = c.client.Close()
	}
	return err
}

func geminiText(resp *genai.GenerateContentResponse) (text string, err error) {
	if resp == nil || len(resp.Candidates) == 0 {
		err = errors.New("no candidates in response")
		return text, err
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		err = errors.New("no content in response")
		return text, err
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			parts = append(parts, string(t))
		}
	}

	if len(parts) == 0 {
		err = errors.New("no text parts in response")
		return text, err
	}

	text = strings.TrimSpace(strings.Join(parts, ""))
	return text, err
}
