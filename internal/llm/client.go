// Package llm provides the language-model gateway used by the interview
// core: free-text completion for the interviewer's voice and JSON-mode
// completion for classification, evaluation and scoring decisions.
package llm

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Request describes one completion call. Tier selects the configured model;
// Temperature and MaxTokens override the provider defaults when set.
type Request struct {
	Prompt      string
	System      string
	Tier        ModelTier
	Temperature *float32
	MaxTokens   *int32
}

// Client is an abstraction over LLM providers.
type Client interface {
	// GenerateContent returns a free-text completion.
	GenerateContent(ctx context.Context, req Request) (string, error)
	// GenerateJSON returns a completion constrained to JSON output.
	// Callers validate the payload against their own schema.
	GenerateJSON(ctx context.Context, req Request) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// NewClient creates a new LLM client based on configuration.
func NewClient(ctx context.Context, config *Config, apiKey string) (Client, error) {
	if config == nil {
		config = DefaultConfig()
	}

	switch config.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, config, apiKey)
	default:
		return NewGeminiClient(ctx, config, apiKey)
	}
}

// GeminiClient implements Client for Google Gemini.
type GeminiClient struct {
	client *genai.Client
	config *Config
}

// NewGeminiClient creates a new Gemini client.
func NewGeminiClient(ctx context.Context, config *Config, apiKey string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiClient{
		client: client,
		config: config,
	}, nil
}

// GenerateContent returns a free-text completion for the request.
func (c *GeminiClient) GenerateContent(ctx context.Context, req Request) (string, error) {
	model, err := c.model(req, "")
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractTextFromResponse(resp)
}

// GenerateJSON returns a JSON-mode completion for the request.
func (c *GeminiClient) GenerateJSON(ctx context.Context, req Request) (string, error) {
	model, err := c.model(req, "application/json")
	if err != nil {
		return "", err
	}

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return "", err
	}
	return CleanJSONBlock(text), nil
}

// Close releases the underlying provider client.
func (c *GeminiClient) Close() error {
	return c.client.Close()
}

// model builds a configured GenerativeModel for one request.
func (c *GeminiClient) model(req Request, mimeType string) (*genai.GenerativeModel, error) {
	modelName := c.config.GetModel(req.Tier)
	if modelName == "" {
		return nil, fmt.Errorf("no model configured for tier %s", req.Tier)
	}

	model := c.client.GenerativeModel(modelName)
	if mimeType != "" {
		model.ResponseMIMEType = mimeType
	}
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	if req.Temperature != nil {
		model.SetTemperature(*req.Temperature)
	} else {
		// Low default for consistent judgments
		model.SetTemperature(0.1)
	}
	if req.MaxTokens != nil {
		model.SetMaxOutputTokens(*req.MaxTokens)
	}
	return model, nil
}

// extractTextFromResponse pulls the text parts out of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("response candidate has no content")
	}

	var out string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out += string(text)
		}
	}
	if out == "" {
		return "", fmt.Errorf("response contains no text parts")
	}
	return out, nil
}

// Temp returns a pointer to a temperature value, for Request literals.
func Temp(t float32) *float32 { return &t }

// Tokens returns a pointer to a max-token value, for Request literals.
func Tokens(n int32) *int32 { return &n }
