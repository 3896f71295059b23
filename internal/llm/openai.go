package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// SystemPrompt is sent as the system message on every OpenAI request.
const SystemPrompt = "You convert unstructured job adverts into structured JSON."

// OpenAIClient implements Client and StructuredClient for OpenAI chat completions.
type OpenAIClient struct {
	client *openai.Client
	config *Config
}

// NewOpenAIClient creates a new OpenAI client
func NewOpenAIClient(config *Config, apiKey string) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	return NewOpenAIClientWithConfig(config, openai.DefaultConfig(apiKey)), nil
}

// NewOpenAIClientWithConfig builds a client from a go-openai config, which
// lets tests point BaseURL at an httptest server.
func NewOpenAIClientWithConfig(config *Config, cc openai.ClientConfig) *OpenAIClient {
	if config == nil {
		config = DefaultOpenAIConfig()
	}
	return &OpenAIClient{
		client: openai.NewClientWithConfig(cc),
		config: config,
	}
}

func (c *OpenAIClient) request(tier ModelTier, prompt string) (openai.ChatCompletionRequest, error) {
	modelName := c.config.GetModel(tier)
	if modelName == "" {
		return openai.ChatCompletionRequest{}, fmt.Errorf("no model configured for tier %s", tier)
	}
	return openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: SystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: c.config.Temperature,
	}, nil
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateJSON asks for a JSON object response.
func (c *OpenAIClient) GenerateJSON(ctx context.Context, prompt string, tier ModelTier) (string, error) {
	req, err := c.request(tier, prompt)
	if err != nil {
		return "", err
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	}
	return c.complete(ctx, req)
}

// GenerateStructured constrains the response to schema using strict JSON Schema output.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, prompt string, tier ModelTier, name string, schema jsonschema.Definition) (string, error) {
	req, err := c.request(tier, prompt)
	if err != nil {
		return "", err
	}
	req.ResponseFormat = &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
		JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
			Name:   name,
			Schema: &schema,
			Strict: true,
		},
	}
	return c.complete(ctx, req)
}

// GetModel returns the model name for a tier
func (c *OpenAIClient) GetModel(tier ModelTier) string {
	return c.config.GetModel(tier)
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (c *OpenAIClient) Close() error {
	return nil
}
