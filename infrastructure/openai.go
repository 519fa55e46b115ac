package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"jd-generator/config"
	"jd-generator/domain"
)

const providerOpenAI = "openai"

// OpenAIClient generates through the chat completions API using a JSON
// schema response format. BaseURL may point at any compatible endpoint.
type OpenAIClient struct {
	client *openai.Client
	model  string
	schema *jsonschema.Definition
}

func NewOpenAIClient(cfg config.OpenAIConfig, timeout time.Duration) (*OpenAIClient, error) {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	schema, err := jsonschema.GenerateSchemaForType(domain.JobDescriptionContent{})
	if err != nil {
		return nil, fmt.Errorf("generate jd content schema: %w", err)
	}

	return &OpenAIClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		schema: schema,
	}, nil
}

func (o *OpenAIClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.JobDescriptionContent, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		Temperature: 0.4,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "job_description",
				Schema: o.schema,
			},
		},
	})
	if err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationTransport, Provider: providerOpenAI, Err: err}
	}

	if len(resp.Choices) == 0 {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: providerOpenAI,
			Err: fmt.Errorf("no choices returned")}
	}

	return parseGeneratedContent(providerOpenAI, resp.Choices[0].Message.Content)
}
