package infrastructure

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"

	"jd-generator/config"
	"jd-generator/domain"
)

const providerVertex = "vertex"

var vertexStringArray = &genai.Schema{
	Type:  genai.TypeArray,
	Items: &genai.Schema{Type: genai.TypeString},
}

var vertexResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"job_title":                {Type: genai.TypeString, Description: "The final job title"},
		"company_summary":          {Type: genai.TypeString, Description: "Brief summary of the company"},
		"role_summary":             {Type: genai.TypeString, Description: "Brief summary of the role"},
		"key_responsibilities":     vertexStringArray,
		"required_qualifications":  vertexStringArray,
		"preferred_qualifications": vertexStringArray,
		"benefits":                 vertexStringArray,
	},
	Required: []string{"job_title", "role_summary", "key_responsibilities", "required_qualifications"},
}

// VertexClient generates through Vertex AI with application default or
// file-based service account credentials.
type VertexClient struct {
	client *genai.Client
	model  string
}

func NewVertexClient(ctx context.Context, cfg config.VertexConfig) (*VertexClient, error) {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	client, err := genai.NewClient(ctx, cfg.ProjectID, cfg.Location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex ai client: %w", err)
	}
	return &VertexClient{client: client, model: cfg.Model}, nil
}

func (v *VertexClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.JobDescriptionContent, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	model := v.client.GenerativeModel(v.model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = vertexResponseSchema

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationTransport, Provider: providerVertex, Err: err}
	}

	text, err := vertexResponseText(resp)
	if err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: providerVertex, Err: err}
	}
	return parseGeneratedContent(providerVertex, text)
}

func (v *VertexClient) Close() error {
	return v.client.Close()
}

func vertexResponseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}
	cand := resp.Candidates[0]
	if cand.Content == nil || len(cand.Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in content (finish reason %v)", cand.FinishReason)
	}

	var sb strings.Builder
	for _, part := range cand.Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in parts")
	}
	return sb.String(), nil
}
