package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"jd-generator/config"
	"jd-generator/domain"
)

const providerGemini = "gemini"

// geminiResponseSchema constrains the model output to JobDescriptionContent.
var geminiResponseSchema = map[string]interface{}{
	"type": "OBJECT",
	"properties": map[string]interface{}{
		"job_title":                map[string]interface{}{"type": "STRING"},
		"company_summary":          map[string]interface{}{"type": "STRING"},
		"role_summary":             map[string]interface{}{"type": "STRING"},
		"key_responsibilities":     stringArraySchema(),
		"required_qualifications":  stringArraySchema(),
		"preferred_qualifications": stringArraySchema(),
		"benefits":                 stringArraySchema(),
	},
	"required": []string{"job_title", "role_summary", "key_responsibilities", "required_qualifications"},
	"propertyOrdering": []string{
		"job_title", "company_summary", "role_summary", "key_responsibilities",
		"required_qualifications", "preferred_qualifications", "benefits",
	},
}

func stringArraySchema() map[string]interface{} {
	return map[string]interface{}{
		"type":  "ARRAY",
		"items": map[string]interface{}{"type": "STRING"},
	}
}

// GeminiClient calls the Gemini generateContent REST endpoint with an API key.
type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
}

func NewGeminiClient(cfg config.GeminiConfig, timeout time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
}

// Generate performs a single generateContent call.
func (g *GeminiClient) Generate(ctx context.Context, req domain.GenerateRequest) (*domain.JobDescriptionContent, error) {
	prompt, err := BuildPrompt(req)
	if err != nil {
		return nil, err
	}

	requestBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]interface{}{
					{
						"text": prompt,
					},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"temperature":      0.4,
			"responseMimeType": "application/json",
			"responseSchema":   geminiResponseSchema,
		},
	}

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", g.baseURL, g.model)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.http.Do(httpReq)
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to send request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, g.transportError(fmt.Errorf("failed to read response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, g.transportError(fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body)))
	}

	var apiResponse geminiResponse
	if err := json.Unmarshal(body, &apiResponse); err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: providerGemini, Raw: string(body),
			Err: fmt.Errorf("failed to parse API response: %w", err)}
	}

	text, err := extractTextFromResponse(apiResponse)
	if err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: providerGemini, Raw: string(body), Err: err}
	}

	return parseGeneratedContent(providerGemini, text)
}

func (g *GeminiClient) transportError(err error) error {
	return &domain.GenerationError{Kind: domain.GenerationTransport, Provider: providerGemini, Err: err}
}

func extractTextFromResponse(apiResponse geminiResponse) (string, error) {
	if len(apiResponse.Candidates) == 0 {
		if apiResponse.PromptFeedback != nil && apiResponse.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("prompt blocked: %s", apiResponse.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("no candidates in response")
	}

	parts := apiResponse.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("no parts in content (finish reason %q)", apiResponse.Candidates[0].FinishReason)
	}

	var sb strings.Builder
	for _, p := range parts {
		sb.WriteString(p.Text)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text in parts")
	}
	return sb.String(), nil
}
