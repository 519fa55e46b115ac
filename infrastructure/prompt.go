package infrastructure

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"jd-generator/domain"
)

//go:embed prompts/generate_jd.tmpl
var generatePromptRaw string

var generatePromptTemplate = template.Must(template.New("generate_jd").
	Funcs(template.FuncMap{"join": func(items []string) string { return strings.Join(items, ", ") }}).
	Parse(generatePromptRaw))

// BuildPrompt renders the generation instruction for req.
func BuildPrompt(req domain.GenerateRequest) (string, error) {
	var sb strings.Builder
	if err := generatePromptTemplate.Execute(&sb, req); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return sb.String(), nil
}

// cleanJSONResponse strips markdown fences and any prose around the first
// JSON object in a model answer.
func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)

	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSuffix(content, "```")

	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")

	if start != -1 && end != -1 && end > start {
		content = content[start : end+1]
	}

	return strings.TrimSpace(content)
}

// parseGeneratedContent turns raw model text into validated content. Every
// failure is a parse-kind GenerationError that keeps the raw text.
func parseGeneratedContent(provider, raw string) (*domain.JobDescriptionContent, error) {
	var content domain.JobDescriptionContent
	if err := json.Unmarshal([]byte(cleanJSONResponse(raw)), &content); err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: provider, Raw: raw, Err: err}
	}
	// Validate before normalizing, otherwise a missing required list would
	// be indistinguishable from an empty one.
	if err := domain.Validate(&content); err != nil {
		return nil, &domain.GenerationError{Kind: domain.GenerationParse, Provider: provider, Raw: raw, Err: err}
	}
	content.Normalize()
	return &content, nil
}
