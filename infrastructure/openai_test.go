package infrastructure

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jd-generator/config"
	"jd-generator/domain"
)

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewOpenAIClient(config.OpenAIConfig{
		APIKey:  "sk-test",
		Model:   "gpt-test",
		BaseURL: srv.URL + "/v1",
	}, 5*time.Second)
	require.NoError(t, err)
	return client
}

func chatCompletion(content string) openai.ChatCompletionResponse {
	return openai.ChatCompletionResponse{
		ID:     "chatcmpl-test",
		Object: "chat.completion",
		Model:  "gpt-test",
		Choices: []openai.ChatCompletionChoice{
			{
				Index:        0,
				Message:      openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content},
				FinishReason: openai.FinishReasonStop,
			},
		},
	}
}

func TestOpenAIGenerate(t *testing.T) {
	var got openai.ChatCompletionRequest
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		_ = json.NewDecoder(r.Body).Decode(&got)

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(generatedJSON))
	})

	content, err := client.Generate(context.Background(), sampleGenerateRequest())
	require.NoError(t, err)
	assert.Equal(t, "Senior Go Engineer", content.Title)
	assert.Equal(t, []string{"Remote"}, content.Benefits)

	assert.Equal(t, "gpt-test", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Contains(t, got.Messages[0].Content, "Go Engineer")
	require.NotNil(t, got.ResponseFormat)
	assert.Equal(t, openai.ChatCompletionResponseFormatTypeJSONSchema, got.ResponseFormat.Type)
}

func TestOpenAITransportError(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"upstream down","type":"server_error"}}`))
	})

	_, err := client.Generate(context.Background(), sampleGenerateRequest())
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.GenerationTransport, genErr.Kind)
	assert.Equal(t, "openai", genErr.Provider)
}

func TestOpenAIParseError(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(chatCompletion(`{"job_title": "half`))
	})

	_, err := client.Generate(context.Background(), sampleGenerateRequest())
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.GenerationParse, genErr.Kind)
	assert.Equal(t, `{"job_title": "half`, genErr.Raw)
}

func TestOpenAIResponseSchema(t *testing.T) {
	client, err := NewOpenAIClient(config.OpenAIConfig{APIKey: "sk-test", Model: "gpt-test"}, time.Second)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"job_title", "role_summary", "key_responsibilities", "required_qualifications"},
		client.schema.Required)
	assert.Equal(t, "Brief summary of the role", client.schema.Properties["role_summary"].Description)
	assert.Contains(t, client.schema.Properties, "benefits")
	assert.Contains(t, client.schema.Properties, "company_summary")
}
