package infrastructure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"jd-generator/config"
	"jd-generator/domain"
)

// NewGenerator builds the configured provider client wrapped in the retry
// policy. The returned close func releases provider resources.
func NewGenerator(ctx context.Context, cfg *config.Config, log *zap.Logger) (domain.Generator, func() error, error) {
	var (
		base    domain.Generator
		closeFn = func() error { return nil }
	)

	switch cfg.Generation.Provider {
	case config.ProviderGemini:
		base = NewGeminiClient(cfg.Gemini, cfg.Generation.Timeout)
	case config.ProviderVertex:
		vc, err := NewVertexClient(ctx, cfg.Vertex)
		if err != nil {
			return nil, nil, err
		}
		base, closeFn = vc, vc.Close
	case config.ProviderOpenAI:
		oc, err := NewOpenAIClient(cfg.OpenAI, cfg.Generation.Timeout)
		if err != nil {
			return nil, nil, err
		}
		base = oc
	default:
		return nil, nil, fmt.Errorf("unsupported LLM provider %q", cfg.Generation.Provider)
	}

	log.Info("generation client ready",
		zap.String("provider", cfg.Generation.Provider),
		zap.Int("max_attempts", cfg.Generation.MaxAttempts))

	return NewRetryingGenerator(base, cfg.Generation.MaxAttempts, cfg.Generation.RetryBackoff, log), closeFn, nil
}
