package ai

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"loadrec/internal/config"
)

// NewProvider picks the provider named in cfg. Missing keys fall back to
// OfflineProvider. The returned func releases client resources.
func NewProvider(ctx context.Context, cfg config.AIConfig) (LLMProvider, func(), error) {
	noop := func() {}
	switch cfg.Provider {
	case config.ProviderGemini:
		if cfg.GeminiKey == "" {
			log.Warn().Msg("GEMINI_API_KEY not set; using offline AI replies")
			return OfflineProvider{}, noop, nil
		}
		p, err := NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	case config.ProviderOpenAI, "":
		if cfg.OpenAIKey == "" {
			log.Warn().Msg("OPENAI_API_KEY not set; using offline AI replies")
			return OfflineProvider{}, noop, nil
		}
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel), noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown AI provider %q", cfg.Provider)
	}
}
