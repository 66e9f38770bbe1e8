package llm

import (
	"context"
	"fmt"

	"github.com/tbourn/go-haiku-backend/internal/config"
)

// NewProvider builds the provider selected by cfg.Provider. It is called once
// at process start; the result is shared read-only by every request.
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel, cfg.Timeout), nil
	case "gemini":
		return NewGeminiProvider(ctx, cfg.GeminiKey, cfg.GeminiModel, "", cfg.Timeout)
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
