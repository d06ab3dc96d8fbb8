// Package ai provides factory functions for creating LLM service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/focuscoach/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/custodia-labs/focuscoach/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/custodia-labs/focuscoach/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/focuscoach/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/focuscoach/internal/adapters/driven/llm/ratelimit"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMService creates the LLM service for the configured provider,
// throttled to the configured request rate.
// Returns nil if no provider is configured.
func CreateLLMService(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := createProvider(ctx, settings)
	if err != nil {
		return nil, err
	}
	return ratelimit.Wrap(svc, settings.RatePerSecond, ratelimit.DefaultBurst), nil
}

func createProvider(ctx context.Context, settings *domain.LLMSettings) (driven.LLMService, error) {
	timeout := settings.Timeout()

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// ValidateLLMConfig creates a service for the settings and pings it.
// Used by the settings commands to check credentials when they are saved.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	svc, err := createProvider(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	return nil
}
