package driven

import "github.com/custodia-labs/focuscoach/internal/core/domain"

// AIConfigValidator checks a language model configuration before it is saved.
type AIConfigValidator interface {
	// ValidateLLM builds the provider and pings it. An unset provider is valid:
	// pages then fall back to the heuristic.
	ValidateLLM(config *domain.LLMSettings) error
}
