package driving

import "github.com/custodia-labs/focuscoach/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// SetThresholds updates the READ and SKIM thresholds.
	SetThresholds(read, skim int) error

	// SetPolicy updates the evaluation policy for a content kind.
	SetPolicy(kind domain.ContentKind, policy domain.EvaluationPolicy) error

	// Validate checks that current settings are consistent.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
	ValidateLLMConfig() error
}
