package ai

import (
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = ConfigValidator{}

// ConfigValidator is the settings service's view of ValidateLLMConfig.
type ConfigValidator struct{}

// NewConfigValidator returns a ConfigValidator.
func NewConfigValidator() ConfigValidator {
	return ConfigValidator{}
}

// ValidateLLM pings the configured provider.
func (ConfigValidator) ValidateLLM(config *domain.LLMSettings) error {
	return ValidateLLMConfig(config)
}
