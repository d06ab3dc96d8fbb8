package services

import (
	"fmt"
	"os"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyLLMTimeout     = "llm.timeout_seconds"
	keyLLMRate        = "llm.rate_per_second"
	keyReadThreshold  = "scoring.read_threshold"
	keySkimThreshold  = "scoring.skim_threshold"
	keyPagePolicy     = "scoring.page_policy"
	keyVideoPolicy    = "scoring.video_policy"
	keyBlurThreshold  = "scan.blur_threshold"
	keyScanBudget     = "scan.budget"
	keySessionMinutes = "session.default_duration"
)

// EnvLLMAPIKey overrides the provider-specific API key variables.
//
//nolint:gosec // G101: environment variable name, not a credential.
const EnvLLMAPIKey = "FOCUSCOACH_LLM_API_KEY"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// The aiValidator parameter is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
// An API key missing from the config is taken from the environment.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		LLM: domain.LLMSettings{
			Provider:       s.getProvider(keyLLMProvider, defaults.LLM.Provider),
			Model:          s.configStore.GetString(keyLLMModel),
			BaseURL:        s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:         s.configStore.GetString(keyLLMAPIKey),
			TimeoutSeconds: s.getInt(keyLLMTimeout, defaults.LLM.TimeoutSeconds),
			RatePerSecond:  s.getFloat(keyLLMRate, defaults.LLM.RatePerSecond),
		},
		Scoring: domain.ScoringSettings{
			Thresholds: domain.Thresholds{
				Read: s.getInt(keyReadThreshold, defaults.Scoring.Thresholds.Read),
				Skim: s.getInt(keySkimThreshold, defaults.Scoring.Thresholds.Skim),
			},
			PagePolicy:  s.getPolicy(keyPagePolicy, defaults.Scoring.PagePolicy),
			VideoPolicy: s.getPolicy(keyVideoPolicy, defaults.Scoring.VideoPolicy),
		},
		Scan: domain.ScanSettings{
			BlurThreshold: s.getInt(keyBlurThreshold, defaults.Scan.BlurThreshold),
			Budget:        s.getInt(keyScanBudget, defaults.Scan.Budget),
		},
		Session: domain.SessionSettings{
			DefaultMinutes: s.getInt(keySessionMinutes, defaults.Session.DefaultMinutes),
		},
	}

	if settings.LLM.Model == "" {
		settings.LLM.Model = domain.DefaultLLMModels()[settings.LLM.Provider]
	}
	if settings.LLM.APIKey == "" && settings.LLM.Provider.RequiresAPIKey() {
		settings.LLM.APIKey = s.envAPIKey(settings.LLM.Provider)
	}

	return settings, nil
}

func (s *SettingsService) envAPIKey(provider domain.AIProvider) string {
	if key := s.getenv(EnvLLMAPIKey); key != "" {
		return key
	}
	if name := provider.APIKeyEnv(); name != "" {
		return s.getenv(name)
	}
	return ""
}

// Save persists application settings.
// An API key is only written when non-empty, so keys read from the
// environment never end up in the config file unless set explicitly.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, settings.LLM.TimeoutSeconds},
		{keyLLMRate, settings.LLM.RatePerSecond},
		{keyReadThreshold, settings.Scoring.Thresholds.Read},
		{keySkimThreshold, settings.Scoring.Thresholds.Skim},
		{keyPagePolicy, settings.Scoring.PagePolicy.String()},
		{keyVideoPolicy, settings.Scoring.VideoPolicy.String()},
		{keyBlurThreshold, settings.Scan.BlurThreshold},
		{keyScanBudget, settings.Scan.Budget},
		{keySessionMinutes, settings.Session.DefaultMinutes},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.LLM.APIKey != "" && settings.LLM.APIKey != s.envAPIKey(settings.LLM.Provider) {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyLLMAPIKey, err)
		}
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: LLM provider %q", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		apiKey = s.envAPIKey(provider)
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s (or set %s)", provider, provider.APIKeyEnv())
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Set base URL based on provider type
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		// Cloud providers don't need a custom base URL
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// SetThresholds updates the READ and SKIM thresholds.
func (s *SettingsService) SetThresholds(read, skim int) error {
	t := domain.Thresholds{Read: read, Skim: skim}
	if err := validateThresholds(t); err != nil {
		return err
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	settings.Scoring.Thresholds = t
	return s.Save(settings)
}

// SetPolicy updates the evaluation policy for a content kind.
func (s *SettingsService) SetPolicy(kind domain.ContentKind, policy domain.EvaluationPolicy) error {
	if !kind.IsValid() {
		return fmt.Errorf("%w: content kind %q", domain.ErrInvalidInput, kind)
	}
	if !policy.IsValid() {
		return fmt.Errorf("%w: policy %q", domain.ErrInvalidInput, policy)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if kind == domain.ContentKindVideo {
		settings.Scoring.VideoPolicy = policy
	} else {
		settings.Scoring.PagePolicy = policy
	}
	return s.Save(settings)
}

// Validate checks that current settings are consistent.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		return fmt.Errorf("LLM provider %s is not fully configured", settings.LLM.Provider.Description())
	}
	if err := validateThresholds(settings.Scoring.Thresholds); err != nil {
		return err
	}
	if settings.Scan.BlurThreshold < 0 || settings.Scan.BlurThreshold > 100 {
		return fmt.Errorf("%w: blur threshold %d outside 0-100", domain.ErrInvalidInput, settings.Scan.BlurThreshold)
	}
	if settings.Scan.Budget < 0 {
		return fmt.Errorf("%w: scan budget %d", domain.ErrInvalidInput, settings.Scan.Budget)
	}
	if settings.Session.DefaultMinutes <= 0 {
		return fmt.Errorf("%w: session duration %d", domain.ErrInvalidInput, settings.Session.DefaultMinutes)
	}
	return nil
}

func validateThresholds(t domain.Thresholds) error {
	if t.Read < 1 || t.Read > 100 {
		return fmt.Errorf("%w: read threshold %d outside 1-100", domain.ErrInvalidInput, t.Read)
	}
	if t.Skim < 0 || (t.Skim > 0 && t.Skim >= t.Read) {
		return fmt.Errorf("%w: skim threshold %d must be 0 or below the read threshold", domain.ErrInvalidInput, t.Skim)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getPolicy(key string, defaultVal domain.EvaluationPolicy) domain.EvaluationPolicy {
	policy := domain.EvaluationPolicy(s.configStore.GetString(key))
	if !policy.IsValid() {
		return defaultVal
	}
	return policy
}
