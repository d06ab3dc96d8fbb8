package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a text-completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderGemini is Google Gemini cloud API.
	AIProviderGemini AIProvider = "gemini"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic, AIProviderGemini:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic || p == AIProviderGemini
}

// IsLocal returns true if this provider runs locally.
// Local providers are the closest match to an on-device model.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderGemini:
		return "Gemini (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the conventional environment variable holding the
// provider's API key, or "" for providers without one.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	case AIProviderGemini:
		return "GOOGLE_API_KEY"
	default:
		return ""
	}
}

// LLMSettings holds text-completion provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible servers).
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// TimeoutSeconds bounds one completion request.
	TimeoutSeconds int

	// RatePerSecond throttles completion requests. Zero disables throttling.
	RatePerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// Timeout returns the request timeout as a duration.
func (l LLMSettings) Timeout() time.Duration {
	if l.TimeoutSeconds <= 0 {
		return DefaultLLMTimeout
	}
	return time.Duration(l.TimeoutSeconds) * time.Second
}

// DefaultLLMTimeout bounds a single completion call.
const DefaultLLMTimeout = 12 * time.Second

// EvaluationPolicy decides what happens when the model is not ready.
type EvaluationPolicy string

// Available evaluation policies.
const (
	// PolicyFallback scores with the keyword heuristic alone.
	PolicyFallback EvaluationPolicy = "fallback"

	// PolicyModelOnly skips evaluation entirely.
	PolicyModelOnly EvaluationPolicy = "model_only"
)

// IsValid returns true if the policy is recognised.
func (p EvaluationPolicy) IsValid() bool {
	return p == PolicyFallback || p == PolicyModelOnly
}

// String returns the string representation.
func (p EvaluationPolicy) String() string {
	return string(p)
}

// Description returns a human-readable description of the policy.
func (p EvaluationPolicy) Description() string {
	switch p {
	case PolicyFallback:
		return "Fallback (heuristic when model unavailable)"
	case PolicyModelOnly:
		return "Model only (skip when model unavailable)"
	default:
		return unknownDescription
	}
}

// ScoringSettings holds relevance scoring configuration.
type ScoringSettings struct {
	// Thresholds maps scores to recommendations.
	Thresholds Thresholds

	// PagePolicy applies to page analysis.
	PagePolicy EvaluationPolicy

	// VideoPolicy applies to video card scanning.
	VideoPolicy EvaluationPolicy
}

// Policy returns the policy for a content kind.
func (s ScoringSettings) Policy(kind ContentKind) EvaluationPolicy {
	if kind == ContentKindVideo {
		return s.VideoPolicy
	}
	return s.PagePolicy
}

// ScanSettings holds listing scan configuration.
type ScanSettings struct {
	// BlurThreshold is the score below which an item is blurred.
	BlurThreshold int

	// Budget caps model evaluations per scan pass.
	Budget int
}

// SessionSettings holds focus session configuration.
type SessionSettings struct {
	// DefaultMinutes is the session length used when none is stored.
	DefaultMinutes int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// LLM holds text-completion provider settings.
	LLM LLMSettings

	// Scoring holds relevance scoring settings.
	Scoring ScoringSettings

	// Scan holds listing scan settings.
	Scan ScanSettings

	// Session holds focus session settings.
	Session SessionSettings
}

// Default scan settings.
const (
	DefaultBlurThreshold = 60
	DefaultScanBudget    = 8
)

// DefaultAppSettings returns settings with sensible defaults.
// The LLM is left unconfigured; without it pages are scored by the
// heuristic and video scanning stays off.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			TimeoutSeconds: int(DefaultLLMTimeout / time.Second),
			RatePerSecond:  2,
		},
		Scoring: ScoringSettings{
			Thresholds:  DefaultThresholds(),
			PagePolicy:  PolicyFallback,
			VideoPolicy: PolicyModelOnly,
		},
		Scan: ScanSettings{
			BlurThreshold: DefaultBlurThreshold,
			Budget:        DefaultScanBudget,
		},
		Session: SessionSettings{
			DefaultMinutes: DefaultFocusMinutes,
		},
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderGemini,
	}
}

// AllPolicies returns all evaluation policies.
func AllPolicies() []EvaluationPolicy {
	return []EvaluationPolicy{PolicyFallback, PolicyModelOnly}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderGemini:    "gemini-2.0-flash",
	}
}
