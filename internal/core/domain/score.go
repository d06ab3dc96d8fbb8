package domain

import (
	"strings"
	"time"
)

// Recommendation is the reading verdict for a piece of content.
type Recommendation string

// Available recommendations.
const (
	// RecommendationRead means the content clearly serves the goal.
	RecommendationRead Recommendation = "READ"

	// RecommendationSkim means the content is partially relevant.
	// Only produced when a skim threshold is configured.
	RecommendationSkim Recommendation = "SKIM"

	// RecommendationSkip means the content does not serve the goal.
	RecommendationSkip Recommendation = "SKIP"
)

// ParseRecommendation reads a recommendation from free text.
// The first word is uppercased and matched; anything unrecognised is SKIP.
func ParseRecommendation(s string) Recommendation {
	fields := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r < 'A' || r > 'Z'
	})
	if len(fields) == 0 {
		return RecommendationSkip
	}
	switch rec := Recommendation(fields[0]); rec {
	case RecommendationRead, RecommendationSkim, RecommendationSkip:
		return rec
	default:
		return RecommendationSkip
	}
}

// String returns the string representation.
func (r Recommendation) String() string {
	return string(r)
}

// Thresholds maps a relevance score to a recommendation.
type Thresholds struct {
	// Read is the minimum score for READ (inclusive).
	Read int

	// Skim is the minimum score for SKIM (inclusive). Zero disables the tier.
	Skim int
}

// DefaultThresholds returns the two-tier READ/SKIP policy at 70.
func DefaultThresholds() Thresholds {
	return Thresholds{Read: 70}
}

// Recommend returns the recommendation for a score.
func (t Thresholds) Recommend(score int) Recommendation {
	if score >= t.Read {
		return RecommendationRead
	}
	if t.Skim > 0 && score >= t.Skim {
		return RecommendationSkim
	}
	return RecommendationSkip
}

// ScoreSource records which signal produced a final score.
type ScoreSource string

// Available score sources.
const (
	// ScoreSourceModel means the model score was blended with the heuristic.
	ScoreSourceModel ScoreSource = "model"

	// ScoreSourceHeuristic means only the keyword heuristic was used.
	ScoreSourceHeuristic ScoreSource = "heuristic"
)

// ScoreResult is the relevance verdict for one piece of content.
type ScoreResult struct {
	// Relevance is the final score in [0,100].
	Relevance int `json:"relevance"`

	// Recommendation is derived from Relevance by the configured thresholds.
	Recommendation Recommendation `json:"recommendation"`

	// Summary is the model summary, or a raw excerpt on fallback.
	Summary string `json:"summary"`

	// Heuristic is the keyword-overlap score.
	Heuristic int `json:"heuristic"`

	// Model is the parsed model score. Nil when the model was not used.
	Model *int `json:"model,omitempty"`

	// Source records which signal produced Relevance.
	Source ScoreSource `json:"source"`
}

// ClampScore limits a score to [0,100].
func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Evaluation is a persisted record of one scored piece of content.
type Evaluation struct {
	ID        string
	Kind      ContentKind
	Goal      string
	URL       string
	Title     string
	Result    ScoreResult
	CreatedAt time.Time
}
