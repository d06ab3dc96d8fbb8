package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

func TestParseResponse_WellFormed(t *testing.T) {
	p := ParseResponse("Summary: X\nRelevance: 85\nRecommendation: read")

	assert.Equal(t, "X", p.Summary)
	assert.Equal(t, 85, p.Relevance)
	assert.Equal(t, domain.RecommendationRead, p.Recommendation)
	assert.True(t, p.HasRelevance)
}

func TestParseResponse_MissingRelevance(t *testing.T) {
	tests := []string{
		"",
		"I cannot help with that.",
		"Summary: a page about cooking",
		"Summary: fine\nRecommendation: READ",
	}

	for _, text := range tests {
		t.Run(text, func(t *testing.T) {
			p := ParseResponse(text)
			assert.Equal(t, 0, p.Relevance)
			assert.Equal(t, domain.RecommendationSkip, p.Recommendation)
			assert.False(t, p.HasRelevance)
		})
	}
}

func TestParseResponse_RelevanceValues(t *testing.T) {
	tests := []struct {
		line     string
		expected int
	}{
		{"Relevance: 85%", 85},
		{"Relevance: 72/100", 72},
		{"Relevance: 8/10", 8},
		{"Relevance: about 40 or 50", 40},
		{"relevance:  9", 9},
		{"RELEVANCE: 150", 100},
		{"Relevance: -20", 0},
		{"Relevance: 66.6", 67},
		{"Relevance: high", 0},
		{"Relevance:", 0},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseResponse(tt.line).Relevance)
		})
	}
}

func TestParseResponse_RecommendationDefaults(t *testing.T) {
	assert.Equal(t, domain.RecommendationSkip, ParseResponse("Relevance: 90").Recommendation)
	assert.Equal(t, domain.RecommendationSkip, ParseResponse("Relevance: 90\nRecommendation: perhaps").Recommendation)
	assert.Equal(t, domain.RecommendationSkim, ParseResponse("Relevance: 65\nRecommendation: skim").Recommendation)
}

func TestParseResponse_TakesFirstOccurrence(t *testing.T) {
	text := "Here you go.\nSummary: first\nRelevance: 40\nRecommendation: SKIP\nSummary: second"

	p := ParseResponse(text)

	assert.Equal(t, "first", p.Summary)
	assert.Equal(t, 40, p.Relevance)
}

func TestParseResponse_WindowsLineEndings(t *testing.T) {
	p := ParseResponse("Summary: s\r\nRelevance: 70\r\nRecommendation: READ\r\n")

	assert.Equal(t, "s", p.Summary)
	assert.Equal(t, 70, p.Relevance)
	assert.Equal(t, domain.RecommendationRead, p.Recommendation)
}
