package relevance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

func TestScoreFields_NoKeywordsIsZero(t *testing.T) {
	for _, goal := range []string{"", "to be or", "a an the", "go do it"} {
		sample := domain.ContentSample{Title: "anything at all", Channel: "chan", Snippet: "text"}
		assert.Equal(t, 0, ScoreFields(goal, sample), "goal %q", goal)
	}
}

func TestScoreFields_AllKeywordsInTitleIsHundred(t *testing.T) {
	goal := "learn rust ownership borrowing"
	sample := domain.ContentSample{Title: "Learn Rust: Ownership and Borrowing explained"}

	assert.Equal(t, 100, ScoreFields(goal, sample))
}

func TestScoreFields_Weights(t *testing.T) {
	goal := "python pandas dataframes"

	tests := []struct {
		name     string
		sample   domain.ContentSample
		expected int
	}{
		{
			name:     "one title hit of three",
			sample:   domain.ContentSample{Title: "Python tips"},
			expected: 33,
		},
		{
			name:     "channel hit counts two",
			sample:   domain.ContentSample{Channel: "Pandas Academy"},
			expected: 22,
		},
		{
			name:     "snippet hit counts one",
			sample:   domain.ContentSample{Snippet: "working with dataframes"},
			expected: 11,
		},
		{
			name:     "title wins over channel for same keyword",
			sample:   domain.ContentSample{Title: "python", Channel: "python"},
			expected: 33,
		},
		{
			name: "mixed fields",
			sample: domain.ContentSample{
				Title:   "Python basics",
				Channel: "pandas daily",
				Snippet: "dataframes",
			},
			expected: 67,
		},
		{
			name:     "no hits",
			sample:   domain.ContentSample{Title: "Cooking pasta"},
			expected: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ScoreFields(goal, tt.sample))
		})
	}
}

func TestScoreText_ConcaveCurve(t *testing.T) {
	goal := "learn concurrency patterns goroutines"

	assert.Equal(t, 100, ScoreText(goal, "learn concurrency patterns with goroutines"))
	// 2 of 4: 0.5^0.7 = 0.6156
	assert.Equal(t, 62, ScoreText(goal, "concurrency patterns"))
	// 1 of 4: 0.25^0.7 = 0.3789
	assert.Equal(t, 38, ScoreText(goal, "patterns"))
	assert.Equal(t, 0, ScoreText(goal, "weekend baking"))
	assert.Equal(t, 0, ScoreText("", "learn concurrency"))
}

func TestScore_SelectsVariantByKind(t *testing.T) {
	goal := "learn Go concurrency"

	page := domain.ContentSample{
		Kind: domain.ContentKindPage,
		Body: "Learn Go concurrency patterns with goroutines and channels",
	}
	assert.Equal(t, 100, Score(goal, page))

	video := domain.ContentSample{
		Kind:    domain.ContentKindVideo,
		Title:   "Concurrency in practice",
		Snippet: "learn",
	}
	// concurrency in title (3) + learn in snippet (1) of 6
	assert.Equal(t, 67, Score(goal, video))
}

func TestScoreText_UnrelatedPage(t *testing.T) {
	assert.Equal(t, 0, ScoreText("learn Go concurrency", "Best recipes for weekend baking"))
}
