package relevance

import (
	"math"
	"strings"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Field weights of the weighted heuristic.
const (
	weightTitle   = 3
	weightChannel = 2
	weightSnippet = 1
)

// textCurve is the exponent of the full-text heuristic. Values below one
// make partial overlap count for more than its linear share.
const textCurve = 0.7

// Score picks the heuristic variant for the sample's kind:
// the concave full-text curve for pages, field weights for video cards.
func Score(goal string, sample domain.ContentSample) int {
	if sample.Kind == domain.ContentKindPage {
		return ScoreText(goal, sample.Text())
	}
	return ScoreFields(goal, sample)
}

// ScoreFields awards each keyword 3 points when it appears in the title,
// else 2 in the channel, else 1 in the snippet, and normalises by the
// maximum attainable points.
func ScoreFields(goal string, sample domain.ContentSample) int {
	kws := Keywords(goal)
	if len(kws) == 0 {
		return 0
	}

	title := strings.ToLower(sample.Title)
	channel := strings.ToLower(sample.Channel)
	snippet := strings.ToLower(sample.Snippet)

	points := 0
	for _, kw := range kws {
		switch {
		case strings.Contains(title, kw):
			points += weightTitle
		case strings.Contains(channel, kw):
			points += weightChannel
		case strings.Contains(snippet, kw):
			points += weightSnippet
		}
	}

	maxPoints := len(kws) * weightTitle
	score := int(math.Round(float64(points) / float64(maxPoints) * 100))
	return domain.ClampScore(score)
}

// ScoreText counts keywords present anywhere in text and maps the hit
// ratio through (hits/keywords)^0.7 * 100.
func ScoreText(goal, text string) int {
	kws := Keywords(goal)
	if len(kws) == 0 {
		return 0
	}

	lower := strings.ToLower(text)
	hits := 0
	for _, kw := range kws {
		if strings.Contains(lower, kw) {
			hits++
		}
	}

	ratio := float64(hits) / float64(len(kws))
	score := int(math.Round(math.Min(100, math.Pow(ratio, textCurve)*100)))
	return domain.ClampScore(score)
}
