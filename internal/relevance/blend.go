package relevance

import (
	"math"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Blend weights and guard.
const (
	modelWeight     = 0.25
	heuristicWeight = 0.75

	// When the heuristic finds at most guardHeuristicMax while the model
	// claims at least guardModelMin, the blend is capped at guardCap.
	guardHeuristicMax = 10
	guardModelMin     = 50
	guardCap          = 25
)

// Blend combines the heuristic score h and the model score m into
// round(0.25*m + 0.75*h), capped at 25 when the heuristic found almost
// nothing but the model is enthusiastic. The result is clamped to [0,100].
func Blend(h, m int) int {
	final := int(math.Round(modelWeight*float64(m) + heuristicWeight*float64(h)))
	if h <= guardHeuristicMax && m >= guardModelMin && final > guardCap {
		final = guardCap
	}
	return domain.ClampScore(final)
}
