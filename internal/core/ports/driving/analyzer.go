package driving

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Analyzer answers messages on the analysis bridge.
type Analyzer interface {
	// Handle produces exactly one reply for msg. Failures are reported in
	// the reply's Error field, never as a Go error.
	Handle(ctx context.Context, msg domain.Message) domain.Message
}

// VideoScorer scores a single video card outside a listing scan.
type VideoScorer interface {
	// ScoreVideo evaluates sample against goal, falling back to the
	// session goal when goal is empty.
	ScoreVideo(ctx context.Context, goal string, sample domain.ContentSample) (domain.ScoreResult, error)
}
