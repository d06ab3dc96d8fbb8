package driving

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Evaluator judges whether content helps the current goal.
type Evaluator interface {
	// Evaluate scores sample against goal.
	// Returns domain.ErrModelUnavailable when the model is not ready and the
	// policy for sample.Kind is model_only. A failed model call never errors;
	// the heuristic result is returned instead.
	Evaluate(ctx context.Context, goal string, sample domain.ContentSample) (domain.ScoreResult, error)

	// Ready reports whether the language model is available.
	// The first call probes the model; the answer is cached.
	Ready(ctx context.Context) bool

	// Source reports which signal Evaluate will use for kind.
	// Returns domain.ErrModelUnavailable when evaluation would be skipped.
	Source(ctx context.Context, kind domain.ContentKind) (domain.ScoreSource, error)
}
