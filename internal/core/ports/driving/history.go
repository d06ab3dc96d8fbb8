package driving

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// HistoryService reads past evaluations and sessions.
type HistoryService interface {
	// Evaluations returns the most recent evaluations, newest first.
	Evaluations(ctx context.Context, limit int) ([]domain.Evaluation, error)

	// Sessions returns the most recent focus sessions, newest first.
	Sessions(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}
