package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

// Ensure HistoryService implements the interface.
var _ driving.HistoryService = (*HistoryService)(nil)

// DefaultHistoryLimit is used when a caller passes a non-positive limit.
const DefaultHistoryLimit = 20

// HistoryService reads past evaluations and sessions.
type HistoryService struct {
	evals    driven.EvaluationStore
	sessions driven.SessionLog
}

// NewHistoryService creates a new history service.
// Both stores are optional (can be nil); missing history reads as empty.
func NewHistoryService(evals driven.EvaluationStore, sessions driven.SessionLog) *HistoryService {
	return &HistoryService{evals: evals, sessions: sessions}
}

// Evaluations returns the most recent evaluations, newest first.
func (s *HistoryService) Evaluations(ctx context.Context, limit int) ([]domain.Evaluation, error) {
	if s.evals == nil {
		return []domain.Evaluation{}, nil
	}
	evals, err := s.evals.Recent(ctx, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list evaluations: %w", err)
	}
	return evals, nil
}

// Sessions returns the most recent focus sessions, newest first.
func (s *HistoryService) Sessions(ctx context.Context, limit int) ([]domain.SessionRecord, error) {
	if s.sessions == nil {
		return []domain.SessionRecord{}, nil
	}
	recs, err := s.sessions.Recent(ctx, normaliseLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return recs, nil
}

func normaliseLimit(limit int) int {
	if limit <= 0 {
		return DefaultHistoryLimit
	}
	return limit
}
