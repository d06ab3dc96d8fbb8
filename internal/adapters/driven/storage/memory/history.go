package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure the history stores implement their interfaces.
var (
	_ driven.EvaluationStore = (*EvaluationStore)(nil)
	_ driven.SessionLog      = (*SessionLog)(nil)
)

// EvaluationStore keeps evaluations in memory, in insertion order.
type EvaluationStore struct {
	mu    sync.RWMutex
	evals []domain.Evaluation
}

// NewEvaluationStore creates an empty evaluation store.
func NewEvaluationStore() *EvaluationStore {
	return &EvaluationStore{}
}

// Record stores one evaluation.
func (s *EvaluationStore) Record(_ context.Context, eval domain.Evaluation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evals = append(s.evals, eval)
	return nil
}

// Recent returns the most recent evaluations, newest first.
func (s *EvaluationStore) Recent(_ context.Context, limit int) ([]domain.Evaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Evaluation, 0, len(s.evals))
	for i := len(s.evals) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, s.evals[i])
	}
	return out, nil
}

// SessionLog keeps session records in memory, keyed by ID.
type SessionLog struct {
	mu      sync.RWMutex
	records map[string]domain.SessionRecord
}

// NewSessionLog creates an empty session log.
func NewSessionLog() *SessionLog {
	return &SessionLog{records: make(map[string]domain.SessionRecord)}
}

// Started records a session. Repeated starts for the same ID are ignored.
func (l *SessionLog) Started(_ context.Context, rec domain.SessionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.records[rec.ID]; !ok {
		l.records[rec.ID] = rec
	}
	return nil
}

// Ended marks a session as ended, inserting it when the start was missed.
func (l *SessionLog) Ended(_ context.Context, id string, rec domain.SessionRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	existing, ok := l.records[id]
	if !ok {
		rec.ID = id
		l.records[id] = rec
		return nil
	}
	if existing.EndedAt == nil {
		existing.EndedAt = rec.EndedAt
		l.records[id] = existing
	}
	return nil
}

// Recent returns the most recent sessions by start time, newest first.
func (l *SessionLog) Recent(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	l.mu.RLock()
	out := make([]domain.SessionRecord, 0, len(l.records))
	for _, rec := range l.records {
		out = append(out, rec)
	}
	l.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
