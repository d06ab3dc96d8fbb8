package mcp

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// mockAnalyzer is a mock implementation of driving.Analyzer.
type mockAnalyzer struct {
	reply domain.Message
	got   domain.Message
}

func (m *mockAnalyzer) Handle(_ context.Context, msg domain.Message) domain.Message {
	m.got = msg
	return m.reply
}

// mockVideoScorer is a mock implementation of driving.VideoScorer.
type mockVideoScorer struct {
	result domain.ScoreResult
	err    error
	goal   string
	sample domain.ContentSample
}

func (m *mockVideoScorer) ScoreVideo(
	_ context.Context, goal string, sample domain.ContentSample,
) (domain.ScoreResult, error) {
	m.goal = goal
	m.sample = sample
	return m.result, m.err
}

// mockSessionService is a mock implementation of driving.SessionService.
type mockSessionService struct {
	view domain.SessionView
}

func (m *mockSessionService) Sync(_ context.Context, _ []string) domain.SessionView {
	return m.view
}

func (m *mockSessionService) Tick(_ context.Context) domain.SessionView {
	return m.view
}

func (m *mockSessionService) Run(_ context.Context) error {
	return nil
}

func (m *mockSessionService) Enable(_ context.Context, _ string, _ int) (domain.SessionView, error) {
	return m.view, nil
}

func (m *mockSessionService) Disable(_ context.Context) (domain.SessionView, error) {
	return m.view, nil
}

func (m *mockSessionService) SetGoal(_ context.Context, _ string) (domain.SessionView, error) {
	return m.view, nil
}

func (m *mockSessionService) Snapshot() domain.SessionView {
	return m.view
}

func (m *mockSessionService) Subscribe(_ func(domain.SessionView)) func() {
	return func() {}
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	evals []domain.Evaluation
	err   error
}

func (m *mockHistoryService) Evaluations(_ context.Context, _ int) ([]domain.Evaluation, error) {
	return m.evals, m.err
}

func (m *mockHistoryService) Sessions(_ context.Context, _ int) ([]domain.SessionRecord, error) {
	return nil, m.err
}
