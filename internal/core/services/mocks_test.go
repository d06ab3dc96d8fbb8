package services

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	mu       sync.Mutex
	reply    string
	chatErr  error
	pingErr  error
	pings    int
	calls    int
	lastMsgs []driven.ChatMessage
	block    bool
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	return m.Chat(ctx, []driven.ChatMessage{{Role: "user", Content: prompt}}, driven.ChatOptions{})
}

func (m *mockLLM) Chat(ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.lastMsgs = messages
	block := m.block
	reply, err := m.reply, m.chatErr
	m.mu.Unlock()

	if block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return reply, err
}

func (m *mockLLM) ModelName() string { return "mock-model" }

func (m *mockLLM) Ping(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pings++
	if err := ctx.Err(); err != nil {
		return err
	}
	return m.pingErr
}

func (m *mockLLM) Close() error { return nil }

func (m *mockLLM) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func newMockPromptStore() *mockPromptStore {
	return &mockPromptStore{prompts: map[string]string{
		driven.PromptSystem:         "You judge relevance.",
		driven.PromptPageRelevance:  "Goal: {{goal}}\nKeywords: {{keywords}}\nPage:\n{{content}}",
		driven.PromptVideoRelevance: "Goal: {{goal}}\nVideo:\n{{content}}",
	}}
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	p, ok := m.prompts[name]
	if !ok {
		return "", domain.ErrNotFound
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockSessionStore implements driven.SessionStore for testing.
type mockSessionStore struct {
	mu      sync.Mutex
	state   domain.FocusState
	getErr  error
	setErr  error
	patches []domain.StatePatch
	watch   chan domain.StateChange
}

func newMockSessionStore(state domain.FocusState) *mockSessionStore {
	return &mockSessionStore{state: state, watch: make(chan domain.StateChange, 16)}
}

func (m *mockSessionStore) Get(_ context.Context) (domain.FocusState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return domain.FocusState{}, m.getErr
	}
	return m.state, nil
}

func (m *mockSessionStore) Set(_ context.Context, patch domain.StatePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.patches = append(m.patches, patch)
	if m.setErr != nil {
		return m.setErr
	}
	m.state = patch.Apply(m.state)
	return nil
}

func (m *mockSessionStore) Watch(_ context.Context) (<-chan domain.StateChange, error) {
	return m.watch, nil
}

// external simulates a write by another process and queues its notification.
func (m *mockSessionStore) external(patch domain.StatePatch) {
	m.mu.Lock()
	m.state = patch.Apply(m.state)
	m.mu.Unlock()
	m.watch <- domain.StateChange{Keys: patch.Keys()}
}

func (m *mockSessionStore) patchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.patches)
}

func (m *mockSessionStore) current() domain.FocusState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// mockSessionLog implements driven.SessionLog for testing.
type mockSessionLog struct {
	mu      sync.Mutex
	started []domain.SessionRecord
	ended   []string
}

func (m *mockSessionLog) Started(_ context.Context, rec domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.started = append(m.started, rec)
	return nil
}

func (m *mockSessionLog) Ended(_ context.Context, id string, _ domain.SessionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ended = append(m.ended, id)
	return nil
}

func (m *mockSessionLog) Recent(_ context.Context, limit int) ([]domain.SessionRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := append([]domain.SessionRecord(nil), m.started...)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// mockItemSource implements driven.ItemSource for testing.
type mockItemSource struct {
	mu    sync.Mutex
	items []domain.Item
	err   error
	calls int
	hook  func(call int)
}

func (m *mockItemSource) Items(_ context.Context) ([]domain.Item, error) {
	m.mu.Lock()
	m.calls++
	call, hook := m.calls, m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(call)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.Item(nil), m.items...), nil
}

func (m *mockItemSource) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *mockItemSource) set(items ...domain.Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = items
}

// mockSurface implements driven.ItemSurface for testing.
type mockSurface struct {
	mu      sync.Mutex
	blurred map[string]int
	clears  int
}

func newMockSurface() *mockSurface {
	return &mockSurface{blurred: make(map[string]int)}
}

func (m *mockSurface) Blur(_ context.Context, id string, score int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blurred[id] = score
	return nil
}

func (m *mockSurface) Clear(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.blurred, id)
	return nil
}

func (m *mockSurface) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blurred = make(map[string]int)
	m.clears++
	return nil
}

func (m *mockSurface) ids() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.blurred))
	for id := range m.blurred {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// mockEvaluator implements driving.Evaluator for testing.
// Scores come from a per-title table; unknown titles score 0.
type mockEvaluator struct {
	mu     sync.Mutex
	scores map[string]int
	source domain.ScoreSource
	err    error
	calls  map[string]int
	hook   func(title string)
}

func newMockEvaluator(scores map[string]int) *mockEvaluator {
	return &mockEvaluator{scores: scores, source: domain.ScoreSourceModel, calls: make(map[string]int)}
}

func (m *mockEvaluator) Evaluate(_ context.Context, _ string, sample domain.ContentSample) (domain.ScoreResult, error) {
	m.mu.Lock()
	m.calls[sample.Title]++
	score := m.scores[sample.Title]
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(sample.Title)
	}
	return domain.ScoreResult{
		Relevance:      score,
		Recommendation: domain.DefaultThresholds().Recommend(score),
		Source:         m.source,
	}, nil
}

func (m *mockEvaluator) Ready(_ context.Context) bool {
	return m.source == domain.ScoreSourceModel
}

func (m *mockEvaluator) Source(_ context.Context, _ domain.ContentKind) (domain.ScoreSource, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.source, nil
}

func (m *mockEvaluator) callsFor(title string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[title]
}

func (m *mockEvaluator) totalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

// mockPageSource implements driven.PageSource for testing.
type mockPageSource struct {
	pages map[string]domain.PageText
}

func (m *mockPageSource) PageText(_ context.Context, location string) (domain.PageText, error) {
	p, ok := m.pages[location]
	if !ok {
		return domain.PageText{}, domain.ErrNotFound
	}
	return p, nil
}

// mockEvaluationStore implements driven.EvaluationStore for testing.
type mockEvaluationStore struct {
	mu    sync.Mutex
	evals []domain.Evaluation
	err   error
}

func (m *mockEvaluationStore) Record(_ context.Context, eval domain.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.evals = append(m.evals, eval)
	return nil
}

func (m *mockEvaluationStore) Recent(_ context.Context, limit int) ([]domain.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Evaluation, 0, len(m.evals))
	for i := len(m.evals) - 1; i >= 0; i-- {
		out = append(out, m.evals[i])
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var errStore = errors.New("store unavailable")

func timePtr(t time.Time) *time.Time { return &t }

func boolPtr(b bool) *bool { return &b }

func strPtr(s string) *string { return &s }
