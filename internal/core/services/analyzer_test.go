package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/clock"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

const articleURL = "https://example.com/go-concurrency"

type fixedGoal string

func (g fixedGoal) Snapshot() domain.SessionView {
	return domain.SessionView{Goal: string(g)}
}

func newTestAnalyzer(llm *mockLLM, goals GoalSource) (*AnalyzerService, *mockEvaluationStore) {
	evaluator := newTestEvaluator(llm)
	pages := &mockPageSource{pages: map[string]domain.PageText{
		articleURL: {
			URL:   articleURL,
			Title: "Go concurrency",
			Text:  "Learn Go concurrency patterns with goroutines and channels",
		},
	}}
	evals := &mockEvaluationStore{}
	return NewAnalyzerService(evaluator, pages, goals, evals, clock.NewManual(sessionEpoch)), evals
}

func TestAnalyzer_AnalyzeURL(t *testing.T) {
	llm := &mockLLM{reply: "Summary: Goroutines intro.\nRelevance: 90\nRecommendation: READ"}
	a, evals := newTestAnalyzer(llm, nil)

	reply := a.Handle(context.Background(), domain.Message{
		Type: domain.MessageAnalyze, ID: "req-1", Goal: goConcurrency, URL: articleURL,
	})

	assert.Equal(t, domain.MessageResult, reply.Type)
	assert.Equal(t, "req-1", reply.ID)
	assert.Empty(t, reply.Error)
	assert.Equal(t, 98, reply.Relevance)
	assert.Equal(t, domain.RecommendationRead, reply.Recommendation)
	assert.Equal(t, "Goroutines intro.", reply.Summary)

	require.Len(t, evals.evals, 1)
	rec := evals.evals[0]
	assert.Equal(t, "req-1", rec.ID)
	assert.Equal(t, domain.ContentKindPage, rec.Kind)
	assert.Equal(t, articleURL, rec.URL)
	assert.Equal(t, sessionEpoch, rec.CreatedAt)
}

func TestAnalyzer_AnalyzeInlineTextWithoutModel(t *testing.T) {
	a, _ := newTestAnalyzer(nil, nil)

	reply := a.Handle(context.Background(), domain.Message{
		Type: domain.MessageAnalyze, Goal: goConcurrency, Text: "Best recipes for weekend baking",
	})

	assert.Empty(t, reply.Error)
	assert.NotEmpty(t, reply.ID, "an ID is assigned when the request has none")
	assert.Equal(t, 0, reply.Relevance)
	assert.Equal(t, domain.RecommendationSkip, reply.Recommendation)
	assert.Equal(t, "Best recipes for weekend baking", reply.Summary)
}

func TestAnalyzer_GoalFallsBackToSession(t *testing.T) {
	a, _ := newTestAnalyzer(nil, fixedGoal(goConcurrency))

	reply := a.Handle(context.Background(), domain.Message{Type: domain.MessageAnalyze, URL: articleURL})

	assert.Empty(t, reply.Error)
	assert.Equal(t, 100, reply.Relevance)
}

func TestAnalyzer_Errors(t *testing.T) {
	tests := []struct {
		name string
		msg  domain.Message
		want string
	}{
		{"no goal", domain.Message{Type: domain.MessageAnalyze, URL: articleURL}, "no goal set"},
		{"no content", domain.Message{Type: domain.MessageAnalyze, Goal: "g"}, "invalid input: url or text required"},
		{"unknown page", domain.Message{Type: domain.MessageAnalyze, Goal: "g", URL: "https://nowhere"}, "get page text: not found"},
		{"unknown type", domain.Message{Type: "PING", ID: "x"}, `unsupported message type: "PING"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, evals := newTestAnalyzer(nil, nil)

			reply := a.Handle(context.Background(), tt.msg)

			assert.Equal(t, domain.MessageResult, reply.Type)
			assert.Equal(t, tt.want, reply.Error)
			assert.Empty(t, evals.evals)
		})
	}
}

func TestAnalyzer_OneOutstandingAnalysis(t *testing.T) {
	llm := &mockLLM{block: true}
	a, _ := newTestAnalyzer(llm, nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	var first domain.Message
	wg.Add(1)
	go func() {
		defer wg.Done()
		first = a.Handle(ctx, domain.Message{Type: domain.MessageAnalyze, ID: "1", Goal: goConcurrency, URL: articleURL})
	}()
	require.Eventually(t, func() bool { return llm.callCount() == 1 }, time.Second, time.Millisecond)

	second := a.Handle(ctx, domain.Message{Type: domain.MessageAnalyze, ID: "2", Goal: goConcurrency, URL: articleURL})
	assert.Equal(t, "2", second.ID)
	assert.Equal(t, "analysis in progress", second.Error)

	cancel()
	wg.Wait()
	assert.Equal(t, "1", first.ID)
	assert.Empty(t, first.Error, "a cancelled model call falls back to the heuristic")

	llm.mu.Lock()
	llm.block = false
	llm.mu.Unlock()
	third := a.Handle(context.Background(), domain.Message{Type: domain.MessageAnalyze, ID: "3", Goal: goConcurrency, Text: "goroutines"})
	assert.Empty(t, third.Error)
}

func TestAnalyzer_GetPageText(t *testing.T) {
	a, _ := newTestAnalyzer(nil, nil)

	reply := a.Handle(context.Background(), domain.Message{Type: domain.MessageGetPageText, ID: "p", URL: articleURL})

	assert.Equal(t, domain.MessagePageText, reply.Type)
	assert.Equal(t, "p", reply.ID)
	assert.Equal(t, articleURL, reply.URL)
	assert.Equal(t, "Go concurrency", reply.Title)
	assert.Contains(t, reply.Text, "goroutines")

	missing := a.Handle(context.Background(), domain.Message{Type: domain.MessageGetPageText, URL: "https://nowhere"})
	assert.Equal(t, domain.MessagePageText, missing.Type)
	assert.NotEmpty(t, missing.Error)
}

func TestAnalyzer_ScoreVideo(t *testing.T) {
	llm := &mockLLM{reply: "Relevance: 80"}
	a, evals := newTestAnalyzer(llm, fixedGoal(goConcurrency))

	res, err := a.ScoreVideo(context.Background(), "", domain.ContentSample{Title: "Go concurrency in practice"})

	require.NoError(t, err)
	// one of two keywords in the title: 50 blended with 80
	assert.Equal(t, 58, res.Relevance)
	require.Len(t, evals.evals, 1)
	assert.Equal(t, domain.ContentKindVideo, evals.evals[0].Kind)
}

func TestAnalyzer_ScoreVideoWithoutModel(t *testing.T) {
	a, evals := newTestAnalyzer(nil, nil)

	_, err := a.ScoreVideo(context.Background(), goConcurrency, domain.ContentSample{Title: "Go concurrency"})
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)

	_, err = a.ScoreVideo(context.Background(), "", domain.ContentSample{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrEmptyGoal)
	assert.Empty(t, evals.evals)
}

func TestAnalyzer_RecordFailureDoesNotFailReply(t *testing.T) {
	a, evals := newTestAnalyzer(nil, nil)
	evals.err = errStore

	reply := a.Handle(context.Background(), domain.Message{Type: domain.MessageAnalyze, Goal: "g", Text: "t"})

	assert.Empty(t, reply.Error)
}
