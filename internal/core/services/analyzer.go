package services

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/custodia-labs/focuscoach/internal/clock"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// Ensure AnalyzerService implements the interfaces.
var (
	_ driving.Analyzer    = (*AnalyzerService)(nil)
	_ driving.VideoScorer = (*AnalyzerService)(nil)
)

// GoalSource supplies the session goal when a request carries none.
type GoalSource interface {
	Snapshot() domain.SessionView
}

// AnalyzerService answers ANALYZE and GET_PAGE_TEXT messages.
// At most one analysis runs at a time; a second request is refused
// rather than queued.
type AnalyzerService struct {
	evaluator driving.Evaluator
	pages     driven.PageSource
	goals     GoalSource
	evals     driven.EvaluationStore
	clock     clock.Clock

	busy atomic.Bool
}

// NewAnalyzerService creates a new analyzer.
// The goals and evals parameters are optional (can be nil).
func NewAnalyzerService(
	evaluator driving.Evaluator,
	pages driven.PageSource,
	goals GoalSource,
	evals driven.EvaluationStore,
	clk clock.Clock,
) *AnalyzerService {
	if clk == nil {
		clk = clock.System{}
	}
	return &AnalyzerService{
		evaluator: evaluator,
		pages:     pages,
		goals:     goals,
		evals:     evals,
		clock:     clk,
	}
}

// Handle produces exactly one reply for msg.
func (s *AnalyzerService) Handle(ctx context.Context, msg domain.Message) domain.Message {
	switch msg.Type {
	case domain.MessageAnalyze:
		return s.analyze(ctx, msg)
	case domain.MessageGetPageText:
		return s.pageText(ctx, msg)
	default:
		return domain.Message{
			Type:  domain.MessageResult,
			ID:    msg.ID,
			Error: fmt.Sprintf("%s: %q", domain.ErrUnsupportedMessage, msg.Type),
		}
	}
}

func (s *AnalyzerService) analyze(ctx context.Context, msg domain.Message) domain.Message {
	reply := domain.Message{Type: domain.MessageResult, ID: msg.ID}
	if reply.ID == "" {
		reply.ID = uuid.NewString()
	}

	if !s.busy.CompareAndSwap(false, true) {
		reply.Error = domain.ErrAnalysisInProgress.Error()
		return reply
	}
	defer s.busy.Store(false)

	logger.Section("Analyze")

	goal := strings.TrimSpace(msg.Goal)
	if goal == "" && s.goals != nil {
		goal = strings.TrimSpace(s.goals.Snapshot().Goal)
	}
	if goal == "" {
		reply.Error = domain.ErrEmptyGoal.Error()
		return reply
	}

	page := domain.PageText{URL: msg.URL, Title: msg.Title, Text: msg.Text}
	if strings.TrimSpace(page.Text) == "" {
		if msg.URL == "" {
			reply.Error = fmt.Sprintf("%s: url or text required", domain.ErrInvalidInput)
			return reply
		}
		fetched, err := s.pages.PageText(ctx, msg.URL)
		if err != nil {
			reply.Error = fmt.Sprintf("get page text: %v", err)
			return reply
		}
		page = fetched
	}

	sample := domain.ContentSample{
		Kind:   domain.ContentKindPage,
		URL:    page.URL,
		Title:  page.Title,
		Body:   page.Text,
		MaxLen: msg.MaxLen,
	}
	res, err := s.evaluator.Evaluate(ctx, goal, sample)
	if err != nil {
		reply.Error = err.Error()
		return reply
	}
	logger.Debug("Analyze: %s relevance=%d %s (%s)", page.URL, res.Relevance, res.Recommendation, res.Source)

	reply.URL = page.URL
	reply.Title = page.Title
	reply.Summary = res.Summary
	reply.Relevance = res.Relevance
	reply.Recommendation = res.Recommendation

	s.record(ctx, domain.Evaluation{
		ID:        reply.ID,
		Kind:      domain.ContentKindPage,
		Goal:      goal,
		URL:       page.URL,
		Title:     page.Title,
		Result:    res,
		CreatedAt: s.clock.Now(),
	})
	return reply
}

func (s *AnalyzerService) pageText(ctx context.Context, msg domain.Message) domain.Message {
	reply := domain.Message{Type: domain.MessagePageText, ID: msg.ID, URL: msg.URL}
	page, err := s.pages.PageText(ctx, msg.URL)
	if err != nil {
		reply.Error = fmt.Sprintf("get page text: %v", err)
		return reply
	}
	reply.URL = page.URL
	reply.Title = page.Title
	reply.Text = page.Text
	return reply
}

// ScoreVideo evaluates one video card and records it.
func (s *AnalyzerService) ScoreVideo(
	ctx context.Context, goal string, sample domain.ContentSample,
) (domain.ScoreResult, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" && s.goals != nil {
		goal = strings.TrimSpace(s.goals.Snapshot().Goal)
	}
	if goal == "" {
		return domain.ScoreResult{}, domain.ErrEmptyGoal
	}

	sample.Kind = domain.ContentKindVideo
	res, err := s.evaluator.Evaluate(ctx, goal, sample)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	s.record(ctx, domain.Evaluation{
		ID:        uuid.NewString(),
		Kind:      domain.ContentKindVideo,
		Goal:      goal,
		URL:       sample.URL,
		Title:     sample.Title,
		Result:    res,
		CreatedAt: s.clock.Now(),
	})
	return res, nil
}

func (s *AnalyzerService) record(ctx context.Context, eval domain.Evaluation) {
	if s.evals == nil {
		return
	}
	if err := s.evals.Record(ctx, eval); err != nil {
		logger.Warn("Analyze: record evaluation: %v", err)
	}
}
