package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
	"github.com/custodia-labs/focuscoach/internal/relevance"
)

// Ensure EvaluatorService implements the interface.
var _ driving.Evaluator = (*EvaluatorService)(nil)

const (
	// readinessTimeout bounds the one-time availability probe.
	readinessTimeout = 5 * time.Second

	// fallbackSummaryLen caps the raw excerpt used as summary when the
	// model did not answer.
	fallbackSummaryLen = 400

	// completionMaxTokens is enough for the three labelled lines.
	completionMaxTokens = 256
)

// EvaluatorService scores content by blending the keyword heuristic with
// a language model judgement.
type EvaluatorService struct {
	llm     driven.LLMService
	prompts driven.PromptStore
	scoring domain.ScoringSettings
	timeout time.Duration

	readyMu sync.Mutex
	probed  bool
	ready   bool
}

// NewEvaluatorService creates a new evaluator.
// The llm parameter is optional (can be nil); without it every evaluation
// follows the not-ready policy of its content kind.
func NewEvaluatorService(
	llm driven.LLMService,
	prompts driven.PromptStore,
	scoring domain.ScoringSettings,
	timeout time.Duration,
) *EvaluatorService {
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	if scoring.Thresholds.Read <= 0 {
		scoring.Thresholds = domain.DefaultThresholds()
	}
	return &EvaluatorService{
		llm:     llm,
		prompts: prompts,
		scoring: scoring,
		timeout: timeout,
	}
}

// Ready reports whether the model answered the availability probe.
// The answer is cached, except when the probe ended because ctx was
// cancelled; the next caller probes again.
func (s *EvaluatorService) Ready(ctx context.Context) bool {
	s.readyMu.Lock()
	defer s.readyMu.Unlock()
	if s.probed {
		return s.ready
	}
	if s.llm == nil {
		logger.Debug("Evaluator: no language model configured")
		s.probed = true
		return false
	}

	pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
	defer cancel()
	if err := s.llm.Ping(pingCtx); err != nil {
		if ctx.Err() != nil {
			logger.Debug("Evaluator: readiness probe cancelled: %v", err)
			return false
		}
		logger.Warn("Evaluator: model %s not ready: %v", s.llm.ModelName(), err)
		s.probed = true
		return false
	}
	logger.Debug("Evaluator: model %s ready", s.llm.ModelName())
	s.probed, s.ready = true, true
	return true
}

// Source reports which signal Evaluate will use for kind.
func (s *EvaluatorService) Source(ctx context.Context, kind domain.ContentKind) (domain.ScoreSource, error) {
	if s.Ready(ctx) {
		return domain.ScoreSourceModel, nil
	}
	if s.scoring.Policy(kind) == domain.PolicyModelOnly {
		return "", domain.ErrModelUnavailable
	}
	return domain.ScoreSourceHeuristic, nil
}

// Evaluate scores sample against goal.
func (s *EvaluatorService) Evaluate(
	ctx context.Context, goal string, sample domain.ContentSample,
) (domain.ScoreResult, error) {
	if !sample.Kind.IsValid() {
		return domain.ScoreResult{}, fmt.Errorf("%w: content kind %q", domain.ErrInvalidInput, sample.Kind)
	}

	h := relevance.Score(goal, sample)
	logger.Debug("Evaluator: %s %q heuristic=%d", sample.Kind, sample.Title, h)

	source, err := s.Source(ctx, sample.Kind)
	if err != nil {
		return domain.ScoreResult{}, err
	}
	if source == domain.ScoreSourceHeuristic {
		return s.heuristicResult(h, sample), nil
	}

	parsed, err := s.ask(ctx, goal, sample)
	if err != nil {
		logger.Warn("Evaluator: model call failed, using heuristic: %v", err)
		return s.heuristicResult(h, sample), nil
	}

	m := parsed.Relevance
	final := relevance.Blend(h, m)
	logger.Debug("Evaluator: model=%d final=%d", m, final)

	return domain.ScoreResult{
		Relevance:      final,
		Recommendation: s.scoring.Thresholds.Recommend(final),
		Summary:        parsed.Summary,
		Heuristic:      h,
		Model:          &m,
		Source:         domain.ScoreSourceModel,
	}, nil
}

// ask runs one model call under the request timeout.
func (s *EvaluatorService) ask(
	ctx context.Context, goal string, sample domain.ContentSample,
) (relevance.Parsed, error) {
	name := driven.PromptPageRelevance
	if sample.Kind == domain.ContentKindVideo {
		name = driven.PromptVideoRelevance
	}
	tmpl, err := s.prompts.Load(name)
	if err != nil {
		return relevance.Parsed{}, fmt.Errorf("load prompt %s: %w", name, err)
	}
	system, err := s.prompts.Load(driven.PromptSystem)
	if err != nil {
		return relevance.Parsed{}, fmt.Errorf("load prompt %s: %w", driven.PromptSystem, err)
	}

	prompt := relevance.BuildPrompt(tmpl, goal, sample.Text(), sample.PromptMaxLen())

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	messages := []driven.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: prompt},
	}
	reply, err := s.llm.Chat(callCtx, messages, driven.ChatOptions{
		MaxTokens:   completionMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return relevance.Parsed{}, err
	}
	return relevance.ParseResponse(reply), nil
}

func (s *EvaluatorService) heuristicResult(h int, sample domain.ContentSample) domain.ScoreResult {
	return domain.ScoreResult{
		Relevance:      h,
		Recommendation: s.scoring.Thresholds.Recommend(h),
		Summary:        excerpt(sample.Text()),
		Heuristic:      h,
		Source:         domain.ScoreSourceHeuristic,
	}
}

func excerpt(text string) string {
	return strings.TrimSpace(domain.Truncate(domain.CollapseWhitespace(text), fallbackSummaryLen))
}
