package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

func TestServer_handleAnalyzePage(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the verdict", func(t *testing.T) {
		analyzer := &mockAnalyzer{reply: domain.Message{
			Type:           domain.MessageResult,
			URL:            "https://go.dev/blog",
			Title:          "Go Blog",
			Relevance:      82,
			Recommendation: domain.RecommendationRead,
			Summary:        "About Go.",
		}}
		s, err := NewServer(&Ports{Analyzer: analyzer, Session: &mockSessionService{}})
		require.NoError(t, err)

		_, out, err := s.handleAnalyzePage(ctx, nil, AnalyzePageInput{URL: "https://go.dev/blog", Goal: "learn go", MaxLen: 500})

		require.NoError(t, err)
		assert.Equal(t, domain.MessageAnalyze, analyzer.got.Type)
		assert.Equal(t, "learn go", analyzer.got.Goal)
		assert.Equal(t, 500, analyzer.got.MaxLen)
		assert.Equal(t, 82, out.Relevance)
		assert.Equal(t, "READ", out.Recommendation)
		assert.Equal(t, "Go Blog", out.Title)
	})

	t.Run("reply error becomes a tool error", func(t *testing.T) {
		analyzer := &mockAnalyzer{reply: domain.Message{Error: domain.ErrEmptyGoal.Error()}}
		s, err := NewServer(&Ports{Analyzer: analyzer, Session: &mockSessionService{}})
		require.NoError(t, err)

		_, _, err = s.handleAnalyzePage(ctx, nil, AnalyzePageInput{Text: "some text"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "no goal set")
	})
}

func TestServer_handleScoreVideo(t *testing.T) {
	ctx := context.Background()
	model := 70

	t.Run("maps the card fields", func(t *testing.T) {
		videos := &mockVideoScorer{result: domain.ScoreResult{
			Relevance:      64,
			Recommendation: domain.RecommendationSkim,
			Model:          &model,
			Source:         domain.ScoreSourceModel,
		}}
		s, err := NewServer(&Ports{Analyzer: &mockAnalyzer{}, Videos: videos, Session: &mockSessionService{}})
		require.NoError(t, err)

		_, out, err := s.handleScoreVideo(ctx, nil, ScoreVideoInput{
			Title: "Go generics", Channel: "Go Team", Meta: "1M views", Goal: "learn go",
		})

		require.NoError(t, err)
		assert.Equal(t, "learn go", videos.goal)
		assert.Equal(t, domain.ContentKindVideo, videos.sample.Kind)
		assert.Equal(t, "Go Team", videos.sample.Channel)
		assert.Equal(t, "1M views", videos.sample.MetaLine)
		assert.Equal(t, 64, out.Relevance)
		assert.Equal(t, "SKIM", out.Recommendation)
		assert.Equal(t, "model", out.Source)
	})

	t.Run("propagates model unavailable", func(t *testing.T) {
		videos := &mockVideoScorer{err: domain.ErrModelUnavailable}
		s, err := NewServer(&Ports{Analyzer: &mockAnalyzer{}, Videos: videos, Session: &mockSessionService{}})
		require.NoError(t, err)

		_, _, err = s.handleScoreVideo(ctx, nil, ScoreVideoInput{Title: "x"})

		assert.True(t, errors.Is(err, domain.ErrModelUnavailable))
	})
}

func TestServer_handleFocusStatus(t *testing.T) {
	end := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	session := &mockSessionService{view: domain.SessionView{
		State:     domain.SessionActive,
		Goal:      "write thesis",
		FocusMode: true,
		EndAt:     &end,
		Remaining: 90 * time.Second,
	}}
	s, err := NewServer(&Ports{Analyzer: &mockAnalyzer{}, Session: session})
	require.NoError(t, err)

	_, out, err := s.handleFocusStatus(context.Background(), nil, FocusStatusInput{})

	require.NoError(t, err)
	assert.Equal(t, "active", out.State)
	assert.Equal(t, "write thesis", out.Goal)
	assert.Equal(t, "01:30", out.Remaining)
	assert.Equal(t, "2026-03-14T09:30:00Z", out.EndAt)
	assert.True(t, out.Enforcing)
}
