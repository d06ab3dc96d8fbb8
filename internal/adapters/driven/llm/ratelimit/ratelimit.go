// Package ratelimit wraps an LLM service with a token bucket so bursts of
// listing scans cannot exceed a provider's request quota.
package ratelimit

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultBurst is the number of requests allowed back to back.
const DefaultBurst = 2

// LLMService delegates to another LLM service after waiting for a token.
// Ping and ModelName are never limited.
type LLMService struct {
	next    driven.LLMService
	limiter *rate.Limiter
}

// Wrap returns next limited to perSecond requests. A non-positive rate
// disables limiting and returns next unchanged.
func Wrap(next driven.LLMService, perSecond float64, burst int) driven.LLMService {
	if perSecond <= 0 || next == nil {
		return next
	}
	if burst <= 0 {
		burst = DefaultBurst
	}
	return &LLMService{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Generate waits for a token, then generates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return s.next.Generate(ctx, prompt, opts)
}

// Chat waits for a token, then chats.
func (s *LLMService) Chat(ctx context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	if err := s.wait(ctx); err != nil {
		return "", err
	}
	return s.next.Chat(ctx, messages, opts)
}

func (s *LLMService) wait(ctx context.Context) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit: %w", err)
	}
	return nil
}

// ModelName returns the wrapped model name.
func (s *LLMService) ModelName() string {
	return s.next.ModelName()
}

// Ping checks the wrapped service.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

// Close closes the wrapped service.
func (s *LLMService) Close() error {
	return s.next.Close()
}
