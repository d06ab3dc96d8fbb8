package ratelimit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

type countingLLM struct {
	calls atomic.Int32
	pings atomic.Int32
}

func (c *countingLLM) Generate(context.Context, string, driven.GenerateOptions) (string, error) {
	c.calls.Add(1)
	return "gen", nil
}

func (c *countingLLM) Chat(context.Context, []driven.ChatMessage, driven.ChatOptions) (string, error) {
	c.calls.Add(1)
	return "chat", nil
}

func (c *countingLLM) ModelName() string { return "fake" }

func (c *countingLLM) Ping(context.Context) error {
	c.pings.Add(1)
	return nil
}

func (c *countingLLM) Close() error { return nil }

func TestWrap_DisabledReturnsNext(t *testing.T) {
	next := &countingLLM{}
	assert.Same(t, next, Wrap(next, 0, 1))
	assert.Nil(t, Wrap(nil, 5, 1))
}

func TestWrap_Delegates(t *testing.T) {
	next := &countingLLM{}
	svc := Wrap(next, 100, 5)

	reply, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)
	assert.Equal(t, "chat", reply)

	reply, err = svc.Generate(context.Background(), "p", driven.GenerateOptions{})
	require.NoError(t, err)
	assert.Equal(t, "gen", reply)

	assert.Equal(t, "fake", svc.ModelName())
	require.NoError(t, svc.Ping(context.Background()))
	assert.NoError(t, svc.Close())
	assert.Equal(t, int32(2), next.calls.Load())
	assert.Equal(t, int32(1), next.pings.Load())
}

func TestWrap_WaitHonoursContext(t *testing.T) {
	next := &countingLLM{}
	// One token per minute: the second call must wait far longer than the deadline.
	svc := Wrap(next, 1.0/60, 1)

	_, err := svc.Chat(context.Background(), nil, driven.ChatOptions{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = svc.Chat(ctx, nil, driven.ChatOptions{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit")
	assert.Equal(t, int32(1), next.calls.Load())
}
