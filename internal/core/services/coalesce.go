package services

import (
	"context"
	"sync"
)

// Coalescer runs a function on the leading edge of a burst of triggers.
// Triggers arriving while the function runs collapse into exactly one
// trailing run, so the last change of a burst is never missed and at
// most one run is pending at any time. The trailing run uses the context
// of the latest trigger and is dropped only when that context is done.
type Coalescer struct {
	fn func(context.Context)

	mu      sync.Mutex
	running bool
	pending bool
	next    context.Context
	wg      sync.WaitGroup
}

// NewCoalescer creates a coalescer around fn.
func NewCoalescer(fn func(context.Context)) *Coalescer {
	return &Coalescer{fn: fn}
}

// Trigger requests a run. It never blocks.
func (c *Coalescer) Trigger(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.running {
		c.pending = true
		c.next = ctx
		return
	}
	c.running = true
	c.wg.Add(1)
	go c.loop(ctx)
}

func (c *Coalescer) loop(ctx context.Context) {
	defer c.wg.Done()
	for {
		c.fn(ctx)

		c.mu.Lock()
		if c.pending {
			ctx = c.next
		}
		if !c.pending || ctx.Err() != nil {
			c.running = false
			c.pending = false
			c.next = nil
			c.mu.Unlock()
			return
		}
		c.pending = false
		c.next = nil
		c.mu.Unlock()
	}
}

// Wait blocks until no run is in progress or pending.
func (c *Coalescer) Wait() {
	c.wg.Wait()
}
