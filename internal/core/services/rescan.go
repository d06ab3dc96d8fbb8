package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// Ensure RescanCoordinator implements the interface.
var _ driving.Scanner = (*RescanCoordinator)(nil)

// Reasons reported in domain.ScanReport.Skipped.
const (
	skipDisabled         = "scanning disabled"
	skipNoGoal           = "no goal set"
	skipModelUnavailable = "language model unavailable"
	skipSuperseded       = "superseded by a newer enable"
)

// untitledScore marks items that were passed over for lack of a title.
const untitledScore = -1

// RescanCoordinator scores the items of a listing against the goal and
// blurs the ones that fall below the blur threshold.
//
// Each item is scored at most once per enable cycle. Disabling, or
// changing the goal, starts a new cycle: all blur is removed, the score
// cache is emptied and results still in flight are discarded.
type RescanCoordinator struct {
	evaluator driving.Evaluator
	source    driven.ItemSource
	surface   driven.ItemSurface
	settings  domain.ScanSettings
	coalescer *Coalescer

	mu         sync.Mutex
	enabled    bool
	goal       string
	generation uint64
	scores     map[string]domain.ItemScore
	cycleCtx   context.Context
	cancel     context.CancelFunc
}

// NewRescanCoordinator creates a new rescan coordinator.
func NewRescanCoordinator(
	evaluator driving.Evaluator,
	source driven.ItemSource,
	surface driven.ItemSurface,
	settings domain.ScanSettings,
) *RescanCoordinator {
	if settings.BlurThreshold <= 0 {
		settings.BlurThreshold = domain.DefaultBlurThreshold
	}
	if settings.Budget < 0 {
		settings.Budget = 0
	}
	c := &RescanCoordinator{
		evaluator: evaluator,
		source:    source,
		surface:   surface,
		settings:  settings,
		scores:    make(map[string]domain.ItemScore),
	}
	c.coalescer = NewCoalescer(c.scanInBackground)
	return c
}

// Enable starts scanning for goal. Re-enabling with the same goal is a no-op;
// a different goal starts a fresh cycle.
func (c *RescanCoordinator) Enable(ctx context.Context, goal string) {
	goal = strings.TrimSpace(goal)

	c.mu.Lock()
	if c.enabled && c.goal == goal {
		c.mu.Unlock()
		return
	}
	if c.enabled {
		logger.Debug("Scan: goal changed to %q, starting a new cycle", goal)
		c.resetLocked(ctx)
	}
	c.enabled = true
	c.goal = goal
	c.cycleCtx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	c.Notify()
}

// Disable stops scanning, removes all blur and forgets all scores.
func (c *RescanCoordinator) Disable(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled {
		return
	}
	c.enabled = false
	c.goal = ""
	c.resetLocked(ctx)
	logger.Debug("Scan: disabled")
}

// resetLocked ends the current cycle. Must be called with mu held.
func (c *RescanCoordinator) resetLocked(ctx context.Context) {
	c.generation++
	c.scores = make(map[string]domain.ItemScore)
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if err := c.surface.ClearAll(ctx); err != nil {
		logger.Warn("Scan: clear blur: %v", err)
	}
}

// Notify signals that the listing changed.
func (c *RescanCoordinator) Notify() {
	c.mu.Lock()
	enabled, ctx := c.enabled, c.cycleCtx
	c.mu.Unlock()

	if !enabled || ctx == nil {
		return
	}
	c.coalescer.Trigger(ctx)
}

// Wait blocks until background scans triggered by Notify have finished.
func (c *RescanCoordinator) Wait() {
	c.coalescer.Wait()
}

func (c *RescanCoordinator) scanInBackground(ctx context.Context) {
	report, err := c.Scan(ctx)
	if err != nil && !errors.Is(err, domain.ErrScanDisabled) {
		logger.Warn("Scan: %v", err)
		return
	}
	logger.Debug("Scan: seen=%d evaluated=%d untitled=%d blurred=%d deferred=%d skipped=%q",
		report.Seen, report.Evaluated, report.Untitled, report.Blurred, report.Deferred, report.Skipped)
}

// Scan runs one pass synchronously.
func (c *RescanCoordinator) Scan(ctx context.Context) (domain.ScanReport, error) {
	defer logger.Timed("scan pass")()

	c.mu.Lock()
	enabled, goal, gen := c.enabled, c.goal, c.generation
	c.mu.Unlock()

	var report domain.ScanReport
	if !enabled {
		report.Skipped = skipDisabled
		return report, domain.ErrScanDisabled
	}
	if goal == "" {
		report.Skipped = skipNoGoal
		return report, nil
	}

	source, err := c.evaluator.Source(ctx, domain.ContentKindVideo)
	if errors.Is(err, domain.ErrModelUnavailable) {
		report.Skipped = skipModelUnavailable
		return report, nil
	}
	if err != nil {
		return report, fmt.Errorf("check model: %w", err)
	}
	budget := 0
	if source == domain.ScoreSourceModel {
		budget = c.settings.Budget
	}

	items, err := c.source.Items(ctx)
	if err != nil {
		return report, fmt.Errorf("list items: %w", err)
	}
	report.Seen = len(items)

	for _, item := range items {
		if ctx.Err() != nil {
			break
		}

		c.mu.Lock()
		stale := gen != c.generation
		cached := c.scores[item.ID]
		c.mu.Unlock()
		if stale {
			report.Skipped = skipSuperseded
			return report, nil
		}
		if cached.Scored {
			continue
		}

		if strings.TrimSpace(item.Sample.Title) == "" {
			if c.store(gen, item.ID, domain.ItemScore{Scored: true, Score: untitledScore}) {
				report.Untitled++
			}
			continue
		}

		if budget > 0 && report.Evaluated >= budget {
			report.Deferred++
			continue
		}

		sample := item.Sample
		sample.Kind = domain.ContentKindVideo
		res, err := c.evaluator.Evaluate(ctx, goal, sample)
		if errors.Is(err, domain.ErrModelUnavailable) {
			report.Skipped = skipModelUnavailable
			return report, nil
		}
		if err != nil {
			logger.Warn("Scan: evaluate %s: %v", item.ID, err)
			continue
		}
		report.Evaluated++

		blur := res.Relevance < c.settings.BlurThreshold
		if !c.store(gen, item.ID, domain.ItemScore{Scored: true, Score: res.Relevance, Blurred: blur}) {
			report.Skipped = skipSuperseded
			return report, nil
		}
		if blur {
			report.Blurred++
		}
	}
	return report, nil
}

// store caches an item score and applies its visual effect, unless the
// cycle the score belongs to has ended. It reports whether it stored.
func (c *RescanCoordinator) store(gen uint64, id string, score domain.ItemScore) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return false
	}
	c.scores[id] = score

	if score.Score == untitledScore {
		return true
	}
	var err error
	if score.Blurred {
		err = c.surface.Blur(c.cycleCtx, id, score.Score)
	} else {
		err = c.surface.Clear(c.cycleCtx, id)
	}
	if err != nil {
		logger.Warn("Scan: apply effect to %s: %v", id, err)
	}
	return true
}

// Reveal removes the blur from one item.
func (c *RescanCoordinator) Reveal(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	sc, ok := c.scores[id]
	if !ok {
		return fmt.Errorf("item %s: %w", id, domain.ErrNotFound)
	}
	sc.Blurred = false
	sc.Revealed = true
	c.scores[id] = sc
	return c.surface.Clear(ctx, id)
}

// Scores returns a copy of the per-item cache.
func (c *RescanCoordinator) Scores() map[string]domain.ItemScore {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.ItemScore, len(c.scores))
	for id, sc := range c.scores {
		out[id] = sc
	}
	return out
}

// Follow returns a session subscriber that scans while the session
// enforces a goal and stops scanning otherwise.
func (c *RescanCoordinator) Follow(ctx context.Context) func(domain.SessionView) {
	return func(v domain.SessionView) {
		if v.Enforcing() {
			c.Enable(ctx, v.Goal)
			return
		}
		c.Disable(ctx)
	}
}
