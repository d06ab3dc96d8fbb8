package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

func video(id, title string) domain.Item {
	return domain.Item{ID: id, Sample: domain.ContentSample{Title: title, Channel: "chan"}}
}

func newTestScanner(items ...domain.Item) (*RescanCoordinator, *mockEvaluator, *mockItemSource, *mockSurface) {
	eval := newMockEvaluator(map[string]int{
		"Go channels explained": 90,
		"Cat compilation":       10,
		"Cooking pasta":         30,
	})
	source := &mockItemSource{}
	source.set(items...)
	surface := newMockSurface()
	settings := domain.ScanSettings{BlurThreshold: 60, Budget: 8}
	return NewRescanCoordinator(eval, source, surface, settings), eval, source, surface
}

// enable starts a cycle and waits for the pass Enable schedules.
func enable(c *RescanCoordinator, goal string) {
	c.Enable(context.Background(), goal)
	c.Wait()
}

func TestRescan_BlursBelowThreshold(t *testing.T) {
	c, _, _, surface := newTestScanner(
		video("a", "Go channels explained"),
		video("b", "Cat compilation"),
		video("c", "Cooking pasta"),
	)

	enable(c, "learn go channels")

	assert.Equal(t, []string{"b", "c"}, surface.ids())
	scores := c.Scores()
	assert.Equal(t, domain.ItemScore{Scored: true, Score: 90}, scores["a"])
	assert.Equal(t, domain.ItemScore{Scored: true, Score: 10, Blurred: true}, scores["b"])
}

func TestRescan_ScoredItemsAreNotReevaluated(t *testing.T) {
	c, eval, _, _ := newTestScanner(video("a", "Go channels explained"), video("b", "Cat compilation"))
	enable(c, "learn go channels")

	report, err := c.Scan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, report.Seen)
	assert.Equal(t, 0, report.Evaluated)
	assert.Equal(t, 1, eval.callsFor("Go channels explained"))
	assert.Equal(t, 1, eval.callsFor("Cat compilation"))
}

func TestRescan_NewItemsAreScoredOnNotify(t *testing.T) {
	c, eval, source, _ := newTestScanner(video("a", "Go channels explained"))
	enable(c, "learn go channels")

	source.set(video("a", "Go channels explained"), video("b", "Cooking pasta"))
	c.Notify()
	c.Wait()

	assert.Equal(t, 1, eval.callsFor("Go channels explained"))
	assert.Equal(t, 1, eval.callsFor("Cooking pasta"))
	assert.True(t, c.Scores()["b"].Blurred)
}

func TestRescan_DisableThenEnableRescansFromScratch(t *testing.T) {
	c, eval, _, surface := newTestScanner(video("a", "Go channels explained"), video("b", "Cat compilation"))
	ctx := context.Background()
	enable(c, "learn go channels")
	require.Equal(t, []string{"b"}, surface.ids())

	c.Disable(ctx)

	assert.Empty(t, surface.ids())
	assert.Empty(t, c.Scores())
	_, err := c.Scan(ctx)
	assert.ErrorIs(t, err, domain.ErrScanDisabled)

	enable(c, "learn go channels")

	assert.Equal(t, 2, eval.callsFor("Go channels explained"))
	assert.Equal(t, 2, eval.callsFor("Cat compilation"))
	assert.Equal(t, []string{"b"}, surface.ids())
}

func TestRescan_GoalChangeStartsNewCycle(t *testing.T) {
	c, eval, _, surface := newTestScanner(video("a", "Go channels explained"))
	enable(c, "learn go channels")
	enable(c, "learn go channels")
	require.Equal(t, 1, eval.callsFor("Go channels explained"))

	enable(c, "write a novel")

	assert.Equal(t, 2, eval.callsFor("Go channels explained"))
	assert.Equal(t, 1, surface.clears)
}

func TestRescan_GoalChangeDuringPassRescansForNewGoal(t *testing.T) {
	c, eval, source, surface := newTestScanner(video("a", "Go channels explained"), video("b", "Cat compilation"))
	started := make(chan struct{})
	release := make(chan struct{})
	source.hook = func(call int) {
		if call == 1 {
			close(started)
			<-release
		}
	}

	c.Enable(context.Background(), "old goal cooking")
	<-started
	c.Enable(context.Background(), "learn go channels")
	close(release)
	c.Wait()

	assert.Equal(t, 2, source.callCount())
	assert.Equal(t, 1, eval.callsFor("Go channels explained"))
	assert.Equal(t, []string{"b"}, surface.ids())
	assert.True(t, c.Scores()["a"].Scored)
}

func TestRescan_DisableEnableDuringPassRescans(t *testing.T) {
	c, _, source, surface := newTestScanner(video("b", "Cat compilation"))
	ctx := context.Background()
	started := make(chan struct{})
	release := make(chan struct{})
	source.hook = func(call int) {
		if call == 1 {
			close(started)
			<-release
		}
	}

	c.Enable(ctx, "learn go channels")
	<-started
	c.Disable(ctx)
	c.Enable(ctx, "learn go channels")
	close(release)
	c.Wait()

	assert.Equal(t, 2, source.callCount())
	assert.Equal(t, []string{"b"}, surface.ids())
}

func TestRescan_BudgetLimitsModelEvaluations(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 11; i++ {
		items = append(items, video(fmt.Sprintf("v%d", i), fmt.Sprintf("Video %d", i)))
	}
	c, eval, _, _ := newTestScanner(items...)
	c.Enable(context.Background(), "goal words")
	c.Wait()
	ctx := context.Background()

	assert.Equal(t, 8, eval.totalCalls())

	report, err := c.Scan(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, report.Evaluated)
	assert.Equal(t, 0, report.Deferred)
	assert.Equal(t, 11, eval.totalCalls())
}

func TestRescan_ReportCountsDeferred(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 10; i++ {
		items = append(items, video(fmt.Sprintf("v%d", i), fmt.Sprintf("Video %d", i)))
	}
	c, _, _, _ := newTestScanner(items...)
	ctx := context.Background()
	c.mu.Lock()
	c.enabled, c.goal = true, "goal words"
	c.cycleCtx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	report, err := c.Scan(ctx)

	require.NoError(t, err)
	assert.Equal(t, 10, report.Seen)
	assert.Equal(t, 8, report.Evaluated)
	assert.Equal(t, 2, report.Deferred)
	assert.Equal(t, 8, report.Blurred)
}

func TestRescan_NoBudgetForHeuristicScoring(t *testing.T) {
	var items []domain.Item
	for i := 0; i < 12; i++ {
		items = append(items, video(fmt.Sprintf("v%d", i), fmt.Sprintf("Video %d", i)))
	}
	c, eval, _, _ := newTestScanner(items...)
	eval.source = domain.ScoreSourceHeuristic

	enable(c, "goal words")

	assert.Equal(t, 12, eval.totalCalls())
}

func TestRescan_UntitledItemsMarkedWithoutScoring(t *testing.T) {
	c, eval, _, surface := newTestScanner(video("a", "  "), video("b", "Go channels explained"))

	enable(c, "learn go channels")

	assert.Equal(t, 1, eval.totalCalls())
	assert.Equal(t, domain.ItemScore{Scored: true, Score: -1}, c.Scores()["a"])
	assert.Empty(t, surface.ids())
}

func TestRescan_ModelUnavailableSkipsPass(t *testing.T) {
	c, eval, _, _ := newTestScanner(video("a", ""), video("b", "Go channels explained"))
	eval.err = domain.ErrModelUnavailable
	ctx := context.Background()
	enable(c, "learn go channels")

	report, err := c.Scan(ctx)

	require.NoError(t, err)
	assert.Equal(t, "language model unavailable", report.Skipped)
	assert.Equal(t, 0, eval.totalCalls())
	assert.Empty(t, c.Scores())
}

func TestRescan_NoGoalSkipsPass(t *testing.T) {
	c, eval, _, _ := newTestScanner(video("a", "Go channels explained"))

	enable(c, "")
	report, err := c.Scan(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "no goal set", report.Skipped)
	assert.Equal(t, 0, eval.totalCalls())
}

func TestRescan_InFlightResultDiscardedAfterDisable(t *testing.T) {
	c, eval, _, surface := newTestScanner(video("a", "Cat compilation"), video("b", "Cooking pasta"))
	ctx := context.Background()
	eval.hook = func(title string) {
		if title == "Cat compilation" {
			c.Disable(ctx)
		}
	}

	enable(c, "learn go channels")

	assert.Empty(t, surface.ids())
	assert.Empty(t, c.Scores())
	assert.Equal(t, 0, eval.callsFor("Cooking pasta"))
}

func TestRescan_ListFailure(t *testing.T) {
	c, _, source, _ := newTestScanner()
	source.err = errStore
	enable(c, "goal words")

	_, err := c.Scan(context.Background())

	assert.ErrorIs(t, err, errStore)
}

func TestRescan_Reveal(t *testing.T) {
	c, _, _, surface := newTestScanner(video("b", "Cat compilation"))
	ctx := context.Background()
	enable(c, "learn go channels")
	require.Equal(t, []string{"b"}, surface.ids())

	require.NoError(t, c.Reveal(ctx, "b"))

	assert.Empty(t, surface.ids())
	sc := c.Scores()["b"]
	assert.True(t, sc.Revealed)
	assert.False(t, sc.Blurred)
	assert.Equal(t, 10, sc.Score)

	// revealed items stay scored
	_, err := c.Scan(ctx)
	require.NoError(t, err)
	assert.Empty(t, surface.ids())

	assert.ErrorIs(t, c.Reveal(ctx, "missing"), domain.ErrNotFound)
}

func TestRescan_FollowsSession(t *testing.T) {
	c, eval, _, surface := newTestScanner(video("b", "Cat compilation"))
	follow := c.Follow(context.Background())

	follow(domain.SessionView{State: domain.SessionActive, Goal: "learn go channels"})
	c.Wait()
	assert.Equal(t, 1, eval.callsFor("Cat compilation"))
	assert.Equal(t, []string{"b"}, surface.ids())

	// ticks of the same session do not rescan
	follow(domain.SessionView{State: domain.SessionActive, Goal: "learn go channels"})
	c.Wait()
	assert.Equal(t, 1, eval.callsFor("Cat compilation"))

	follow(domain.SessionView{State: domain.SessionExpired, Goal: "learn go channels"})
	assert.Empty(t, surface.ids())
	assert.Empty(t, c.Scores())
}
