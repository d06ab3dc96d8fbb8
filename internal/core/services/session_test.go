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

var sessionEpoch = time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

func newTestSession(state domain.FocusState) (*SessionController, *mockSessionStore, *clock.Manual, *mockSessionLog) {
	store := newMockSessionStore(state)
	clk := clock.NewManual(sessionEpoch)
	log := &mockSessionLog{}
	return NewSessionController(store, log, clk, 0), store, clk, log
}

func TestSession_InactiveWhenFocusOff(t *testing.T) {
	c, store, _, _ := newTestSession(domain.FocusState{Goal: "write thesis"})

	v := c.Sync(context.Background(), nil)

	assert.Equal(t, domain.SessionInactive, v.State)
	assert.Equal(t, "write thesis", v.Goal)
	assert.Empty(t, v.Display())
	assert.False(t, v.Enforcing())
	assert.Equal(t, 0, store.patchCount())
}

func TestSession_BackfillsEndOnce(t *testing.T) {
	c, store, clk, log := newTestSession(domain.FocusState{Goal: "write thesis", FocusMode: true})
	ctx := context.Background()

	v := c.Sync(ctx, []string{domain.KeyFocusMode})

	require.Equal(t, domain.SessionActive, v.State)
	require.NotNil(t, v.EndAt)
	assert.Equal(t, sessionEpoch.Add(30*time.Minute), *v.EndAt)
	assert.Equal(t, "30:00", v.Display())
	assert.True(t, v.Enforcing())
	require.Equal(t, 1, store.patchCount())
	assert.Equal(t, sessionEpoch.Add(30*time.Minute), *store.current().EndAt)
	require.Len(t, log.started, 1)

	// A second trigger must not extend the running session.
	clk.Advance(5 * time.Minute)
	v = c.Sync(ctx, []string{domain.KeyFocusMode})

	assert.Equal(t, sessionEpoch.Add(30*time.Minute), *v.EndAt)
	assert.Equal(t, "25:00", v.Display())
	assert.Equal(t, 1, store.patchCount())
	assert.Len(t, log.started, 1)
}

func TestSession_BackfillUsesStoredDuration(t *testing.T) {
	c, _, _, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, DurationMinutes: 45})

	v := c.Sync(context.Background(), nil)

	assert.Equal(t, sessionEpoch.Add(45*time.Minute), *v.EndAt)
}

func TestSession_BackfillReplacesPastEnd(t *testing.T) {
	past := sessionEpoch.Add(-time.Hour)
	c, _, _, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &past})

	v := c.Sync(context.Background(), nil)

	assert.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, sessionEpoch.Add(30*time.Minute), *v.EndAt)
}

func TestSession_TickCountsDown(t *testing.T) {
	end := sessionEpoch.Add(10 * time.Minute)
	c, store, clk, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &end})
	ctx := context.Background()
	c.Sync(ctx, nil)

	clk.Advance(90*time.Second + 400*time.Millisecond)
	v := c.Tick(ctx)

	assert.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, "08:29", v.Display())
	assert.Equal(t, 0, store.patchCount())
}

func TestSession_ExpiryFiresOnce(t *testing.T) {
	end := sessionEpoch.Add(time.Minute)
	c, store, clk, log := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &end})
	ctx := context.Background()
	c.Sync(ctx, nil)

	clk.Advance(time.Minute)
	v := c.Tick(ctx)

	assert.Equal(t, domain.SessionExpired, v.State)
	require.Equal(t, 1, store.patchCount())
	patch := store.patches[0]
	require.NotNil(t, patch.FocusMode)
	assert.False(t, *patch.FocusMode)
	assert.True(t, patch.ClearEndAt)
	require.Len(t, log.ended, 1)
	assert.Equal(t, SessionID(end), log.ended[0])

	// remaining still <= 0 on the next ticks: no second clear
	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		c.Tick(ctx)
	}
	assert.Equal(t, 1, store.patchCount())
	assert.Len(t, log.ended, 1)

	// store caught up: focus is off
	v = c.Sync(ctx, []string{domain.KeyFocusMode, domain.KeyFocusEndAt})
	assert.Equal(t, domain.SessionInactive, v.State)
	assert.Equal(t, 1, store.patchCount())
}

func TestSession_ExpiryWithFailingStoreStaysExpired(t *testing.T) {
	end := sessionEpoch.Add(time.Minute)
	c, store, clk, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &end})
	ctx := context.Background()
	c.Sync(ctx, nil)
	store.setErr = errStore

	clk.Advance(2 * time.Minute)
	assert.Equal(t, domain.SessionExpired, c.Tick(ctx).State)
	assert.Equal(t, domain.SessionExpired, c.Tick(ctx).State)

	// unrelated change re-reads stale state; must neither backfill nor re-expire
	v := c.Sync(ctx, []string{domain.KeyUserGoal})
	assert.Equal(t, domain.SessionExpired, v.State)
	assert.Equal(t, 1, store.patchCount())
}

func TestSession_ExplicitEnableRearmsAfterExpiry(t *testing.T) {
	end := sessionEpoch.Add(time.Minute)
	c, store, clk, log := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &end})
	ctx := context.Background()
	c.Sync(ctx, nil)
	clk.Advance(time.Minute)
	c.Tick(ctx)
	c.Sync(ctx, []string{domain.KeyFocusMode, domain.KeyFocusEndAt})

	clk.Advance(time.Minute)
	store.external(domain.StatePatch{FocusMode: boolPtr(true)})
	v := c.Sync(ctx, []string{domain.KeyFocusMode})

	require.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, clk.Now().Add(30*time.Minute), *v.EndAt)
	assert.Len(t, log.started, 2)

	clk.Advance(30 * time.Minute)
	assert.Equal(t, domain.SessionExpired, c.Tick(ctx).State)
	assert.Len(t, log.ended, 2)
}

func TestSession_ReadFailureKeepsPriorState(t *testing.T) {
	end := sessionEpoch.Add(10 * time.Minute)
	c, store, _, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true, EndAt: &end})
	ctx := context.Background()
	c.Sync(ctx, nil)

	store.getErr = errStore
	v := c.Sync(ctx, []string{domain.KeyUserGoal})

	assert.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, "g", v.Goal)
}

func TestSession_Enable(t *testing.T) {
	c, store, clk, _ := newTestSession(domain.FocusState{})
	ctx := context.Background()

	_, err := c.Enable(ctx, "  ", 0)
	assert.ErrorIs(t, err, domain.ErrEmptyGoal)

	_, err = c.Enable(ctx, "goal", -1)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	v, err := c.Enable(ctx, "ship release notes", 25)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, "ship release notes", v.Goal)
	assert.Equal(t, sessionEpoch.Add(25*time.Minute), *v.EndAt)
	assert.Equal(t, 25, store.current().DurationMinutes)

	clk.Advance(time.Minute)
	v, err = c.Enable(ctx, "", 0)
	require.NoError(t, err)
	assert.Equal(t, sessionEpoch.Add(25*time.Minute), *v.EndAt, "enable must not extend a running session")
}

func TestSession_EnableWithFailingStore(t *testing.T) {
	c, store, _, _ := newTestSession(domain.FocusState{})
	store.setErr = errStore
	store.getErr = errStore

	v, err := c.Enable(context.Background(), "read paper", 0)

	require.NoError(t, err)
	assert.Equal(t, domain.SessionActive, v.State)
	assert.Equal(t, "read paper", v.Goal)
	assert.Equal(t, sessionEpoch.Add(30*time.Minute), *v.EndAt)
}

func TestSession_Disable(t *testing.T) {
	c, store, clk, log := newTestSession(domain.FocusState{Goal: "g"})
	ctx := context.Background()
	_, err := c.Enable(ctx, "", 0)
	require.NoError(t, err)

	clk.Advance(3 * time.Minute)
	v, err := c.Disable(ctx)

	require.NoError(t, err)
	assert.Equal(t, domain.SessionInactive, v.State)
	assert.False(t, store.current().FocusMode)
	assert.Nil(t, store.current().EndAt)
	require.Len(t, log.ended, 1)
}

func TestSession_SetGoal(t *testing.T) {
	c, store, _, _ := newTestSession(domain.FocusState{Goal: "old"})
	ctx := context.Background()

	_, err := c.SetGoal(ctx, "")
	assert.ErrorIs(t, err, domain.ErrEmptyGoal)

	v, err := c.SetGoal(ctx, " new goal ")
	require.NoError(t, err)
	assert.Equal(t, "new goal", v.Goal)
	assert.Equal(t, "new goal", store.current().Goal)
}

func TestSession_Subscribe(t *testing.T) {
	c, _, _, _ := newTestSession(domain.FocusState{Goal: "g", FocusMode: true})
	ctx := context.Background()

	var got []domain.SessionState
	unsubscribe := c.Subscribe(func(v domain.SessionView) {
		got = append(got, v.State)
	})

	c.Sync(ctx, nil)
	c.Tick(ctx)
	unsubscribe()
	c.Tick(ctx)

	assert.Equal(t, []domain.SessionState{domain.SessionActive, domain.SessionActive}, got)
}

func TestSession_RunFollowsStoreChanges(t *testing.T) {
	c, store, _, _ := newTestSession(domain.FocusState{Goal: "g"})
	ctx, cancel := context.WithCancel(context.Background())

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		assert.NoError(t, c.Run(ctx))
	}()

	store.external(domain.StatePatch{FocusMode: boolPtr(true), Goal: strPtr("focus")})

	require.Eventually(t, func() bool {
		return c.Snapshot().State == domain.SessionActive
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, "focus", c.Snapshot().Goal)

	cancel()
	wg.Wait()
}

func TestSessionID_Stable(t *testing.T) {
	end := sessionEpoch.Add(30 * time.Minute)

	assert.Equal(t, SessionID(end), SessionID(end.In(time.FixedZone("X", 3600))))
	assert.NotEqual(t, SessionID(end), SessionID(end.Add(time.Millisecond)))
}
