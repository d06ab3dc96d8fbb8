package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/focuscoach/internal/clock"
	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// Ensure SessionController implements the interface.
var _ driving.SessionService = (*SessionController)(nil)

// TickInterval is the countdown resolution.
const TickInterval = time.Second

// sessionNamespace derives stable session IDs from end times, so every
// process observing the same session records it under the same ID.
var sessionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("focuscoach:session"))

// SessionController owns the focus session lifecycle:
// Inactive -> Active -> Expired -> Inactive.
//
// The shared store is the source of truth. Every change notification
// re-reads the full state. When the store cannot be read or written the
// last known in-memory state stays authoritative.
type SessionController struct {
	store          driven.SessionStore
	log            driven.SessionLog
	clock          clock.Clock
	defaultMinutes int

	mu    sync.Mutex
	state domain.FocusState
	// ended is set when this controller expired the session; it suppresses
	// repeated expiry and backfill until an explicit new enable.
	ended bool
	view  domain.SessionView

	subMu  sync.Mutex
	subs   map[int]func(domain.SessionView)
	nextID int
}

// NewSessionController creates a new session controller.
// The log parameter is optional (can be nil).
func NewSessionController(
	store driven.SessionStore,
	log driven.SessionLog,
	clk clock.Clock,
	defaultMinutes int,
) *SessionController {
	if clk == nil {
		clk = clock.System{}
	}
	if defaultMinutes <= 0 {
		defaultMinutes = domain.DefaultFocusMinutes
	}
	return &SessionController{
		store:          store,
		log:            log,
		clock:          clk,
		defaultMinutes: defaultMinutes,
		view:           domain.SessionView{State: domain.SessionInactive},
		subs:           make(map[int]func(domain.SessionView)),
	}
}

// Sync re-reads the full state and recomputes the session.
func (c *SessionController) Sync(ctx context.Context, changedKeys []string) domain.SessionView {
	st, err := c.store.Get(ctx)

	c.mu.Lock()
	if err != nil {
		logger.Warn("Session: read state: %v", err)
		st = c.state
	}
	now := c.clock.Now()
	change := domain.StateChange{Keys: changedKeys}

	if c.isExplicitEnable(change, st, now) {
		c.ended = false
	}
	c.state = st

	if st.FocusMode && !st.HasValidEnd(now) && !c.ended {
		c.backfill(ctx, now)
	}

	view := c.update(ctx, now)
	c.mu.Unlock()

	c.publish(view)
	return view
}

// isExplicitEnable reports whether a change re-arms a session this
// controller already expired. Must be called with mu held.
func (c *SessionController) isExplicitEnable(change domain.StateChange, st domain.FocusState, now time.Time) bool {
	if !c.ended {
		return false
	}
	if change.Has(domain.KeyFocusMode) && st.FocusMode {
		return true
	}
	if change.Has(domain.KeyFocusEndAt) && st.HasValidEnd(now) {
		return c.state.EndAt == nil || !st.EndAt.Equal(*c.state.EndAt)
	}
	return false
}

// backfill assigns endAt = now + duration and persists it.
// Must be called with mu held.
func (c *SessionController) backfill(ctx context.Context, now time.Time) {
	end := now.Add(time.Duration(c.minutes()) * time.Minute).Truncate(time.Millisecond)
	c.state.EndAt = &end

	logger.Debug("Session: focus on without end, backfilling end %s", end.Format(time.RFC3339))
	if err := c.store.Set(ctx, domain.StatePatch{EndAt: &end}); err != nil {
		logger.Warn("Session: persist end time: %v", err)
	}
}

// Tick recomputes the remaining time and expires the session when due.
func (c *SessionController) Tick(ctx context.Context) domain.SessionView {
	c.mu.Lock()
	now := c.clock.Now()
	if c.state.FocusMode && !c.ended && c.state.EndAt != nil && !c.state.EndAt.After(now) {
		c.expire(ctx)
	}
	view := c.update(ctx, now)
	c.mu.Unlock()

	c.publish(view)
	return view
}

// expire clears focus mode and end time in the store, once per session.
// Must be called with mu held.
func (c *SessionController) expire(ctx context.Context) {
	c.ended = true
	logger.Info("Session: focus session for %q ended", c.state.Goal)

	off := false
	if err := c.store.Set(ctx, domain.StatePatch{FocusMode: &off, ClearEndAt: true}); err != nil {
		logger.Warn("Session: clear expired session: %v", err)
	}
}

// update recomputes the view and records session transitions.
// Must be called with mu held.
func (c *SessionController) update(ctx context.Context, now time.Time) domain.SessionView {
	prev := c.view
	next := c.compute(now)

	startedNew := next.State == domain.SessionActive &&
		(prev.State != domain.SessionActive || !sameTime(prev.EndAt, next.EndAt))
	stopped := prev.State == domain.SessionActive &&
		(next.State != domain.SessionActive || !sameTime(prev.EndAt, next.EndAt))

	if stopped && prev.EndAt != nil {
		c.recordEnd(ctx, prev, now)
	}
	if startedNew && next.EndAt != nil {
		c.recordStart(ctx, next)
	}

	c.view = next
	return next
}

func (c *SessionController) compute(now time.Time) domain.SessionView {
	v := domain.SessionView{
		State:     domain.SessionInactive,
		Goal:      c.state.Goal,
		FocusMode: c.state.FocusMode,
	}
	switch {
	case !c.state.FocusMode:
	case c.ended:
		v.State = domain.SessionExpired
	default:
		v.State = domain.SessionActive
		if c.state.EndAt != nil {
			end := *c.state.EndAt
			v.EndAt = &end
			v.Remaining = end.Sub(now)
			if v.Remaining < 0 {
				v.Remaining = 0
			}
		}
	}
	return v
}

func (c *SessionController) recordStart(ctx context.Context, v domain.SessionView) {
	if c.log == nil {
		return
	}
	mins := c.minutes()
	rec := domain.SessionRecord{
		ID:              SessionID(*v.EndAt),
		Goal:            v.Goal,
		StartedAt:       v.EndAt.Add(-time.Duration(mins) * time.Minute),
		EndsAt:          *v.EndAt,
		DurationMinutes: mins,
	}
	if err := c.log.Started(ctx, rec); err != nil {
		logger.Warn("Session: record start: %v", err)
	}
}

func (c *SessionController) recordEnd(ctx context.Context, v domain.SessionView, now time.Time) {
	if c.log == nil {
		return
	}
	ended := now
	if v.EndAt.Before(now) {
		ended = *v.EndAt
	}
	rec := domain.SessionRecord{
		ID:      SessionID(*v.EndAt),
		Goal:    v.Goal,
		EndsAt:  *v.EndAt,
		EndedAt: &ended,
	}
	if err := c.log.Ended(ctx, rec.ID, rec); err != nil {
		logger.Warn("Session: record end: %v", err)
	}
}

// minutes returns the stored session length or the configured default.
func (c *SessionController) minutes() int {
	if c.state.DurationMinutes > 0 {
		return c.state.DurationMinutes
	}
	return c.defaultMinutes
}

// SessionID returns the stable ID of the session ending at end.
func SessionID(end time.Time) string {
	ms := strconv.FormatInt(end.UnixMilli(), 10)
	return uuid.NewSHA1(sessionNamespace, []byte(ms)).String()
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Run syncs, follows store changes and ticks while a session is active.
// It returns when ctx is done.
func (c *SessionController) Run(ctx context.Context) error {
	changes, err := c.store.Watch(ctx)
	if err != nil {
		logger.Warn("Session: watch state: %v", err)
		changes = nil
	}

	var (
		ticker *time.Ticker
		tick   <-chan time.Time
	)
	follow := func(v domain.SessionView) {
		active := v.State == domain.SessionActive
		switch {
		case active && ticker == nil:
			ticker = time.NewTicker(TickInterval)
			tick = ticker.C
		case !active && ticker != nil:
			ticker.Stop()
			ticker, tick = nil, nil
		}
	}
	defer func() {
		if ticker != nil {
			ticker.Stop()
		}
	}()

	follow(c.Sync(ctx, nil))
	for {
		select {
		case <-ctx.Done():
			return nil
		case ch, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			follow(c.Sync(ctx, ch.Keys))
		case <-tick:
			follow(c.Tick(ctx))
		}
	}
}

// Enable turns focus mode on.
func (c *SessionController) Enable(ctx context.Context, goal string, minutes int) (domain.SessionView, error) {
	if minutes < 0 {
		return c.Snapshot(), fmt.Errorf("%w: duration %d minutes", domain.ErrInvalidInput, minutes)
	}

	goal = strings.TrimSpace(goal)
	c.mu.Lock()
	if goal == "" && strings.TrimSpace(c.state.Goal) == "" {
		c.mu.Unlock()
		return c.Snapshot(), domain.ErrEmptyGoal
	}
	c.mu.Unlock()

	on := true
	patch := domain.StatePatch{FocusMode: &on}
	if goal != "" {
		patch.Goal = &goal
	}
	if minutes > 0 {
		patch.DurationMinutes = &minutes
	}
	return c.apply(ctx, patch), nil
}

// Disable turns focus mode off and clears the end time.
func (c *SessionController) Disable(ctx context.Context) (domain.SessionView, error) {
	off := false
	return c.apply(ctx, domain.StatePatch{FocusMode: &off, ClearEndAt: true}), nil
}

// SetGoal stores a new goal.
func (c *SessionController) SetGoal(ctx context.Context, goal string) (domain.SessionView, error) {
	goal = strings.TrimSpace(goal)
	if goal == "" {
		return c.Snapshot(), domain.ErrEmptyGoal
	}
	return c.apply(ctx, domain.StatePatch{Goal: &goal}), nil
}

// apply writes a patch produced by this process and syncs on it.
func (c *SessionController) apply(ctx context.Context, patch domain.StatePatch) domain.SessionView {
	if err := c.store.Set(ctx, patch); err != nil {
		logger.Warn("Session: write state: %v", err)
		c.mu.Lock()
		c.state = patch.Apply(c.state)
		c.mu.Unlock()
	}
	return c.Sync(ctx, patch.Keys())
}

// Snapshot returns the current view.
func (c *SessionController) Snapshot() domain.SessionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	if v.State == domain.SessionActive && v.EndAt != nil {
		v.Remaining = v.EndAt.Sub(c.clock.Now())
		if v.Remaining < 0 {
			v.Remaining = 0
		}
	}
	return v
}

// Subscribe registers fn to receive every new view.
func (c *SessionController) Subscribe(fn func(domain.SessionView)) func() {
	c.subMu.Lock()
	defer c.subMu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = fn
	return func() {
		c.subMu.Lock()
		defer c.subMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *SessionController) publish(v domain.SessionView) {
	c.subMu.Lock()
	fns := make([]func(domain.SessionView), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
