package driving

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// SessionService drives the focus session lifecycle.
type SessionService interface {
	// Sync re-reads the full focus state and recomputes the session.
	// changedKeys lists the state keys that triggered the sync; nil means
	// an unconditional refresh.
	Sync(ctx context.Context, changedKeys []string) domain.SessionView

	// Tick recomputes the remaining time and expires the session when due.
	Tick(ctx context.Context) domain.SessionView

	// Run syncs, follows store changes and ticks every second until ctx is done.
	Run(ctx context.Context) error

	// Enable turns focus mode on. An empty goal keeps the stored goal.
	// minutes <= 0 keeps the stored duration.
	Enable(ctx context.Context, goal string, minutes int) (domain.SessionView, error)

	// Disable turns focus mode off and clears the end time.
	Disable(ctx context.Context) (domain.SessionView, error)

	// SetGoal stores a new goal.
	SetGoal(ctx context.Context, goal string) (domain.SessionView, error)

	// Snapshot returns the current view without touching the store.
	Snapshot() domain.SessionView

	// Subscribe registers fn to receive every new view.
	// The returned function removes the subscription.
	Subscribe(fn func(domain.SessionView)) (unsubscribe func())
}
