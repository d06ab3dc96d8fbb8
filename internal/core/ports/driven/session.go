package driven

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// SessionStore is the shared key-value store holding the focus state.
// It is externally owned: other processes (the popup, another CLI call)
// write to it, and the session controller reacts to their changes.
type SessionStore interface {
	// Get reads the full focus state.
	Get(ctx context.Context) (domain.FocusState, error)

	// Set applies a partial update and notifies watchers.
	Set(ctx context.Context, patch domain.StatePatch) error

	// Watch delivers a notification for every change until ctx is done.
	// The channel is closed when watching stops.
	Watch(ctx context.Context) (<-chan domain.StateChange, error)
}

// SessionLog records focus sessions for history.
type SessionLog interface {
	// Started records a new session.
	Started(ctx context.Context, rec domain.SessionRecord) error

	// Ended marks the session with the given ID as ended.
	Ended(ctx context.Context, id string, rec domain.SessionRecord) error

	// Recent returns the most recent sessions, newest first.
	Recent(ctx context.Context, limit int) ([]domain.SessionRecord, error)
}
