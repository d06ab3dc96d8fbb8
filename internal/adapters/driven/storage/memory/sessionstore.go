package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// watchBuffer is the per-watcher channel capacity.
const watchBuffer = 16

// SessionStore is an in-memory focus state shared within one process.
type SessionStore struct {
	mu       sync.Mutex
	state    domain.FocusState
	watchers map[chan domain.StateChange]struct{}
}

// NewSessionStore creates a session store holding initial.
func NewSessionStore(initial domain.FocusState) *SessionStore {
	return &SessionStore{
		state:    initial,
		watchers: make(map[chan domain.StateChange]struct{}),
	}
}

// Get reads the full focus state.
func (s *SessionStore) Get(_ context.Context) (domain.FocusState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state), nil
}

// Set applies a patch and notifies every watcher. A watcher whose buffer is
// full misses the notification; receivers re-read the full state anyway.
func (s *SessionStore) Set(_ context.Context, patch domain.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = patch.Apply(s.state)
	change := domain.StateChange{Keys: patch.Keys()}
	for ch := range s.watchers {
		select {
		case ch <- change:
		default:
		}
	}
	return nil
}

// Watch delivers changes until ctx is done, then closes the channel.
func (s *SessionStore) Watch(ctx context.Context) (<-chan domain.StateChange, error) {
	ch := make(chan domain.StateChange, watchBuffer)

	s.mu.Lock()
	s.watchers[ch] = struct{}{}
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		s.mu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.mu.Unlock()
	}()

	return ch, nil
}

func copyState(st domain.FocusState) domain.FocusState {
	if st.EndAt != nil {
		end := *st.EndAt
		st.EndAt = &end
	}
	return st
}
