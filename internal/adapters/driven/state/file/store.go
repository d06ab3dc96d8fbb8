// Package file stores the shared focus state in a TOML file.
//
// The file is the rendezvous point between processes: the CLI, the TUI,
// the bridge and anything else that edits ~/.focuscoach/state.toml see
// each other's changes through fsnotify.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// Ensure StateStore implements the interface.
var _ driven.SessionStore = (*StateStore)(nil)

// stateFile is the on-disk layout. Key names match the browser popup's
// storage keys; the end time is epoch milliseconds.
type stateFile struct {
	UserGoal      string `toml:"userGoal"`
	FocusMode     bool   `toml:"focusMode"`
	FocusEndAt    *int64 `toml:"focusEndAt,omitempty"`
	FocusDuration int    `toml:"focusDuration,omitempty"`
}

// StateStore is a file-backed driven.SessionStore.
type StateStore struct {
	mu      sync.Mutex
	path    string
	watcher driven.Watcher
	pokes   map[chan struct{}]struct{}
}

// NewStateStore creates a store for state.toml in dir.
// If dir is empty, defaults to ~/.focuscoach. The watcher may be nil,
// in which case only changes made through this store are observed.
func NewStateStore(dir string, watcher driven.Watcher) (*StateStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(home, ".focuscoach")
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}

	return &StateStore{
		path:    filepath.Join(dir, "state.toml"),
		watcher: watcher,
		pokes:   make(map[chan struct{}]struct{}),
	}, nil
}

// Path returns the state file path.
func (s *StateStore) Path() string {
	return s.path
}

// Get reads the focus state. A missing file is the zero state.
func (s *StateStore) Get(_ context.Context) (domain.FocusState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *StateStore) read() (domain.FocusState, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.FocusState{}, nil
	}
	if err != nil {
		return domain.FocusState{}, fmt.Errorf("read state: %w", err)
	}

	var f stateFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return domain.FocusState{}, fmt.Errorf("parse state %s: %w", s.path, err)
	}
	return fromFile(f), nil
}

// Set applies a patch and writes the file, then wakes in-process watchers.
func (s *StateStore) Set(_ context.Context, patch domain.StatePatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if err := s.write(patch.Apply(current)); err != nil {
		return err
	}

	for poke := range s.pokes {
		select {
		case poke <- struct{}{}:
		default:
		}
	}
	return nil
}

// write replaces the file atomically so readers never see a partial state.
func (s *StateStore) write(state domain.FocusState) error {
	data, err := toml.Marshal(toFile(state))
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.toml")
	if err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// Watch reports the keys that differ between successive reads of the file.
// Writes from this store and from other processes are both seen; a write
// that changes nothing produces no notification.
func (s *StateStore) Watch(ctx context.Context) (<-chan domain.StateChange, error) {
	last, err := s.Get(ctx)
	if err != nil {
		logger.Warn("state: initial read: %v", err)
	}

	poke := make(chan struct{}, 1)
	s.mu.Lock()
	s.pokes[poke] = struct{}{}
	s.mu.Unlock()

	if s.watcher != nil {
		go func() {
			err := s.watcher.Watch(ctx, s.path, func() {
				select {
				case poke <- struct{}{}:
				default:
				}
			})
			if err != nil {
				logger.Warn("state: watch %s: %v", s.path, err)
			}
		}()
	}

	out := make(chan domain.StateChange, 16)
	go func() {
		defer func() {
			s.mu.Lock()
			delete(s.pokes, poke)
			s.mu.Unlock()
			close(out)
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case <-poke:
			}

			current, err := s.Get(ctx)
			if err != nil {
				logger.Warn("state: %v", err)
				continue
			}
			keys := DiffKeys(last, current)
			if len(keys) == 0 {
				continue
			}
			last = current

			select {
			case out <- domain.StateChange{Keys: keys}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, nil
}

// DiffKeys returns the state keys whose values differ between a and b.
func DiffKeys(a, b domain.FocusState) []string {
	var keys []string
	if a.Goal != b.Goal {
		keys = append(keys, domain.KeyUserGoal)
	}
	if a.FocusMode != b.FocusMode {
		keys = append(keys, domain.KeyFocusMode)
	}
	if !sameEnd(a.EndAt, b.EndAt) {
		keys = append(keys, domain.KeyFocusEndAt)
	}
	if a.DurationMinutes != b.DurationMinutes {
		keys = append(keys, domain.KeyFocusDuration)
	}
	return keys
}

func sameEnd(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func fromFile(f stateFile) domain.FocusState {
	st := domain.FocusState{
		Goal:            f.UserGoal,
		FocusMode:       f.FocusMode,
		DurationMinutes: f.FocusDuration,
	}
	if f.FocusEndAt != nil {
		end := time.UnixMilli(*f.FocusEndAt)
		st.EndAt = &end
	}
	return st
}

func toFile(st domain.FocusState) stateFile {
	f := stateFile{
		UserGoal:      st.Goal,
		FocusMode:     st.FocusMode,
		FocusDuration: st.DurationMinutes,
	}
	if st.EndAt != nil {
		ms := st.EndAt.UnixMilli()
		f.FocusEndAt = &ms
	}
	return f
}
