// Package watch reports file changes using fsnotify.
//
// The parent directory is watched rather than the file itself, so
// editors and writers that replace the file by rename keep being seen.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// Ensure FileWatcher implements the interface.
var _ driven.Watcher = (*FileWatcher)(nil)

// DefaultSettle is how long a burst of events is merged into one callback.
const DefaultSettle = 50 * time.Millisecond

// FileWatcher watches single files for changes.
type FileWatcher struct {
	settle time.Duration
}

// New creates a file watcher that merges events arriving within settle.
// A non-positive settle uses DefaultSettle.
func New(settle time.Duration) *FileWatcher {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &FileWatcher{settle: settle}
}

// Watch calls onChange after the file at path is created, written or
// replaced, until ctx is done. It blocks; run it in a goroutine.
// The directory holding path must exist.
func (w *FileWatcher) Watch(ctx context.Context, path string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	path = filepath.Clean(path)
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event, path) {
				continue
			}
			logger.Debug("watch: %s %s", event.Op, event.Name)
			if timer == nil {
				timer = time.AfterFunc(w.settle, func() {
					select {
					case fire <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(w.settle)
			}

		case <-fire:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch %s: %v", path, err)
		}
	}
}

// relevant reports whether an event changes the content at path.
// Chmod is ignored; Remove and Rename count because a replacing writer
// removes the old name before the new file appears.
func relevant(event fsnotify.Event, path string) bool {
	if filepath.Clean(event.Name) != path {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}
