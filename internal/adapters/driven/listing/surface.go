package listing

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure Surface implements the interface.
var _ driven.ItemSurface = (*Surface)(nil)

// Overlay is the reveal control shown over a blurred card.
type Overlay struct {
	Score int
}

// Label is the text of the reveal button.
func (o Overlay) Label() string {
	return fmt.Sprintf("Show (%d%%)", o.Score)
}

// Surface records which cards are blurred. Only one overlay exists per
// card; blurring a card twice keeps the first overlay.
type Surface struct {
	mu       sync.RWMutex
	overlays map[string]Overlay
	onChange func()
}

// NewSurface creates an empty surface.
func NewSurface() *Surface {
	return &Surface{overlays: make(map[string]Overlay)}
}

// OnChange registers fn to run after every change. fn must not call back
// into the surface.
func (s *Surface) OnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Blur hides a card behind an overlay showing score.
func (s *Surface) Blur(_ context.Context, id string, score int) error {
	s.mu.Lock()
	_, exists := s.overlays[id]
	if !exists {
		s.overlays[id] = Overlay{Score: score}
	}
	fn := s.onChange
	s.mu.Unlock()

	if !exists && fn != nil {
		fn()
	}
	return nil
}

// Clear removes the blur and overlay from a card.
func (s *Surface) Clear(_ context.Context, id string) error {
	s.mu.Lock()
	_, exists := s.overlays[id]
	delete(s.overlays, id)
	fn := s.onChange
	s.mu.Unlock()

	if exists && fn != nil {
		fn()
	}
	return nil
}

// ClearAll removes every blur and overlay.
func (s *Surface) ClearAll(_ context.Context) error {
	s.mu.Lock()
	changed := len(s.overlays) > 0
	s.overlays = make(map[string]Overlay)
	fn := s.onChange
	s.mu.Unlock()

	if changed && fn != nil {
		fn()
	}
	return nil
}

// Overlay returns the overlay on a card, if it is blurred.
func (s *Surface) Overlay(id string) (Overlay, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overlays[id]
	return o, ok
}

// Blurred returns the IDs of all blurred cards, sorted.
func (s *Surface) Blurred() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.overlays))
	for id := range s.overlays {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	sort.Strings(ids)
	return ids
}

// Render writes one line per item: blurred cards show their reveal label
// instead of the title.
func (s *Surface) Render(w io.Writer, items []domain.Item) error {
	for _, item := range items {
		line := fmt.Sprintf("  %-14s %s", item.ID, item.Sample.Title)
		if o, ok := s.Overlay(item.ID); ok {
			line = fmt.Sprintf("  %-14s ░░░░ %s", item.ID, o.Label())
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
