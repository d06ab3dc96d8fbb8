package driving

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Scanner scores listing items against the goal and blurs irrelevant ones.
type Scanner interface {
	// Enable starts scanning for goal and schedules a pass.
	Enable(ctx context.Context, goal string)

	// Disable stops scanning, removes all blur and forgets all scores.
	Disable(ctx context.Context)

	// Notify signals that the listing changed. Bursts are coalesced.
	Notify()

	// Wait blocks until passes triggered by Enable or Notify have finished.
	Wait()

	// Scan runs one pass synchronously.
	Scan(ctx context.Context) (domain.ScanReport, error)

	// Reveal removes the blur from one item at the user's request.
	Reveal(ctx context.Context, id string) error

	// Scores returns a copy of the per-item cache.
	Scores() map[string]domain.ItemScore
}
