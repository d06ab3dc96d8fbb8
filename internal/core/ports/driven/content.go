package driven

import (
	"context"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// PageSource extracts the main text of a page.
type PageSource interface {
	// PageText returns the main content of the page at location,
	// stripped of scripts, styles and navigation, capped at
	// domain.MaxPageTextLen characters.
	PageText(ctx context.Context, location string) (domain.PageText, error)
}

// ItemSource lists the items currently present in a scanned listing.
type ItemSource interface {
	// Items returns every item in the listing, in display order.
	Items(ctx context.Context) ([]domain.Item, error)
}

// ItemSurface applies the visual effect of a score to listing items.
// Operations on items that no longer exist are silent no-ops.
type ItemSurface interface {
	// Blur hides an item behind a reveal overlay showing the score.
	Blur(ctx context.Context, id string, score int) error

	// Clear removes blur and overlay from an item.
	Clear(ctx context.Context, id string) error

	// ClearAll removes every blur and overlay.
	ClearAll(ctx context.Context) error
}

// EvaluationStore persists scored content for history.
type EvaluationStore interface {
	// Record stores one evaluation.
	Record(ctx context.Context, eval domain.Evaluation) error

	// Recent returns the most recent evaluations, newest first.
	Recent(ctx context.Context, limit int) ([]domain.Evaluation, error)
}

// Watcher reports changes to a file.
type Watcher interface {
	// Watch calls onChange after each write to path until ctx is done.
	Watch(ctx context.Context, path string, onChange func()) error
}
