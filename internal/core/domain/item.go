package domain

// Item is one entry of a scanned listing, such as a video card.
type Item struct {
	// ID identifies the item for as long as it stays in the listing.
	ID string

	// Sample holds the metadata extracted from the item.
	Sample ContentSample
}

// ItemScore is the cached scoring state of an item.
type ItemScore struct {
	// Scored is true once the item has been handled in this enable cycle.
	Scored bool

	// Score is the relevance score. -1 when the item had no title.
	Score int

	// Blurred is true while the item is hidden behind a reveal overlay.
	Blurred bool

	// Revealed is true once the user dismissed the overlay.
	Revealed bool
}

// ScanReport summarises one scan pass.
type ScanReport struct {
	// Seen is the number of items in the listing.
	Seen int

	// Evaluated is the number of items scored in this pass.
	Evaluated int

	// Untitled is the number of items marked without scoring.
	Untitled int

	// Blurred is the number of items blurred in this pass.
	Blurred int

	// Deferred is the number of items left for a later pass by the budget.
	Deferred int

	// Skipped is set when the pass did nothing, with the reason.
	Skipped string
}
