package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyGoal indicates an operation needs a goal but none is set.
	ErrEmptyGoal = errors.New("no goal set")

	// ErrModelUnavailable indicates the text-completion service is not configured
	// or did not answer the readiness probe.
	// Page analysis degrades to the keyword heuristic; video scanning is skipped.
	ErrModelUnavailable = errors.New("language model unavailable")

	// ErrAnalysisInProgress indicates an analysis request arrived while another
	// one is still outstanding. At most one analysis runs at a time.
	ErrAnalysisInProgress = errors.New("analysis in progress")

	// ErrScanDisabled indicates a scan was requested while scanning is disabled.
	ErrScanDisabled = errors.New("scanning disabled")

	// ErrUnsupportedMessage indicates a bridge message with an unknown type.
	ErrUnsupportedMessage = errors.New("unsupported message type")
)
