// Package domain defines the core business entities for FocusCoach.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ContentSample: Text and structured fields extracted from a page or video card
//   - ScoreResult: The relevance verdict for one piece of content
//   - FocusState / Session: The persisted focus session and its lifecycle
//   - Item: One entry of a scanned listing (a video card)
//   - Message: The typed request/response envelope of the analysis bridge
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
