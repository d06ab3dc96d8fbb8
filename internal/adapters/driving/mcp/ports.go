package mcp

import (
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Analyzer answers page analysis requests.
	Analyzer driving.Analyzer

	// Videos scores single video cards. Optional; without it the
	// score_video tool is not registered.
	Videos driving.VideoScorer

	// Session exposes the focus session.
	Session driving.SessionService

	// History reads past evaluations. Optional.
	History driving.HistoryService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	if p.Session == nil {
		return ErrMissingSession
	}
	return nil
}
