// Package tui provides an interactive terminal user interface for focuscoach.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session drives the focus session.
	Session driving.SessionService

	// Analyzer judges pages against the goal.
	Analyzer driving.Analyzer

	// Scanner rescans the video listing. Optional.
	Scanner driving.Scanner

	// History reads recent evaluations. Optional.
	History driving.HistoryService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(session driving.SessionService, analyzer driving.Analyzer) *Ports {
	return &Ports{
		Session:  session,
		Analyzer: analyzer,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Session == nil {
		return ErrMissingSessionService
	}
	if p.Analyzer == nil {
		return ErrMissingAnalyzer
	}
	return nil
}
