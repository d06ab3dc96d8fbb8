// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewDashboard shows the focus banner and session controls.
	ViewDashboard ViewType = iota
	// ViewAnalyze asks for a page and shows its verdict.
	ViewAnalyze
	// ViewHistory lists recent evaluations.
	ViewHistory
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewDashboard:
		return "dashboard"
	case ViewAnalyze:
		return "analyze"
	case ViewHistory:
		return "history"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// SessionUpdated carries a new session view from the controller.
type SessionUpdated struct {
	View domain.SessionView
}

// SessionChanged answers a session command issued from the TUI.
type SessionChanged struct {
	View domain.SessionView
	Err  error
}

// AnalysisRequested asks the analyzer to judge a page.
type AnalysisRequested struct {
	URL string
}

// AnalysisCompleted carries the analyzer's reply.
type AnalysisCompleted struct {
	Reply domain.Message
}

// ScanCompleted carries the outcome of a listing scan.
type ScanCompleted struct {
	Report domain.ScanReport
	Err    error
}

// HistoryLoaded carries recent evaluations.
type HistoryLoaded struct {
	Evaluations []domain.Evaluation
	Err         error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
