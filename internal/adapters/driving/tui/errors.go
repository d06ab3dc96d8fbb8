package tui

import "errors"

// ErrMissingSessionService is returned when the session service is not provided.
var ErrMissingSessionService = errors.New("tui: session service is required")

// ErrMissingAnalyzer is returned when the analyzer is not provided.
var ErrMissingAnalyzer = errors.New("tui: analyzer is required")
