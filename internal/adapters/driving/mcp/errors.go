// Package mcp provides an MCP (Model Context Protocol) server adapter for
// FocusCoach. It lets AI assistants ask whether a page or video helps the
// current focus goal.
package mcp

import "errors"

// ErrMissingAnalyzer is returned when the analyzer is not provided.
var ErrMissingAnalyzer = errors.New("mcp: analyzer is required")

// ErrMissingSession is returned when the session service is not provided.
var ErrMissingSession = errors.New("mcp: session service is required")
