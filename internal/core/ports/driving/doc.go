// Package driving holds the interfaces the CLI, TUI, bridge and MCP server
// call into: session control, analysis, scanning, history and settings.
// internal/core/services implements them.
package driving
