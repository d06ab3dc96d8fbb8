// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - SessionStore: Shared focus state (goal, mode, end time, duration)
//   - ConfigStore: Application configuration
//   - PromptStore: Prompt templates
//   - PageSource: Page text extraction
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Text completion. Without it pages are scored by the keyword
//     heuristic alone and video scanning is skipped.
//   - ItemSource / ItemSurface: A listing to scan and the place blur is applied.
//   - EvaluationStore / SessionLog: History persistence.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or service package
package driven
