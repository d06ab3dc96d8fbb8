// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - EvaluatorService: heuristic + model relevance scoring
//   - SessionController: focus session lifecycle and countdown
//   - RescanCoordinator: coalesced listing scans with blur
//   - AnalyzerService: the ANALYZE / GET_PAGE_TEXT message channel
//   - SettingsService, HistoryService: configuration and history
//
// Services are pure Go with no CGO or external dependencies.
package services
