// Package cli provides the focuscoach command line interface.
// It is a driving adapter: commands call core services through driving ports.
package cli

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driving"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

// Services wired by main. Commands report an error when the service they
// need is nil.
var (
	sessionService  driving.SessionService
	analyzerService driving.Analyzer
	videoScorer     driving.VideoScorer
	scannerService  driving.Scanner
	historyService  driving.HistoryService
	settingsService driving.SettingsService

	scanFollower func(ctx context.Context) func(domain.SessionView)
	listing      Listing
	overlays     Overlays
	fileWatcher  driven.Watcher
)

// Listing is the snapshot of the video listing being scanned.
type Listing interface {
	Path() string
	Items(ctx context.Context) ([]domain.Item, error)
}

// Overlays renders items with their blur overlays.
type Overlays interface {
	Render(w io.Writer, items []domain.Item) error

	// OnChange registers fn to run whenever an overlay is added or removed.
	OnChange(fn func())
}

// Services holds everything the commands need.
type Services struct {
	Session  driving.SessionService
	Analyzer driving.Analyzer
	Videos   driving.VideoScorer
	Scanner  driving.Scanner
	History  driving.HistoryService
	Settings driving.SettingsService

	// Follow returns a session subscriber that drives the scanner.
	Follow func(ctx context.Context) func(domain.SessionView)

	Listing  Listing
	Overlays Overlays
	Watcher  driven.Watcher
}

// SetServices installs the services used by every command.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	sessionService = s.Session
	analyzerService = s.Analyzer
	videoScorer = s.Videos
	scannerService = s.Scanner
	historyService = s.History
	settingsService = s.Settings
	scanFollower = s.Follow
	listing = s.Listing
	overlays = s.Overlays
	fileWatcher = s.Watcher
}

var rootCmd = &cobra.Command{
	Use:   "focuscoach",
	Short: "Stay on task by scoring what you read against your goal",
	Long: `FocusCoach keeps a focus session around a goal you declare.

While a session runs, pages and video listings are scored for relevance
to the goal. Irrelevant videos are blurred until you choose to reveal them.

Start with:
  focuscoach goal "learn Go concurrency"
  focuscoach focus start --minutes 45
  focuscoach run`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostic output")
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
