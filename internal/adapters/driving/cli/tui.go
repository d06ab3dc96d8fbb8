package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/adapters/driving/tui"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

var (
	runHeadless bool
	runNoBridge bool
	runPort     int
)

// runCmd starts the session, the scanner and the bridge, and shows the TUI.
var runCmd = &cobra.Command{
	Use:     "run",
	Aliases: []string{"tui"},
	Short:   "Run FocusCoach with the interactive terminal UI",
	Long: `Run the focus session in the foreground.

While running, the session follows the shared state file and counts down,
the listing snapshot is rescanned whenever it changes, and the analysis
bridge serves the browser extension.

Controls:
  f     - Focus on / off
  g     - Edit goal
  a     - Analyze a page
  s     - Scan the listing now
  h     - History
  ?     - Help
  q     - Quit

Use --headless to run the background services without the UI.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().BoolVar(&runHeadless, "headless", false, "run without the terminal UI")
	runCmd.Flags().BoolVar(&runNoBridge, "no-bridge", false, "do not serve the HTTP bridge")
	runCmd.Flags().IntVarP(&runPort, "port", "p", 0, "bridge port (0 = first free from 7421)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if sessionService == nil {
		return errNoSession
	}
	if analyzerService == nil {
		return errors.New("analyzer not configured")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	startBackground(ctx)

	if !runNoBridge {
		server, err := startBridge(runPort)
		if err != nil {
			logger.Warn("bridge: %v", err)
		} else {
			defer server.Stop() //nolint:errcheck // shutdown on exit
			logger.Info("Bridge listening on %s", server.URL())
		}
	}

	if runHeadless {
		cmd.Println("FocusCoach running (ctrl+c to stop)")
		<-ctx.Done()
		return nil
	}

	app, err := tui.NewApp(&tui.Ports{
		Session:  sessionService,
		Analyzer: analyzerService,
		Scanner:  scannerService,
		History:  historyService,
	})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(ctx)

	if err := app.Run(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// startBackground runs the session controller, ties the scanner to the
// session and follows the listing snapshot until ctx is done.
func startBackground(ctx context.Context) {
	if scannerService != nil && scanFollower != nil {
		unsubscribe := sessionService.Subscribe(scanFollower(ctx))
		go func() {
			<-ctx.Done()
			unsubscribe()
		}()
	}

	go func() {
		if err := sessionService.Run(ctx); err != nil {
			logger.Warn("session: %v", err)
		}
	}()

	if scannerService != nil && listing != nil && fileWatcher != nil {
		go func() {
			if err := fileWatcher.Watch(ctx, listing.Path(), scannerService.Notify); err != nil {
				logger.Warn("watch %s: %v", listing.Path(), err)
			}
		}()
	}
}
