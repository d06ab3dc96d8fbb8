package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

var errNoSession = errors.New("session service not configured")

var (
	focusMinutes int
	focusGoal    string
	focusJSON    bool
)

var goalCmd = &cobra.Command{
	Use:   "goal [text]",
	Short: "Show or set the focus goal",
	Long: `Show the current focus goal, or set it when text is given.

The goal is free text. Pages and videos are scored by how well they
serve it, so a few concrete words work best:
  focuscoach goal "learn Go concurrency patterns"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGoal,
}

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Start, stop or inspect the focus session",
}

var focusStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start a focus session",
	Long: `Turn focus mode on. The session ends after --minutes, or after the
configured default duration when the flag is omitted.`,
	RunE: runFocusStart,
}

var focusStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the focus session",
	RunE:  runFocusStop,
}

var focusStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the focus session",
	RunE:  runFocusStatus,
}

func init() {
	focusStartCmd.Flags().IntVarP(&focusMinutes, "minutes", "m", 0, "session length in minutes (0 = default)")
	focusStartCmd.Flags().StringVarP(&focusGoal, "goal", "g", "", "set the goal before starting")
	focusStatusCmd.Flags().BoolVar(&focusJSON, "json", false, "output as JSON")

	focusCmd.AddCommand(focusStartCmd)
	focusCmd.AddCommand(focusStopCmd)
	focusCmd.AddCommand(focusStatusCmd)
	rootCmd.AddCommand(goalCmd)
	rootCmd.AddCommand(focusCmd)
}

func runGoal(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errNoSession
	}
	ctx := cmd.Context()

	if len(args) == 0 {
		view := sessionService.Sync(ctx, nil)
		if view.Goal == "" {
			cmd.Println("No goal set.")
			return nil
		}
		cmd.Printf("Goal: %s\n", view.Goal)
		return nil
	}

	view, err := sessionService.SetGoal(ctx, strings.TrimSpace(args[0]))
	if err != nil {
		return fmt.Errorf("set goal: %w", err)
	}
	cmd.Printf("Goal set: %s\n", view.Goal)
	return nil
}

func runFocusStart(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNoSession
	}
	ctx := cmd.Context()
	sessionService.Sync(ctx, nil)

	view, err := sessionService.Enable(ctx, strings.TrimSpace(focusGoal), focusMinutes)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyGoal) {
			return fmt.Errorf("%w: run 'focuscoach goal <text>' or pass --goal", err)
		}
		return fmt.Errorf("start focus: %w", err)
	}

	cmd.Printf("Focus on: %s", view.Goal)
	if remaining := view.Display(); remaining != "" {
		cmd.Printf(" (%s left)", remaining)
	}
	cmd.Println()
	return nil
}

func runFocusStop(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNoSession
	}
	ctx := cmd.Context()
	sessionService.Sync(ctx, nil)

	if _, err := sessionService.Disable(ctx); err != nil {
		return fmt.Errorf("stop focus: %w", err)
	}
	cmd.Println("Focus off.")
	return nil
}

func runFocusStatus(cmd *cobra.Command, _ []string) error {
	if sessionService == nil {
		return errNoSession
	}
	view := sessionService.Sync(cmd.Context(), nil)

	if focusJSON {
		return printJSON(cmd, view)
	}

	printSession(cmd, view)
	return nil
}

func printSession(cmd *cobra.Command, view domain.SessionView) {
	cmd.Printf("State:     %s\n", view.State)
	goal := view.Goal
	if goal == "" {
		goal = "(not set)"
	}
	cmd.Printf("Goal:      %s\n", goal)
	if remaining := view.Display(); remaining != "" {
		cmd.Printf("Remaining: %s\n", remaining)
	}
	if view.Enforcing() {
		cmd.Println("Content is being scored against the goal.")
	}
}
