package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/logger"
)

var (
	scanGoal  string
	scanWatch bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Score the video listing and blur what is off-goal",
	Long: `Score every card of the saved video listing against the goal and
blur the ones below the blur threshold.

The listing is an HTML snapshot of a YouTube page (see 'settings show' for
its path). With --watch the snapshot is followed: every time it is saved
again the new cards are scored, while the focus session is on.`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanGoal, "goal", "g", "", "goal to score against (default: session goal)")
	scanCmd.Flags().BoolVarP(&scanWatch, "watch", "w", false, "follow the listing snapshot and the session")
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, _ []string) error {
	if scannerService == nil {
		return errors.New("scanner not configured")
	}
	if scanWatch {
		return runScanWatch(cmd)
	}

	ctx := cmd.Context()
	goal := strings.TrimSpace(scanGoal)
	if goal == "" && sessionService != nil {
		goal = sessionService.Sync(ctx, nil).Goal
	}
	if goal == "" {
		return fmt.Errorf("%w: run 'focuscoach goal <text>' or pass --goal", domain.ErrEmptyGoal)
	}

	scannerService.Enable(ctx, goal)
	scannerService.Wait()

	scores := scannerService.Scores()
	if len(scores) == 0 {
		cmd.Println("Nothing scored. Is the listing snapshot empty, or the language model down?")
		return nil
	}
	printScores(cmd, scores)
	return renderListing(cmd)
}

func printScores(cmd *cobra.Command, scores map[string]domain.ItemScore) {
	var scored, blurred, untitled int
	for _, id := range sortedIDs(scores) {
		sc := scores[id]
		logger.Debug("Scan: %s score=%d blurred=%t", id, sc.Score, sc.Blurred)
		switch {
		case sc.Score < 0:
			untitled++
		case sc.Blurred:
			blurred++
			scored++
		default:
			scored++
		}
	}
	cmd.Printf("Scored %d items, blurred %d", scored, blurred)
	if untitled > 0 {
		cmd.Printf(", %d without a title", untitled)
	}
	cmd.Println(".")
}

func renderListing(cmd *cobra.Command) error {
	if listing == nil || overlays == nil {
		return nil
	}
	items, err := listing.Items(cmd.Context())
	if err != nil {
		return fmt.Errorf("read listing: %w", err)
	}
	cmd.Println()
	return overlays.Render(cmd.OutOrStdout(), items)
}

func runScanWatch(cmd *cobra.Command) error {
	if listing == nil || fileWatcher == nil {
		return errors.New("listing watch not configured")
	}
	ctx := cmd.Context()

	if sessionService != nil && scanFollower != nil && scanGoal == "" {
		unsubscribe := sessionService.Subscribe(scanFollower(ctx))
		defer unsubscribe()
		go func() {
			if err := sessionService.Run(ctx); err != nil {
				logger.Warn("session: %v", err)
			}
		}()
	} else {
		goal := strings.TrimSpace(scanGoal)
		if goal == "" {
			return fmt.Errorf("%w: pass --goal", domain.ErrEmptyGoal)
		}
		scannerService.Enable(ctx, goal)
	}

	redraw := make(chan struct{}, 1)
	if overlays != nil {
		overlays.OnChange(func() {
			select {
			case redraw <- struct{}{}:
			default:
			}
		})
		defer overlays.OnChange(nil)
	}

	go func() {
		if err := fileWatcher.Watch(ctx, listing.Path(), scannerService.Notify); err != nil {
			logger.Warn("watch %s: %v", listing.Path(), err)
		}
	}()

	cmd.Printf("Watching %s (ctrl+c to stop)\n", listing.Path())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-redraw:
			if err := renderListing(cmd); err != nil {
				logger.Warn("%v", err)
			}
		}
	}
}

// sortedIDs returns the item IDs of scores in a stable order.
func sortedIDs(scores map[string]domain.ItemScore) []string {
	ids := make([]string, 0, len(scores))
	for id := range scores {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
