package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

const historyTimeLayout = "2006-01-02 15:04"

var (
	historyLimit int
	historyJSON  bool
)

var errNoHistory = errors.New("history service not configured")

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recently scored pages and videos",
	RunE:  runHistoryEvaluations,
}

var historySessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent focus sessions",
	RunE:  runHistorySessions,
}

func init() {
	historyCmd.PersistentFlags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historySessionsCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryEvaluations(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNoHistory
	}

	evals, err := historyService.Evaluations(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, evals)
	}
	if len(evals) == 0 {
		cmd.Println("Nothing scored yet.")
		return nil
	}

	for i := range evals {
		e := &evals[i]
		title := e.Title
		if title == "" {
			title = e.URL
		}
		cmd.Printf("%s  %3d %-4s  %-5s  %s\n",
			e.CreatedAt.Local().Format(historyTimeLayout),
			e.Result.Relevance, e.Result.Recommendation, e.Kind, title)
	}
	return nil
}

func runHistorySessions(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errNoHistory
	}

	sessions, err := historyService.Sessions(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}
	if historyJSON {
		return printJSON(cmd, sessions)
	}
	if len(sessions) == 0 {
		cmd.Println("No focus sessions yet.")
		return nil
	}

	for _, s := range sessions {
		length := time.Duration(s.DurationMinutes) * time.Minute
		ended := "running"
		if s.EndedAt != nil {
			ended = "ended " + s.EndedAt.Local().Format("15:04")
		}
		cmd.Printf("%s  %-6s  %-12s  %s\n",
			s.StartedAt.Local().Format(historyTimeLayout), length, ended, s.Goal)
	}
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
