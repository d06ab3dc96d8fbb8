package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

var (
	analyzeGoal   string
	analyzeMaxLen int
	analyzeJSON   bool

	videoTitle   string
	videoChannel string
	videoMeta    string
	videoBadges  string
	videoSnippet string
	videoGoal    string
	videoJSON    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url-or-file>",
	Short: "Score a page against the goal",
	Long: `Fetch a page (or read a local HTML file), extract its main text and
score it for relevance to the goal.

The verdict is READ, SKIM or SKIP. When the language model is unavailable
the keyword heuristic is used instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

var videoCmd = &cobra.Command{
	Use:   "video",
	Short: "Score a single video card against the goal",
	Long: `Score a video from its card metadata, without a listing snapshot:
  focuscoach video --title "Go Concurrency Patterns" --channel "Google for Developers"`,
	RunE: runVideo,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeGoal, "goal", "g", "", "goal to score against (default: session goal)")
	analyzeCmd.Flags().IntVar(&analyzeMaxLen, "max-len", 0, "maximum characters of page text to use")
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output as JSON")

	videoCmd.Flags().StringVarP(&videoTitle, "title", "t", "", "video title")
	videoCmd.Flags().StringVar(&videoChannel, "channel", "", "channel name")
	videoCmd.Flags().StringVar(&videoMeta, "meta", "", "metadata line, such as views and age")
	videoCmd.Flags().StringVar(&videoBadges, "badges", "", "badges, comma separated")
	videoCmd.Flags().StringVar(&videoSnippet, "snippet", "", "description snippet")
	videoCmd.Flags().StringVarP(&videoGoal, "goal", "g", "", "goal to score against (default: session goal)")
	videoCmd.Flags().BoolVar(&videoJSON, "json", false, "output as JSON")
	_ = videoCmd.MarkFlagRequired("title")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(videoCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analyzerService == nil {
		return errors.New("analyzer not configured")
	}
	ctx := cmd.Context()
	if sessionService != nil && analyzeGoal == "" {
		sessionService.Sync(ctx, nil)
	}

	reply := analyzerService.Handle(ctx, domain.Message{
		Type:   domain.MessageAnalyze,
		ID:     uuid.NewString(),
		Goal:   analyzeGoal,
		MaxLen: analyzeMaxLen,
		URL:    args[0],
	})
	if reply.Error != "" {
		return fmt.Errorf("analyze %s: %s", args[0], reply.Error)
	}

	if analyzeJSON {
		return printJSON(cmd, reply)
	}

	if reply.Title != "" {
		cmd.Println(reply.Title)
	}
	cmd.Printf("Relevance: %d%% (%s)\n", reply.Relevance, reply.Recommendation)
	if reply.Summary != "" {
		cmd.Println()
		cmd.Println(reply.Summary)
	}
	return nil
}

func runVideo(cmd *cobra.Command, _ []string) error {
	if videoScorer == nil {
		return errors.New("video scorer not configured")
	}
	ctx := cmd.Context()
	if sessionService != nil && videoGoal == "" {
		sessionService.Sync(ctx, nil)
	}

	res, err := videoScorer.ScoreVideo(ctx, videoGoal, domain.ContentSample{
		Kind:     domain.ContentKindVideo,
		Title:    videoTitle,
		Channel:  videoChannel,
		MetaLine: videoMeta,
		Badges:   videoBadges,
		Snippet:  videoSnippet,
	})
	if err != nil {
		return fmt.Errorf("score video: %w", err)
	}

	if videoJSON {
		return printJSON(cmd, res)
	}

	cmd.Printf("Relevance: %d%% (%s, %s)\n", res.Relevance, res.Recommendation, res.Source)
	return nil
}
