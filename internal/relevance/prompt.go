package relevance

import (
	"strings"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
)

// Template placeholders understood by BuildPrompt.
const (
	PlaceholderGoal     = "{{goal}}"
	PlaceholderKeywords = "{{keywords}}"
	PlaceholderContent  = "{{content}}"
)

// BuildPrompt fills a prompt template with the goal, its keywords and the
// content truncated to maxLen runes. A non-positive maxLen falls back to
// domain.DefaultPageMaxLen. A template may omit any placeholder.
func BuildPrompt(template, goal, content string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = domain.DefaultPageMaxLen
	}

	r := strings.NewReplacer(
		PlaceholderGoal, goal,
		PlaceholderKeywords, strings.Join(Keywords(goal), ", "),
		PlaceholderContent, domain.Truncate(content, maxLen),
	)
	return r.Replace(template)
}
