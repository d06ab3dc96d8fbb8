package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_FillsPlaceholders(t *testing.T) {
	tmpl := "Goal: {{goal}}\nKeywords: {{keywords}}\nContent: {{content}}"

	prompt := BuildPrompt(tmpl, "learn Go concurrency", "goroutines", 100)

	assert.Equal(t, "Goal: learn Go concurrency\nKeywords: learn, concurrency\nContent: goroutines", prompt)
}

func TestBuildPrompt_TruncatesContent(t *testing.T) {
	content := strings.Repeat("x", 1000)

	prompt := BuildPrompt("{{content}}", "goal", content, 800)

	assert.Len(t, prompt, 800)
}

func TestBuildPrompt_DefaultMaxLen(t *testing.T) {
	content := strings.Repeat("y", 7000)

	prompt := BuildPrompt("{{content}}", "goal", content, 0)

	assert.Len(t, prompt, 6000)
}

func TestBuildPrompt_DoesNotExpandPlaceholdersInContent(t *testing.T) {
	prompt := BuildPrompt("[{{content}}]", "secret goal", "{{goal}}", 100)

	assert.Equal(t, "[{{goal}}]", prompt)
}

func TestBuildPrompt_TemplateWithoutPlaceholders(t *testing.T) {
	assert.Equal(t, "static", BuildPrompt("static", "goal", "content", 10))
}
