package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentSample_Text_Body(t *testing.T) {
	c := ContentSample{Kind: ContentKindPage, Title: "ignored", Body: "page body"}

	assert.Equal(t, "page body", c.Text())
}

func TestContentSample_Text_VideoLines(t *testing.T) {
	c := ContentSample{
		Kind:     ContentKindVideo,
		Title:    "Go Concurrency Patterns",
		Channel:  "GopherCon",
		MetaLine: "1M views • 2 years ago",
		Snippet:  "goroutines and channels",
	}

	expected := "Title: Go Concurrency Patterns\nChannel: GopherCon\nMeta: 1M views • 2 years ago\nSnippet: goroutines and channels"
	assert.Equal(t, expected, c.Text())
}

func TestContentKind_DefaultMaxLen(t *testing.T) {
	assert.Equal(t, 6000, ContentKindPage.DefaultMaxLen())
	assert.Equal(t, 800, ContentKindVideo.DefaultMaxLen())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", Truncate("hello", 0))
	assert.Equal(t, "hel", Truncate("hello", 3))
	assert.Equal(t, "hello", Truncate("hello", 10))
	assert.Equal(t, "héé", Truncate("héééé", 3))
}

func TestCollapseWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", CollapseWhitespace("  a\n\tb   c "))
}

func TestContentSample_PromptMaxLen(t *testing.T) {
	assert.Equal(t, 800, ContentSample{Kind: ContentKindVideo}.PromptMaxLen())
	assert.Equal(t, 6000, ContentSample{Kind: ContentKindPage}.PromptMaxLen())
	assert.Equal(t, 1200, ContentSample{Kind: ContentKindPage, MaxLen: 1200}.PromptMaxLen())
}
