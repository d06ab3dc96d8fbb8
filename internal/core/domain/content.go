package domain

import "strings"

// ContentKind identifies what a ContentSample was extracted from.
// The kind selects the heuristic variant, prompt template and
// evaluation policy.
type ContentKind string

// Available content kinds.
const (
	// ContentKindPage is the main text of a web page.
	ContentKindPage ContentKind = "page"

	// ContentKindVideo is the metadata of a video card in a listing.
	ContentKindVideo ContentKind = "video"
)

// IsValid returns true if the content kind is recognised.
func (k ContentKind) IsValid() bool {
	return k == ContentKindPage || k == ContentKindVideo
}

// String returns the string representation.
func (k ContentKind) String() string {
	return string(k)
}

// Default truncation lengths applied before content reaches a prompt.
const (
	// DefaultPageMaxLen caps page text embedded in a prompt.
	DefaultPageMaxLen = 6000

	// DefaultVideoMaxLen caps video metadata embedded in a prompt.
	DefaultVideoMaxLen = 800

	// MaxPageTextLen caps extracted page text.
	MaxPageTextLen = 20000
)

// DefaultMaxLen returns the prompt truncation length for the kind.
func (k ContentKind) DefaultMaxLen() int {
	if k == ContentKindVideo {
		return DefaultVideoMaxLen
	}
	return DefaultPageMaxLen
}

// ContentSample is the text extracted from a page or a video card,
// plus optional structured fields used by the weighted heuristic.
type ContentSample struct {
	// Kind is what the sample was extracted from.
	Kind ContentKind

	// URL is the source address, if known.
	URL string

	// Title is the page or video title.
	Title string

	// Channel is the channel or author name.
	Channel string

	// Snippet is a short description or body excerpt.
	Snippet string

	// MetaLine holds view counts and age ("1.2M views • 3 days ago").
	MetaLine string

	// Badges holds badge labels ("LIVE", "New").
	Badges string

	// Shorts holds the accessible label of a shorts link.
	Shorts string

	// Body is the full text (page content). Empty for video cards.
	Body string

	// MaxLen overrides the prompt truncation length. Zero uses the kind default.
	MaxLen int
}

// PromptMaxLen returns the truncation length applied before prompting.
func (c ContentSample) PromptMaxLen() int {
	if c.MaxLen > 0 {
		return c.MaxLen
	}
	return c.Kind.DefaultMaxLen()
}

// Text returns the flat text representation of the sample.
// Pages return their body; video cards return labelled lines.
func (c ContentSample) Text() string {
	if c.Body != "" {
		return c.Body
	}

	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, label+": "+value)
		}
	}
	add("Title", c.Title)
	add("Channel", c.Channel)
	add("Meta", c.MetaLine)
	add("Badges", c.Badges)
	add("Snippet", c.Snippet)
	add("Shorts", c.Shorts)

	return strings.Join(lines, "\n")
}

// Truncate returns s cut to at most maxLen runes.
// A non-positive maxLen leaves s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen])
}

// CollapseWhitespace replaces runs of whitespace with a single space
// and trims the result.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
