// Package listing reads video listings from saved YouTube HTML and tracks
// the blur applied to each card.
package listing

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure Snapshot implements the interface.
var _ driven.ItemSource = (*Snapshot)(nil)

// cardSelector matches every video renderer YouTube uses on home, search,
// channel, watch-next and shorts shelves.
const cardSelector = "ytd-rich-item-renderer, ytd-video-renderer, ytd-grid-video-renderer, " +
	"ytd-compact-video-renderer, ytd-reel-item-renderer"

// Snapshot is an ItemSource over an HTML file that is re-read on every call.
// A browser extension or a save-page tool keeps the file current.
type Snapshot struct {
	path string
}

// NewSnapshot creates a source reading the listing at path.
func NewSnapshot(path string) *Snapshot {
	return &Snapshot{path: path}
}

// Path returns the snapshot file path.
func (s *Snapshot) Path() string {
	return s.path
}

// Items parses the snapshot and returns its video cards in display order.
// A missing file is an empty listing.
func (s *Snapshot) Items(_ context.Context) ([]domain.Item, error) {
	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open listing: %w", err)
	}
	defer f.Close()

	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("parse listing: %w", err)
	}
	return ParseCards(doc), nil
}

// ParseCards extracts one item per video card. Duplicate IDs keep the
// first card.
func ParseCards(doc *goquery.Document) []domain.Item {
	var items []domain.Item
	seen := make(map[string]bool)

	doc.Find(cardSelector).Each(func(i int, card *goquery.Selection) {
		id := cardID(card, i)
		if seen[id] {
			return
		}
		seen[id] = true
		items = append(items, domain.Item{ID: id, Sample: cardSample(card)})
	})
	return items
}

func cardSample(card *goquery.Selection) domain.ContentSample {
	sample := domain.ContentSample{
		Kind:     domain.ContentKindVideo,
		Title:    cardTitle(card),
		Channel:  clean(card.Find("#channel-name a, ytd-channel-name a").First().Text()),
		MetaLine: joinTexts(card.Find("#metadata-line span"), " • "),
		Badges:   joinTexts(card.Find("ytd-badge-supported-renderer, .badge-style-type-live-now"), ", "),
		Snippet:  clean(card.Find("#description-text, #description").First().Text()),
		Shorts:   clean(card.Find(`a[href*="/shorts/"]`).First().AttrOr("aria-label", "")),
	}
	if href, ok := card.Find(`a[href*="/watch?"], a[href*="/shorts/"]`).First().Attr("href"); ok {
		sample.URL = href
	}
	return sample
}

// cardTitle tries the title element, then the title link, then the
// attributes of the watch link.
func cardTitle(card *goquery.Selection) string {
	if t := clean(card.Find("#video-title").First().Text()); t != "" {
		return t
	}
	if t := clean(card.Find("a#video-title-link").First().Text()); t != "" {
		return t
	}
	link := card.Find(`a[href*="/watch?"]`).First()
	if t := clean(link.AttrOr("title", "")); t != "" {
		return t
	}
	return clean(link.AttrOr("aria-label", ""))
}

// cardID derives a stable ID from the video link, falling back to the
// card's position.
func cardID(card *goquery.Selection, index int) string {
	var id string
	card.Find("a[href]").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		id = videoID(a.AttrOr("href", ""))
		return id == ""
	})
	if id != "" {
		return id
	}
	return "item-" + strconv.Itoa(index)
}

// videoID returns the ID in a /watch?v= or /shorts/ link.
func videoID(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if strings.HasSuffix(u.Path, "/watch") {
		return u.Query().Get("v")
	}
	if rest, ok := strings.CutPrefix(u.Path, "/shorts/"); ok {
		id, _, _ := strings.Cut(rest, "/")
		return id
	}
	return ""
}

func joinTexts(sel *goquery.Selection, sep string) string {
	var parts []string
	sel.Each(func(_ int, s *goquery.Selection) {
		if t := clean(s.Text()); t != "" {
			parts = append(parts, t)
		}
	})
	return strings.Join(parts, sep)
}

func clean(s string) string {
	return domain.CollapseWhitespace(s)
}
