// Package page extracts the main text of web pages with goquery.
package page

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/custodia-labs/focuscoach/internal/core/domain"
	"github.com/custodia-labs/focuscoach/internal/core/ports/driven"
)

// Ensure Source implements the interface.
var _ driven.PageSource = (*Source)(nil)

// Default configuration values.
const (
	DefaultTimeout   = 15 * time.Second
	DefaultUserAgent = "focuscoach/1.0 (+https://github.com/custodia-labs/focuscoach)"

	// maxBodyBytes bounds how much of a response is parsed.
	maxBodyBytes = 5 << 20
)

// contentSelectors are tried in order; the first with text wins.
var contentSelectors = []string{"main", "article", "[role=main]", "#content", "#main", "body"}

// noiseSelectors are removed before text is read.
const noiseSelectors = "script, style, noscript, nav, header, footer, aside, svg, form, template, iframe"

// Config holds configuration for the page source.
type Config struct {
	// Timeout bounds one fetch (default: 15s).
	Timeout time.Duration

	// UserAgent is sent with every request.
	UserAgent string

	// Client overrides the HTTP client. Timeout is ignored when set.
	Client *http.Client
}

// Source fetches pages over HTTP or reads them from disk.
type Source struct {
	client    *http.Client
	userAgent string
}

// NewSource creates a page source.
func NewSource(cfg Config) *Source {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Source{client: client, userAgent: cfg.UserAgent}
}

// PageText returns the main text of the page at location, which is an
// http(s) URL, a file:// URL or a local path.
func (s *Source) PageText(ctx context.Context, location string) (domain.PageText, error) {
	body, err := s.open(ctx, location)
	if err != nil {
		return domain.PageText{}, err
	}
	defer body.Close()

	text, err := Extract(io.LimitReader(body, maxBodyBytes))
	if err != nil {
		return domain.PageText{}, err
	}
	text.URL = location
	return text, nil
}

func (s *Source) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if path, ok := localPath(location); ok {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open page: %w", err)
		}
		return f, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch page: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

func localPath(location string) (string, bool) {
	if p, ok := strings.CutPrefix(location, "file://"); ok {
		return p, true
	}
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return "", false
	}
	return location, true
}

// Extract parses HTML and returns its title and main text, whitespace
// collapsed and capped at domain.MaxPageTextLen.
func Extract(r io.Reader) (domain.PageText, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return domain.PageText{}, fmt.Errorf("parse page: %w", err)
	}

	title := domain.CollapseWhitespace(doc.Find("title").First().Text())
	if title == "" {
		title = domain.CollapseWhitespace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	}

	doc.Find(noiseSelectors).Remove()

	var text string
	for _, sel := range contentSelectors {
		if text = textOf(doc.Find(sel).First()); text != "" {
			break
		}
	}

	return domain.PageText{
		Title: title,
		Text:  domain.Truncate(text, domain.MaxPageTextLen),
	}, nil
}

// textOf joins the text nodes under sel with spaces so adjacent block
// elements do not run together.
func textOf(sel *goquery.Selection) string {
	var b strings.Builder
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			if goquery.NodeName(child) == "#text" {
				b.WriteString(child.Text())
				b.WriteByte(' ')
				return
			}
			walk(child)
		})
	}
	walk(sel)
	return domain.CollapseWhitespace(b.String())
}
