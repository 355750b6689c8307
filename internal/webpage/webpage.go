// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package webpage fetches candidate pages and reduces them to visible text.
package webpage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/research-agent/pkg/types"
)

// ErrNotHTML is returned when a page serves a content type the extractor
// cannot read (PDFs, images, raw JSON).
var ErrNotHTML = errors.New("page is not HTML")

// DefaultTextBudget bounds the visible text handed to the model so a single
// page cannot blow up the prompt.
const DefaultTextBudget = 15000

// DefaultUserAgent is the browser-like identification header sent with page
// fetches. Some sites refuse requests that look like bots.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/58.0.3029.110 Safari/537.36"

// Fetcher retrieves pages and strips them to plain text.
type Fetcher struct {
	Client *http.Client
	Config types.FetchConfig
}

// NewFetcher builds a Fetcher with the configured timeout (default 10s).
func NewFetcher(cfg types.FetchConfig) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxTextChars <= 0 {
		cfg.MaxTextChars = DefaultTextBudget
	}
	return &Fetcher{
		Client: &http.Client{Timeout: timeout},
		Config: cfg,
	}
}

// VisibleText fetches url and returns its visible text, whitespace-collapsed
// and truncated to the configured budget. Script, style, and other non-text
// elements are removed before extraction.
func (f *Fetcher) VisibleText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.Config.UserAgent)

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d from %s", resp.StatusCode, url)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" && !strings.Contains(contentType, "html") {
		return "", fmt.Errorf("%w: %s serves %s", ErrNotHTML, url, contentType)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return "", fmt.Errorf("parsing HTML from %s: %w", url, err)
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()

	text := collapseWhitespace(doc.Text())
	if text == "" {
		return "", fmt.Errorf("%w: %s has no visible text", ErrNotHTML, url)
	}

	return truncate(text, f.Config.MaxTextChars), nil
}

// collapseWhitespace joins all whitespace runs into single spaces, matching
// how a browser would render the text flow.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := s[:max]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
