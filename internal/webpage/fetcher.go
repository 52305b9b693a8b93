// Package webpage fetches a URL and extracts its main textual body, any
// download links, and forum thread content.
package webpage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/transport"
)

const maxPageBytes = 5 * 1024 * 1024

// Page is the result of one fetch. Failures come back as a sentinel Page
// with Title "Error" and a human-readable Body, never as an error: the
// composer renders failures inline without special-casing.
type Page struct {
	Title         string
	URL           string
	Body          string
	DownloadLinks []DownloadLink
	ForumExcerpt  string
}

type DownloadLink struct {
	Label string
	URL   string
}

type Fetcher struct {
	clients          *transport.Clients
	bodyLimit        int
	forumLimit       int
	maxDownloadLinks int
	logger           *zerolog.Logger
}

func NewFetcher(clients *transport.Clients, bodyLimit, forumLimit, maxDownloadLinks int, logger *zerolog.Logger) *Fetcher {
	return &Fetcher{
		clients:          clients,
		bodyLimit:        bodyLimit,
		forumLimit:       forumLimit,
		maxDownloadLinks: maxDownloadLinks,
		logger:           logger,
	}
}

// Fetch retrieves the page in a single round trip and extracts its
// content. It is total: every failure returns an error sentinel Page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, tor bool) Page {
	start := time.Now()

	page, err := f.fetch(ctx, rawURL, tor)

	observability.PageFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		f.logger.Warn().Err(err).Str("url", rawURL).Msg("webpage fetch failed")
		observability.PageFetches.WithLabelValues("error").Inc()

		return Page{
			Title: "Error",
			URL:   rawURL,
			Body:  fmt.Sprintf("⚠️ Failed to fetch content: %v", err),
		}
	}

	observability.PageFetches.WithLabelValues("ok").Inc()

	return page
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string, tor bool) (Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", transport.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.clients.Pick(tor).Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("fetch %s: HTTP %d", rawURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return Page{}, fmt.Errorf("parse %s: %w", rawURL, err)
	}

	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No Title"
	}

	// Download links and forum content come from the full document;
	// extraction strips non-content elements afterwards.
	links := findDownloadLinks(doc, rawURL, f.maxDownloadLinks)
	forum := extractForumContent(doc, rawURL, f.forumLimit)
	body := extractMainContent(doc, f.bodyLimit)

	return Page{
		Title:         title,
		URL:           rawURL,
		Body:          body,
		DownloadLinks: links,
		ForumExcerpt:  forum,
	}, nil
}
