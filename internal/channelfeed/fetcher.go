// Package channelfeed fetches recent posts from a public Telegram
// channel via the t.me/s web preview. No authenticated client is
// involved; preview markup is a best-effort contract parsed defensively.
package channelfeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/transport"
)

const (
	previewBaseURL  = "https://t.me/s/"
	maxPreviewBytes = 5 * 1024 * 1024
	dateLayout      = "2006-01-02 15:04"
)

// Feed is the result of one channel fetch. Failures come back as a
// sentinel Feed with Title "Error", mirroring the webpage fetcher.
type Feed struct {
	Title   string
	URL     string
	Content string
}

type Fetcher struct {
	baseURL     string
	clients     *transport.Clients
	maxMessages int
	logger      *zerolog.Logger
}

func NewFetcher(clients *transport.Clients, maxMessages int, logger *zerolog.Logger) *Fetcher {
	return &Fetcher{
		baseURL:     previewBaseURL,
		clients:     clients,
		maxMessages: maxMessages,
		logger:      logger,
	}
}

// WithBaseURL overrides the preview endpoint, used by tests.
func (f *Fetcher) WithBaseURL(base string) *Fetcher {
	f.baseURL = strings.TrimSuffix(base, "/") + "/"

	return f
}

// Fetch retrieves the channel preview page and renders its most recent
// messages, oldest first. Total: failures return a sentinel Feed.
func (f *Fetcher) Fetch(ctx context.Context, channel string, tor bool) Feed {
	channel = strings.TrimPrefix(channel, "@")
	previewURL := f.baseURL + channel

	feed, err := f.fetch(ctx, previewURL, tor)
	if err != nil {
		f.logger.Warn().Err(err).Str("channel", channel).Msg("channel preview fetch failed")
		observability.ChannelFetches.WithLabelValues("error").Inc()

		return Feed{
			Title:   "Error",
			URL:     previewURL,
			Content: fmt.Sprintf("⚠️ Failed to fetch Telegram channel: %v", err),
		}
	}

	observability.ChannelFetches.WithLabelValues("ok").Inc()

	return feed
}

func (f *Fetcher) fetch(ctx context.Context, previewURL string, tor bool) (Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, previewURL, nil)
	if err != nil {
		return Feed{}, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", transport.UserAgent)

	resp, err := f.clients.Pick(tor).Do(req)
	if err != nil {
		return Feed{}, fmt.Errorf("fetch channel preview: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return Feed{}, fmt.Errorf("channel preview HTTP %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPreviewBytes))
	if err != nil {
		return Feed{}, fmt.Errorf("parse channel preview: %w", err)
	}

	title := strings.TrimSpace(doc.Find(".tgme_channel_info_header_title span").First().Text())
	if title == "" {
		title = "No Title"
	}

	messages := f.extractMessages(doc)

	content := strings.Join(messages, "\n\n")
	if content == "" {
		content = "No messages found"
	}

	return Feed{Title: title, URL: previewURL, Content: content}, nil
}

func (f *Fetcher) extractMessages(doc *goquery.Document) []string {
	var messages []string

	doc.Find(".tgme_widget_message_wrap").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Find(".tgme_widget_message_text").Text())

		date := ""
		if raw, ok := s.Find(".tgme_widget_message_date time").Attr("datetime"); ok {
			date = formatMessageDate(raw)
		}

		line := fmt.Sprintf("%s: %s%s", date, text, mediaMarker(s))
		messages = append(messages, strings.TrimSpace(line))

		return len(messages) < f.maxMessages
	})

	return messages
}

func mediaMarker(s *goquery.Selection) string {
	switch {
	case s.Find(".tgme_widget_message_photo_wrap").Length() > 0:
		return " [Photo]"
	case s.Find(".tgme_widget_message_video_wrap").Length() > 0:
		return " [Video]"
	case s.Find(".tgme_widget_message_document_wrap").Length() > 0:
		return " [Document]"
	default:
		return ""
	}
}

// formatMessageDate normalizes the preview's datetime attribute. The
// attribute format varies, so parsing is best-effort.
func formatMessageDate(raw string) string {
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}

	return t.UTC().Format(dateLayout)
}
