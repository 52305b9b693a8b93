package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/aiassistant/telegram-web-bot/internal/transport"
)

const channelSearchPath = "/search"

var errChannelSearchDisabled = errors.New("channel search provider disabled")

// ChannelProvider searches a Telegram channel index. The backing endpoint
// is an unauthenticated third party whose schema is not guaranteed
// stable, so every field is treated as optional. The provider is a no-op
// unless a base URL is configured.
type ChannelProvider struct {
	baseURL string
	clients *transport.Clients
}

func NewChannelProvider(baseURL string, clients *transport.Clients) *ChannelProvider {
	return &ChannelProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		clients: clients,
	}
}

func (p *ChannelProvider) Name() string { return "channels" }

func (p *ChannelProvider) Priority() int { return PriorityChannels }

// Enabled reports whether a channel index endpoint is configured.
func (p *ChannelProvider) Enabled() bool { return p.baseURL != "" }

type channelSearchResponse struct {
	Results []channelSearchResult `json:"results"`
}

type channelSearchResult struct {
	Title       string                `json:"title"`
	URL         string                `json:"url"`
	Description string                `json:"description"`
	Type        string                `json:"type"`
	Message     *channelSearchMessage `json:"message"`
}

type channelSearchMessage struct {
	Author  string `json:"author"`
	Date    string `json:"date"`
	Content string `json:"content"`
}

func (p *ChannelProvider) Search(ctx context.Context, query string, tor bool) ([]Result, error) {
	if !p.Enabled() {
		return nil, errChannelSearchDisabled
	}

	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+channelSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create channel search request: %w", err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := p.clients.Pick(tor).Do(req)
	if err != nil {
		return nil, fmt.Errorf("channel search request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("channel search status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read channel search response: %w", err)
	}

	var parsed channelSearchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse channel search json: %w", err)
	}

	var results []Result

	for _, item := range parsed.Results {
		if !validResultURL(item.URL) {
			continue
		}

		results = append(results, Result{
			Title:       fallbackTitle(item.Title, "Channel result"),
			URL:         item.URL,
			Description: channelDescription(item),
			Source:      KindChannel,
		})
	}

	return results, nil
}

// channelDescription prefers the indexed description and falls back to
// the matched message body when the index has none.
func channelDescription(item channelSearchResult) string {
	if strings.TrimSpace(item.Description) != "" {
		return item.Description
	}

	if item.Message != nil && strings.TrimSpace(item.Message.Content) != "" {
		return item.Message.Content
	}

	return "No description available"
}
