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

const (
	searxngSearchPath = "/search"
	searxngMaxResults = 5
	searxngErrPreview = 200
)

var errSearxNGNotJSON = errors.New("searxng returned non-json body")

// SearxNGProvider queries a SearxNG metasearch instance. Public
// instances are unauthenticated third parties; the response shape is a
// best-effort contract and is parsed defensively.
type SearxNGProvider struct {
	baseURL string
	clients *transport.Clients
}

func NewSearxNGProvider(baseURL string, clients *transport.Clients) *SearxNGProvider {
	return &SearxNGProvider{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		clients: clients,
	}
}

func (p *SearxNGProvider) Name() string { return "searxng" }

func (p *SearxNGProvider) Priority() int { return PrioritySearxNG }

type searxngResponse struct {
	Results []searxngResult `json:"results"`
}

type searxngResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

func (p *SearxNGProvider) Search(ctx context.Context, query string, tor bool) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("language", "en-US")
	params.Set("safesearch", "0")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+searxngSearchPath+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create searxng request: %w", err)
	}

	req.Header.Set("User-Agent", transport.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.clients.Pick(tor).Do(req)
	if err != nil {
		return nil, fmt.Errorf("searxng request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searxng status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read searxng response: %w", err)
	}

	return parseSearxNGResponse(body)
}

func parseSearxNGResponse(body []byte) ([]Result, error) {
	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || (trimmed[0] != '{' && trimmed[0] != '[') {
		// Likely an HTML error page from the instance.
		preview := trimmed
		if len(preview) > searxngErrPreview {
			preview = preview[:searxngErrPreview] + "..."
		}

		return nil, fmt.Errorf("%w: %s", errSearxNGNotJSON, preview)
	}

	var resp searxngResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse searxng json: %w", err)
	}

	results := make([]Result, 0, searxngMaxResults)

	for _, item := range resp.Results {
		if len(results) >= searxngMaxResults {
			break
		}

		if !validResultURL(item.URL) {
			continue
		}

		results = append(results, Result{
			Title:       fallbackTitle(item.Title, "No Title"),
			URL:         item.URL,
			Description: fallbackTitle(item.Content, "No description available"),
			Source:      KindMeta,
		})
	}

	return results, nil
}
