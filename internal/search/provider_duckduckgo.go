package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"

	"github.com/aiassistant/telegram-web-bot/internal/transport"
)

const (
	ddgAPIURL  = "https://api.duckduckgo.com/"
	ddgHTMLURL = "https://html.duckduckgo.com/html/"

	// ddgMinAPIResults is the insufficiency threshold: when the instant
	// answer API yields fewer results than this, the provider falls back
	// to scraping the HTML results page. Callers must not assume the
	// provider always takes the same code path.
	ddgMinAPIResults = 3
	ddgMaxResults    = 5
)

// DuckDuckGoProvider queries the instant answer API first and scrapes
// the HTML results page when the API does not return enough.
type DuckDuckGoProvider struct {
	apiURL  string
	htmlURL string
	clients *transport.Clients
	logger  *zerolog.Logger
}

// DuckDuckGoConfig overrides the upstream endpoints, used by tests.
type DuckDuckGoConfig struct {
	APIBaseURL  string
	HTMLBaseURL string
}

func NewDuckDuckGoProvider(cfg DuckDuckGoConfig, clients *transport.Clients, logger *zerolog.Logger) *DuckDuckGoProvider {
	p := &DuckDuckGoProvider{
		apiURL:  ddgAPIURL,
		htmlURL: ddgHTMLURL,
		clients: clients,
		logger:  logger,
	}

	if cfg.APIBaseURL != "" {
		p.apiURL = cfg.APIBaseURL
	}

	if cfg.HTMLBaseURL != "" {
		p.htmlURL = cfg.HTMLBaseURL
	}

	return p
}

func (p *DuckDuckGoProvider) Name() string { return "duckduckgo" }

func (p *DuckDuckGoProvider) Priority() int { return PriorityDuckDuckGo }

func (p *DuckDuckGoProvider) Search(ctx context.Context, query string, tor bool) ([]Result, error) {
	client := p.clients.Pick(tor)

	results, err := p.searchAPI(ctx, client, query)
	if err != nil {
		p.logger.Warn().Err(err).Str("query", query).Msg("duckduckgo api lookup failed, falling back to html")
	}

	if len(results) < ddgMinAPIResults {
		htmlResults, err := p.searchHTML(ctx, client, query)
		if err != nil {
			if len(results) == 0 {
				return nil, err
			}

			p.logger.Warn().Err(err).Str("query", query).Msg("duckduckgo html scrape failed")
		}

		results = append(results, htmlResults...)
	}

	if len(results) > ddgMaxResults {
		results = results[:ddgMaxResults]
	}

	return results, nil
}

// ddgAPIResponse is the subset of the instant answer payload we use.
type ddgAPIResponse struct {
	Heading      string `json:"Heading"`
	AbstractText string `json:"AbstractText"`
	AbstractURL  string `json:"AbstractURL"`
}

func (p *DuckDuckGoProvider) searchAPI(ctx context.Context, client *http.Client, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("no_redirect", "1")
	params.Set("no_html", "1")
	params.Set("skip_disambig", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.apiURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo api request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo api request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo api status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read duckduckgo api response: %w", err)
	}

	var apiResp ddgAPIResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("parse duckduckgo api json: %w", err)
	}

	if apiResp.AbstractText == "" || !validResultURL(apiResp.AbstractURL) {
		return nil, nil
	}

	return []Result{{
		Title:       fallbackTitle(apiResp.Heading, "Main Result"),
		URL:         apiResp.AbstractURL,
		Description: apiResp.AbstractText,
		Source:      KindAPI,
	}}, nil
}

func (p *DuckDuckGoProvider) searchHTML(ctx context.Context, client *http.Client, query string) ([]Result, error) {
	params := url.Values{}
	params.Set("q", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.htmlURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create duckduckgo html request: %w", err)
	}

	req.Header.Set("User-Agent", transport.UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("duckduckgo html request: %w", err)
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("duckduckgo html status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse duckduckgo html: %w", err)
	}

	var results []Result

	doc.Find(".result__body").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		titleLink := s.Find(".result__title a")
		snippet := strings.TrimSpace(s.Find(".result__snippet").Text())

		href, ok := titleLink.Attr("href")
		if !ok {
			return true
		}

		cleanURL := cleanDDGRedirect(href)
		if !validResultURL(cleanURL) {
			return true
		}

		results = append(results, Result{
			Title:       strings.TrimSpace(titleLink.Text()),
			URL:         cleanURL,
			Description: snippet,
			Source:      KindHTML,
		})

		return len(results) < ddgMaxResults
	})

	return results, nil
}

// cleanDDGRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=...
// tracking redirects into the target URL.
func cleanDDGRedirect(href string) string {
	unescaped, err := url.QueryUnescape(href)
	if err != nil {
		unescaped = href
	}

	if !strings.Contains(unescaped, "uddg=") {
		return href
	}

	parsed, err := url.Parse(unescaped)
	if err != nil {
		return href
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}

	return href
}
