// Package search implements the web search providers and the aggregator
// that fans a query out across them.
package search

import (
	"context"
	"net/url"
	"strings"
)

// Kind records which class of provider produced a result.
type Kind string

const (
	KindAPI     Kind = "api"
	KindHTML    Kind = "html"
	KindMeta    Kind = "meta"
	KindChannel Kind = "channel"
)

// Result is one normalized search hit. URL is the unique key within a
// result set and is always absolute.
type Result struct {
	Title       string
	URL         string
	Description string
	Source      Kind
}

// Provider priority values. Lower runs earlier in the concatenation
// order, which is the dedup tie-break.
const (
	PriorityDuckDuckGo = 10
	PrioritySearxNG    = 20
	PriorityChannels   = 30
)

// Provider is one adapter to an external search service. Search returns
// normalized results; any transport or parse failure surfaces as an
// error here and is converted to an empty contribution by the
// aggregator, never propagated further.
type Provider interface {
	Name() string
	Priority() int
	Search(ctx context.Context, query string, tor bool) ([]Result, error)
}

// validResultURL reports whether a provider URL is absolute with a
// recognized scheme. Results failing this are discarded.
func validResultURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// fallbackTitle fills in provider results that come back without one.
func fallbackTitle(title, fallback string) string {
	if strings.TrimSpace(title) == "" {
		return fallback
	}

	return title
}
