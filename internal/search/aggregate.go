package search

import (
	"context"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aiassistant/telegram-web-bot/internal/observability"
	"github.com/aiassistant/telegram-web-bot/internal/ratelimit"
)

// Aggregator fans a query out across all configured providers,
// concatenates results in fixed provider-priority order, deduplicates by
// exact URL keeping the first occurrence, and caps the total. It never
// fails: when every provider fails it returns an empty list and the
// caller renders the no-results fallback.
type Aggregator struct {
	providers  []Provider
	limiter    *ratelimit.Limiter
	maxResults int
	logger     *zerolog.Logger
}

func NewAggregator(providers []Provider, limiter *ratelimit.Limiter, maxResults int, logger *zerolog.Logger) *Aggregator {
	ordered := make([]Provider, len(providers))
	copy(ordered, providers)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	return &Aggregator{
		providers:  ordered,
		limiter:    limiter,
		maxResults: maxResults,
		logger:     logger,
	}
}

// Aggregate runs the providers concurrently. Each provider is gated by
// the shared search rate class and bounded by its own HTTP timeout, so a
// slow provider consumes only its own budget.
func (a *Aggregator) Aggregate(ctx context.Context, query string, tor bool) []Result {
	perProvider := make([][]Result, len(a.providers))

	g, gctx := errgroup.WithContext(ctx)

	for i, p := range a.providers {
		i, p := i, p

		g.Go(func() error {
			if err := a.limiter.Acquire(gctx, ratelimit.ClassSearch); err != nil {
				return nil //nolint:nilerr // cancellation only; provider contributes nothing
			}

			results, err := p.Search(gctx, query, tor)
			if err != nil {
				a.logger.Warn().Err(err).Str("provider", p.Name()).Str("query", query).Msg("search provider failed")
				observability.SearchRequests.WithLabelValues(p.Name(), "error").Inc()

				return nil //nolint:nilerr // provider failures degrade to empty contributions
			}

			observability.SearchRequests.WithLabelValues(p.Name(), "ok").Inc()
			observability.SearchResults.WithLabelValues(p.Name()).Observe(float64(len(results)))

			perProvider[i] = results

			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines never return errors

	seen := make(map[string]struct{})

	var merged []Result

	for _, results := range perProvider {
		for _, r := range results {
			if _, dup := seen[r.URL]; dup {
				continue
			}

			seen[r.URL] = struct{}{}
			merged = append(merged, r)
		}
	}

	if len(merged) > a.maxResults {
		merged = merged[:a.maxResults]
	}

	return merged
}
