// Package ratelimit enforces process-wide ceilings on outbound calls to
// external services. The limits are deliberately global rather than
// per-user: the upstream services impose account-wide ceilings, so two
// concurrent sessions must not be able to jointly exceed them.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Class identifies one limited resource class.
type Class string

const (
	// ClassLLM covers generation-backend calls (tightest budget).
	ClassLLM Class = "llm"
	// ClassSearch covers all search-provider calls.
	ClassSearch Class = "search"
)

const (
	secondsPerMinute = 60
	llmBurst         = 1
	searchBurst      = 2
)

// Limiter gates outbound calls per resource class. Acquire only ever
// delays the caller; running out of budget is never an error.
type Limiter struct {
	limiters map[Class]*rate.Limiter
}

// New builds a limiter with the given budgets: llmRPM generation calls
// per minute and searchRPS search calls per second, shared across all
// concurrent sessions.
func New(llmRPM int, searchRPS float64) *Limiter {
	return &Limiter{
		limiters: map[Class]*rate.Limiter{
			ClassLLM:    rate.NewLimiter(rate.Limit(float64(llmRPM)/secondsPerMinute), llmBurst),
			ClassSearch: rate.NewLimiter(rate.Limit(searchRPS), searchBurst),
		},
	}
}

// Acquire blocks until a slot is available for the class. The only error
// it can return is the context's, when the caller gives up waiting.
func (l *Limiter) Acquire(ctx context.Context, class Class) error {
	lim, ok := l.limiters[class]
	if !ok {
		return nil
	}

	return lim.Wait(ctx)
}
