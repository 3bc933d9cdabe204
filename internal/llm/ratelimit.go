package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited spaces calls to a backend so bursts from many tool calls do
// not exhaust the provider quota. Waiting honours ctx cancellation.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited allows n calls per period with a burst of one. A
// non-positive n disables limiting.
func NewRateLimited(next Completer, n int, per time.Duration) *RateLimited {
	limit := rate.Inf
	if n > 0 {
		limit = rate.Every(per / time.Duration(n))
	}
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(limit, 1),
	}
}

// Complete implements Completer.
func (r *RateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Complete(ctx, prompt)
}
