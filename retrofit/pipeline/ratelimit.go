package pipeline

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// RateLimitPolicy throttles outgoing requests to a fixed rate using
// golang.org/x/time/rate, giving callers a client-side complement to
// the rate-limit header helpers exposed on retrofittypes.Response.
type RateLimitPolicy struct {
	limiter *rate.Limiter
}

// NewRateLimitPolicy allows requestsPerSecond sustained requests with a
// burst of burst.
func NewRateLimitPolicy(requestsPerSecond float64, burst int) *RateLimitPolicy {
	return &RateLimitPolicy{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

func (p *RateLimitPolicy) Name() string { return "rate-limit" }

func (p *RateLimitPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.Cancelled, req.Label, "waiting for rate limiter", err)
	}
	return next(ctx, req)
}
