package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// RequestIDPolicy stamps a fresh correlation ID onto every request that
// doesn't already carry one, so logs/traces/metrics for one logical call
// can be joined across the client and the service it calls.
type RequestIDPolicy struct {
	Header string
}

// NewRequestIDPolicy returns a policy that sets header (defaulting to
// "X-Request-Id") to a new random UUID per request.
func NewRequestIDPolicy(header string) *RequestIDPolicy {
	if header == "" {
		header = "X-Request-Id"
	}
	return &RequestIDPolicy{Header: header}
}

func (p *RequestIDPolicy) Name() string { return "request-id" }

func (p *RequestIDPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	if !req.Headers.Has(p.Header) {
		req.Headers.Set(p.Header, uuid.NewString())
	}
	return next(ctx, req)
}
