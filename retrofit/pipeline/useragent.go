package pipeline

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// UserAgentPolicy stamps a fixed User-Agent header onto every request
// that doesn't already declare one, backing the client's WithUserAgent/
// WithCustomAgent options.
type UserAgentPolicy struct {
	UserAgent string
}

func NewUserAgentPolicy(userAgent string) *UserAgentPolicy {
	return &UserAgentPolicy{UserAgent: userAgent}
}

func (p *UserAgentPolicy) Name() string { return "user-agent" }

func (p *UserAgentPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	if !req.Headers.Has("User-Agent") && p.UserAgent != "" {
		req.Headers.Set("User-Agent", p.UserAgent)
	}
	return next(ctx, req)
}

// GlobalHeadersPolicy applies client-wide default headers. Per-request
// headers set by the descriptor already win, since reqbuilder populates
// those directly on the request; this policy only fills gaps, so a
// per-request header always overrides a global default.
type GlobalHeadersPolicy struct {
	Headers *retrofittypes.Headers
}

func NewGlobalHeadersPolicy(headers *retrofittypes.Headers) *GlobalHeadersPolicy {
	return &GlobalHeadersPolicy{Headers: headers}
}

func (p *GlobalHeadersPolicy) Name() string { return "global-headers" }

func (p *GlobalHeadersPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	if p.Headers != nil {
		p.Headers.Range(func(name, value string) {
			if !req.Headers.Has(name) {
				req.Headers.Set(name, value)
			}
		})
	}
	return next(ctx, req)
}
