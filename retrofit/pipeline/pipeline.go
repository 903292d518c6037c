// Package pipeline implements the composable policy pipeline:
// a chain of named policies terminating in a transport.Transport. Each
// policy wraps the next link and may observe, mutate, retry, or short
// circuit a request before it reaches the wire.
package pipeline

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
	"github.com/deploymenttheory/go-retrofit/retrofit/transport"
)

// Next is the continuation a Policy invokes to hand the request to the
// remainder of the chain.
type Next func(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error)

// Policy is one link in the pipeline. Implementations call next exactly
// once in the common path; a policy may decline to call next at all to
// short-circuit (e.g. a circuit breaker that is open).
type Policy interface {
	Name() string
	Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error)
}

// Chain wires an ordered list of policies in front of a terminal
// transport.Transport. Policies run in slice order: policies[0] sees the
// request first and the response last.
type Chain struct {
	policies []Policy
	terminal transport.Transport
}

// New builds a Chain. Order matters: a policy placed before the retry
// policy wraps it and runs once per logical call (metrics sits there),
// while a policy placed after it runs again on every retry attempt;
// concerns such as cookies and credentials can sit on either side
// depending on whether they should be re-evaluated per attempt.
func New(terminal transport.Transport, policies...Policy) *Chain {
	return &Chain{policies: policies, terminal: terminal}
}

// Send drives req through every policy in order and into the terminal
// transport.
func (c *Chain) Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
	return c.build(0)(ctx, req)
}

func (c *Chain) build(i int) Next {
	if i >= len(c.policies) {
		return c.terminal.Send
	}
	p := c.policies[i]
	next := c.build(i + 1)
	return func(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
		return p.Handle(ctx, req, next)
	}
}

// Terminal exposes the wrapped transport, so a pipeline built atop a
// NonPatchCapable transport can still have its PATCH-rewrite behavior
// introspected.
func (c *Chain) Terminal() transport.Transport {
	return c.terminal
}
