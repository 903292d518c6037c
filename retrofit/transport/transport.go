// Package transport implements the Transport external collaborator
// contract (sendRequestAsync(request) -> future<response>)
// plus two concrete implementations: a resty.dev/v3-backed transport and a
// raw net/http transport built on hashicorp/go-cleanhttp. Both honor
// context cancellation and never retry internally — retries are the
// policy pipeline's concern.
package transport

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// Transport sends a fully-built request and returns a response or a
// TransportIO/Cancelled error. Implementations must honor
// ctx cancellation and must not retry.
type Transport interface {
	Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error)
}

// NonPatchCapable marks a Transport as lacking native HTTP PATCH support.
// Such a transport rewrites PATCH to POST with an X-HTTP-Method-Override
// header itself (see CleanHTTPTransport.Send); the request builder does
// not rewrite the verb.
type NonPatchCapable interface {
	PatchUnsupported() bool
}
