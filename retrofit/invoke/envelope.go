package invoke

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/response"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// SyncEnvelope is the SYNC<T> adapter specialized for descriptors whose
// Result entity is the status+headers+body envelope, converting the handler's untyped response.EnvelopeResult into the
// caller's concrete retrofittypes.Envelope[H, B].
func SyncEnvelope[H any, B any](ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) (retrofittypes.Envelope[H, B], error) {
	var zero retrofittypes.Envelope[H, B]
	m, err := inv.Descriptor(spec)
	if err != nil {
		return zero, err
	}
	v, err := inv.call(ctx, m, args)
	if err != nil {
		return zero, err
	}
	return toEnvelope[H, B](m.Name, v)
}

// FutureEnvelope is the FUTURE<T> adapter specialized for envelope
// results.
func FutureEnvelope[H any, B any](ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) *Future[retrofittypes.Envelope[H, B]] {
	m, err := inv.Descriptor(spec)
	if err != nil {
		return failedFuture[retrofittypes.Envelope[H, B]](ctx, err)
	}
	return newFuture(ctx, func() (retrofittypes.Envelope[H, B], error) {
		v, err := inv.call(ctx, m, args)
		if err != nil {
			var zero retrofittypes.Envelope[H, B]
			return zero, err
		}
		return toEnvelope[H, B](m.Name, v)
	})
}

func toEnvelope[H any, B any](method string, v any) (retrofittypes.Envelope[H, B], error) {
	var zero retrofittypes.Envelope[H, B]
	er, ok := v.(*response.EnvelopeResult)
	if !ok {
		return zero, retrofiterr.New(retrofiterr.MalformedInterface, method, "response handler did not return an envelope result")
	}

	env := retrofittypes.Envelope[H, B]{Status: er.Status, RawHeaders: er.RawHeaders}

	if er.TypedBody != nil {
		b, ok := er.TypedBody.(B)
		if !ok {
			return zero, retrofiterr.New(retrofiterr.MalformedInterface, method, "envelope body does not match the call site's declared type parameter")
		}
		env.TypedBody = b
	}

	if er.TypedHeaders != nil {
		h, ok := er.TypedHeaders.(H)
		if !ok {
			return zero, retrofiterr.New(retrofiterr.MalformedInterface, method, "envelope headers do not match the call site's declared type parameter")
		}
		env.TypedHeaders = h
	}

	return env, nil
}
