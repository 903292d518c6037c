// Package invoke implements the invocation façade: the
// dispatch entry point that resolves a cached descriptor, drives it
// through the request builder, policy pipeline, and response handler,
// and adapts the result to the method's declared return shape.
//
// Go has no reflective interface proxying, so there is no generated
// dynamic proxy here: a service's hand-written method bodies call
// Sync/FutureCall/Void/CompletionOnly directly, each keyed by that method's
// package-level descriptor.Spec. The descriptor remains the single
// source of truth; these functions are the typed call site that uses it.
package invoke

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/reqbuilder"
	"github.com/deploymenttheory/go-retrofit/retrofit/response"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// Sender is the tail of the policy pipeline the invoker drives requests
// through (satisfied by *pipeline.Chain; declared narrowly here so this
// package doesn't depend on pipeline's policy-authoring surface).
type Sender interface {
	Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error)
}

// Invoker wires the three THE CORE subsystems together for one service
// binding: a descriptor cache, a request builder, a pipeline sender,
// and a response handler.
type Invoker struct {
	Cache      *descriptor.Cache
	ReqBuilder *reqbuilder.Builder
	Sender     Sender
	Handler    *response.Handler
}

func New(cache *descriptor.Cache, rb *reqbuilder.Builder, sender Sender, h *response.Handler) *Invoker {
	return &Invoker{Cache: cache, ReqBuilder: rb, Sender: sender, Handler: h}
}

// Descriptor resolves spec's cached *descriptor.Method, building and
// caching it on first use.
func (inv *Invoker) Descriptor(spec descriptor.Spec) (*descriptor.Method, error) {
	return inv.Cache.GetOrBuild(spec.Name, func() (*descriptor.Method, error) {
		return descriptor.Build(spec)
	})
}

// call drives the resolved call against an already-resolved
// descriptor: build the request, submit it to the pipeline, and route
// the response through the handler.
func (inv *Invoker) call(ctx context.Context, m *descriptor.Method, args []any) (any, error) {
	req, err := inv.ReqBuilder.Build(m, args)
	if err != nil {
		return nil, err
	}
	resp, err := inv.Sender.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	return inv.Handler.Handle(m, resp)
}

// Void implements the VOID return-shape adapter:
// block on the call and discard any result.
func Void(ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) error {
	m, err := inv.Descriptor(spec)
	if err != nil {
		return err
	}
	_, err = inv.call(ctx, m, args)
	return err
}

// Sync implements the SYNC<T> return-shape adapter: block on the call
// and return the typed value. This is the engine's one well-defined
// suspension point visible to a caller.
func Sync[T any](ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) (T, error) {
	var zero T
	m, err := inv.Descriptor(spec)
	if err != nil {
		return zero, err
	}
	v, err := inv.call(ctx, m, args)
	if err != nil {
		return zero, err
	}
	return castResult[T](m.Name, v)
}

// FutureCall implements the FUTURE<T> return-shape adapter: return
// immediately with a Future that resolves to the typed value once the
// pipeline and response handler finish.
func FutureCall[T any](ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) *Future[T] {
	m, err := inv.Descriptor(spec)
	if err != nil {
		return failedFuture[T](ctx, err)
	}
	return newFuture(ctx, func() (T, error) {
		v, err := inv.call(ctx, m, args)
		if err != nil {
			var zero T
			return zero, err
		}
		return castResult[T](m.Name, v)
	})
}

// CompletionOnly implements the COMPLETION-ONLY return-shape adapter: a
// future that completes once the response is fully consumed, discarding
// its value.
func CompletionOnly(ctx context.Context, inv *Invoker, spec descriptor.Spec, args...any) *Future[struct{}] {
	m, err := inv.Descriptor(spec)
	if err != nil {
		return failedFuture[struct{}](ctx, err)
	}
	return newFuture(ctx, func() (struct{}, error) {
		_, err := inv.call(ctx, m, args)
		return struct{}{}, err
	})
}

func failedFuture[T any](ctx context.Context, err error) *Future[T] {
	return newFuture(ctx, func() (T, error) {
		var zero T
		return zero, err
	})
}

// castResult asserts v (the response handler's any-typed result) into
// T. A mismatch means a Spec's Result entity tree disagrees with the
// type parameter its call site declared — a MalformedInterface bug in
// the service binding, not a runtime/data error.
func castResult[T any](method string, v any) (T, error) {
	var zero T
	if v == nil {
		return zero, nil
	}
	if t, ok := v.(T); ok {
		return t, nil
	}
	return zero, retrofiterr.New(retrofiterr.MalformedInterface, method,
		"response handler result type does not match the call site's declared type parameter")
}
