package invoke

import (
	"context"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
)

// Future is the engine's single-value asynchronous primitive, a
// task/promise/channel-of-one backing the FUTURE<T>
// and COMPLETION-ONLY return shapes. A Future always completes exactly
// once; Get may be called any number of times and by any number of
// goroutines.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

// newFuture starts fn on its own goroutine and returns a Future that
// resolves to its result. fn must itself respect ctx cancellation (the
// pipeline and transport do), so cancelling ctx both unblocks Get and
// lets fn's in-flight work observe the cancellation.
func newFuture[T any](ctx context.Context, fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		f.value, f.err = fn()
		close(f.done)
	}()
	return f
}

// Get blocks until the future resolves or ctx is cancelled, whichever
// comes first.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, retrofiterr.Wrap(retrofiterr.Cancelled, "", "waiting for future", ctx.Err())
	}
}

// Done reports whether the future has resolved without blocking.
func (f *Future[T]) Done() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
