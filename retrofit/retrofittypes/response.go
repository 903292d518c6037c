package retrofittypes

import (
	"bytes"
	"io"
	"iter"
	"sync"
)

// Opener lazily opens the response body's underlying byte stream. The
// transport supplies this rather than the materialized bytes so that the
// response can be constructed before the body is read.
type Opener func() (io.ReadCloser, error)

// Response is the engine's transport-agnostic HTTP response: a status
// code, a case-insensitive header map, and a deferred body accessor
// offering the four projections (raw bytes, decoded text,
// input-byte-stream, lazy chunked sequence). Every projection is derived
// from a single memoized read of the underlying stream, so the body is
// read from the wire at most once per response regardless of how many
// projections a caller requests.
type Response struct {
	StatusCode int
	Headers    *Headers
	Label      string

	once   sync.Once
	opener Opener
	buf    []byte
	err    error
}

// NewResponse constructs a Response whose body is read from opener on
// first demand.
func NewResponse(statusCode int, headers *Headers, label string, opener Opener) *Response {
	return &Response{StatusCode: statusCode, Headers: headers, Label: label, opener: opener}
}

func (r *Response) materialize() ([]byte, error) {
	r.once.Do(func() {
		if r.opener == nil {
			return
		}
		rc, err := r.opener()
		if err != nil {
			r.err = err
			return
		}
		defer rc.Close()
		r.buf, r.err = io.ReadAll(rc)
	})
	return r.buf, r.err
}

// Bytes returns the fully materialized response body.
func (r *Response) Bytes() ([]byte, error) {
	return r.materialize()
}

// Text returns the response body decoded as UTF-8 text.
func (r *Response) Text() (string, error) {
	b, err := r.materialize()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// Stream returns an io.ReadCloser over the materialized body. Because the
// underlying stream is memoized, this never re-reads the wire; it always
// re-emits the buffered bytes, a non-streaming fallback for transports
// that don't expose a live reader.
func (r *Response) Stream() (io.ReadCloser, error) {
	b, err := r.materialize()
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

// Chunks returns a lazy sequence over the response body. Non-streaming
// transports (the only kind this engine targets)
// satisfy this by emitting the whole materialized buffer as one chunk.
func (r *Response) Chunks() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		b, err := r.materialize()
		if err != nil {
			yield(nil, err)
			return
		}
		if len(b) == 0 {
			return
		}
		yield(b, nil)
	}
}

// RateLimit extracts the common rate-limit/quota header quartet a service
// may expose.
func (r *Response) RateLimit() (limit, remaining, reset, retryAfter string) {
	if r == nil || r.Headers == nil {
		return
	}
	return r.Headers.Get("X-RateLimit-Limit"),
		r.Headers.Get("X-RateLimit-Remaining"),
		r.Headers.Get("X-RateLimit-Reset"),
		r.Headers.Get("Retry-After")
}
