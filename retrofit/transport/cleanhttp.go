package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// CleanHTTPTransport is a raw net/http Transport built on
// hashicorp/go-cleanhttp's pooled-transport constructor, which avoids the
// shared-mutable-state pitfalls of http.DefaultTransport (connection
// pollution across callers, proxy env var caching). It deliberately does
// not support PATCH natively, exercising the request rewrite rule from
// PATCH rewrite.
type CleanHTTPTransport struct {
	client *http.Client
}

// NewCleanHTTPTransport returns a Transport using go-cleanhttp's pooled
// client as the RoundTripper.
func NewCleanHTTPTransport() *CleanHTTPTransport {
	return &CleanHTTPTransport{client: cleanhttp.DefaultPooledClient()}
}

func (t *CleanHTTPTransport) PatchUnsupported() bool { return true }

func (t *CleanHTTPTransport) Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
	verb := req.Verb
	headers := req.Headers.Clone()
	if verb == http.MethodPatch {
		verb = http.MethodPost
		headers.Set("X-HTTP-Method-Override", "PATCH")
	}

	var bodyReader io.Reader
	var closer io.Closer
	if req.Body != nil {
		r, c, err := bodyToReader(req.Body)
		if err != nil {
			return nil, err
		}
		bodyReader = r
		closer = c
	}
	if closer != nil {
		defer closer.Close()
	}

	httpReq, err := http.NewRequestWithContext(ctx, verb, req.URL, bodyReader)
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.TransportIO, req.Label, "building HTTP request", err)
	}
	headers.Range(func(name, value string) { httpReq.Header.Set(name, value) })

	resp, err := t.client.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retrofiterr.Wrap(retrofiterr.Cancelled, req.Label, "request cancelled", ctx.Err())
		}
		return nil, retrofiterr.Wrap(retrofiterr.TransportIO, req.Label, fmt.Sprintf("%s %s failed", req.Verb, req.URL), err)
	}

	out := retrofittypes.NewHeaders()
	for name, values := range resp.Header {
		if name == "" {
			continue
		}
		for _, v := range values {
			out.Add(name, v)
		}
	}

	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.TransportIO, req.Label, "reading response body", err)
	}

	return retrofittypes.NewResponse(resp.StatusCode, out, req.Label, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(body)), nil
	}), nil
}

func bodyToReader(body retrofittypes.Body) (io.Reader, io.Closer, error) {
	switch b := body.(type) {
	case retrofittypes.BytesBody:
		return bytes.NewReader(b.Data), nil, nil
	case retrofittypes.TextBody:
		return bytes.NewReader([]byte(b.Text)), nil, nil
	case retrofittypes.FileSegmentBody:
		f, err := os.Open(b.Path)
		if err != nil {
			return nil, nil, retrofiterr.Wrap(retrofiterr.TransportIO, "", "opening file segment body", err)
		}
		if _, err := f.Seek(b.Offset, io.SeekStart); err != nil {
			f.Close()
			return nil, nil, retrofiterr.Wrap(retrofiterr.TransportIO, "", "seeking file segment body", err)
		}
		return io.LimitReader(f, b.Length), f, nil
	default:
		return nil, nil, nil
	}
}
