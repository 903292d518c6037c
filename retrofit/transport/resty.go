package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
	"resty.dev/v3"
)

// RestyTransport is the default Transport, backed by resty.dev/v3. It
// natively supports every verb the engine emits, including PATCH, so
// PatchUnsupported always reports false.
type RestyTransport struct {
	client *resty.Client
}

// NewRestyTransport wraps an existing *resty.Client. Retries, cookies,
// and auth are NOT configured here — those are the policy pipeline's
// responsibility; this transport is the innermost node only.
func NewRestyTransport(client *resty.Client) *RestyTransport {
	return &RestyTransport{client: client}
}

func (t *RestyTransport) PatchUnsupported() bool { return false }

func (t *RestyTransport) Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
	r := t.client.R().SetContext(ctx)

	req.Headers.Range(func(name, value string) {
		r.SetHeader(name, value)
	})

	closer, err := attachBody(r, req.Body)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	resp, err := r.Execute(req.Verb, req.URL)
	if err != nil {
		if ctx.Err() != nil {
			return nil, retrofiterr.Wrap(retrofiterr.Cancelled, req.Label, "request cancelled", ctx.Err())
		}
		return nil, retrofiterr.Wrap(retrofiterr.TransportIO, req.Label, fmt.Sprintf("%s %s failed", req.Verb, req.URL), err)
	}

	return toResponse(resp, req.Label), nil
}

// attachBody sets req's body and Content-Type on r. For a
// FileSegmentBody it returns the opened file as an io.Closer so the
// caller can close it once the request has been sent.
func attachBody(r *resty.Request, body retrofittypes.Body) (io.Closer, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case retrofittypes.BytesBody:
		r.SetHeader("Content-Type", b.Type)
		r.SetBody(b.Data)
	case retrofittypes.TextBody:
		r.SetHeader("Content-Type", b.Type)
		r.SetBody(b.Text)
	case retrofittypes.FileSegmentBody:
		f, err := os.Open(b.Path)
		if err != nil {
			return nil, retrofiterr.Wrap(retrofiterr.TransportIO, "", "opening file segment body", err)
		}
		if _, err := f.Seek(b.Offset, io.SeekStart); err != nil {
			f.Close()
			return nil, retrofiterr.Wrap(retrofiterr.TransportIO, "", "seeking file segment body", err)
		}
		r.SetHeader("Content-Type", b.Type)
		r.SetBody(io.LimitReader(f, b.Length))
		return f, nil
	}
	return nil, nil
}

func toResponse(resp *resty.Response, label string) *retrofittypes.Response {
	headers := retrofittypes.NewHeaders()
	for name, values := range resp.Header() {
		if name == "" {
			// response headers with null names (status-line
			// pseudo-header on some transports) are discarded.
			continue
		}
		for _, v := range values {
			headers.Add(name, v)
		}
	}
	raw := []byte(resp.String())
	return retrofittypes.NewResponse(resp.StatusCode(), headers, label, func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(raw)), nil
	})
}
