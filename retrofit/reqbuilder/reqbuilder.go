// Package reqbuilder implements the request builder subsystem: it
// materializes a method descriptor plus a positional argument vector
// into a concrete retrofittypes.Request.
package reqbuilder

import (
	"fmt"
	"strings"

	"github.com/deploymenttheory/go-retrofit/retrofit/codec"
	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
	"github.com/deploymenttheory/go-retrofit/retrofit/urlbuilder"
)

// Builder materializes requests from descriptors and call arguments. One
// Builder is shared across every call on a client; it holds no per-call
// state.
type Builder struct {
	Codec         codec.Codec
	DefaultScheme string
	DefaultHost   string
	// BasePath is prefixed onto every descriptor's Path, e.g. to scope
	// calls under a tenant or workspace segment.
	BasePath string
}

// New returns a Builder that serializes non-opaque bodies with c and
// falls back to defaultHost/defaultScheme for descriptors that don't
// declare their own host.
func New(c codec.Codec, defaultScheme, defaultHost string) *Builder {
	return &Builder{Codec: c, DefaultScheme: defaultScheme, DefaultHost: defaultHost}
}

// Build assembles a request from m using args, the
// invocation's positional argument vector (descriptor ArgIndex values
// index into this slice).
func (b *Builder) Build(m *descriptor.Method, args []any) (*retrofittypes.Request, error) {
	host := m.Host
	if host == "" {
		host = b.DefaultHost
	}
	scheme := m.Scheme
	if scheme == "" {
		scheme = b.DefaultScheme
	}

	// Step 1: host + path substitution.
	for _, p := range m.Params {
		if p.Kind != descriptor.ParamHostSub {
			continue
		}
		v, err := argString(m.Name, p, args)
		if err != nil {
			return nil, err
		}
		host = strings.ReplaceAll(host, "{"+p.Name+"}", urlbuilder.EncodePathSegment(v, p.PreEncoded))
	}

	path := b.BasePath + m.Path
	for _, p := range m.Params {
		if p.Kind != descriptor.ParamPath {
			continue
		}
		v, err := argString(m.Name, p, args)
		if err != nil {
			return nil, err
		}
		path = strings.ReplaceAll(path, "{"+p.Name+"}", urlbuilder.EncodePathSegment(v, p.PreEncoded))
	}

	ub := urlbuilder.New(scheme, host, path)

	// Step 2: query bindings, skipping nil values.
	for _, p := range m.Params {
		if p.Kind != descriptor.ParamQuery {
			continue
		}
		raw := args[p.ArgIndex]
		if raw == nil {
			continue
		}
		v, err := argString(m.Name, p, args)
		if err != nil {
			return nil, err
		}
		ub.AddQuery(p.Name, v, p.PreEncoded)
	}

	// Step 3: header bindings in declarative order, later duplicates overwrite.
	headers := retrofittypes.NewHeaders()
	for _, p := range m.Params {
		if p.Kind != descriptor.ParamHeader {
			continue
		}
		if p.Literal {
			headers.Set(p.Name, p.LiteralValue)
			continue
		}
		v, err := argString(m.Name, p, args)
		if err != nil {
			return nil, err
		}
		headers.Set(p.Name, v)
	}

	var body retrofittypes.Body
	if m.BodyParam != nil {
		rawBody := args[m.BodyParam.ArgIndex]

		// Step 4: resolve Content-Type by precedence.
		contentType := resolveContentType(m.BodyContentType, headers.Get("Content-Type"), rawBody)
		headers.Set("Content-Type", contentType)

		// Step 5/6: pick an encoding and encode.
		encoded, err := b.encodeBody(m.Name, rawBody, contentType)
		if err != nil {
			return nil, err
		}
		body = encoded
	}

	return &retrofittypes.Request{
		Verb:    m.Verb,
		URL:     ub.Build(),
		Headers: headers,
		Body:    body,
		Label:   m.Name,
	}, nil
}

// resolveContentType implements the content-type precedence table:
// explicit annotation > existing Content-Type header > value-inferred.
func resolveContentType(annotated, existingHeader string, body any) string {
	if annotated != "" {
		return annotated
	}
	if existingHeader != "" {
		return existingHeader
	}
	switch body.(type) {
	case []byte, string, retrofittypes.FileSegmentBody:
		return "application/octet-stream"
	default:
		return "application/json"
	}
}

func (b *Builder) encodeBody(method string, raw any, contentType string) (retrofittypes.Body, error) {
	switch v := raw.(type) {
	case retrofittypes.FileSegmentBody:
		if v.Type == "" {
			v.Type = contentType
		}
		return v, nil
	case []byte:
		return retrofittypes.BytesBody{Data: v, Type: contentType}, nil
	case string:
		if v == "" {
			// empty text body must be suppressed, not transmitted.
			return nil, nil
		}
		return retrofittypes.TextBody{Text: v, Type: contentType}, nil
	case nil:
		return nil, nil
	default:
		enc, ok := codec.EncodingFromContentType(contentType)
		if !ok {
			return nil, retrofiterr.New(retrofiterr.Serialization, method,
				fmt.Sprintf("cannot encode body of type %T: content-type %q is neither JSON nor XML", raw, contentType))
		}
		text, err := b.Codec.Serialize(raw, enc)
		if err != nil {
			return nil, retrofiterr.Wrap(retrofiterr.Serialization, method, "serializing request body", err)
		}
		return retrofittypes.TextBody{Text: text, Type: contentType}, nil
	}
}

func argString(method string, p descriptor.Param, args []any) (string, error) {
	if p.ArgIndex < 0 || p.ArgIndex >= len(args) {
		return "", retrofiterr.New(retrofiterr.MalformedInterface, method,
			fmt.Sprintf("binding for %q references out-of-range argument %d", p.Name, p.ArgIndex))
	}
	return fmt.Sprint(args[p.ArgIndex]), nil
}
