// Package response implements the response handler subsystem: status
// gating, type-directed entity extraction, wire-type remapping, and
// status+headers+body envelope assembly.
package response

import (
	"encoding/base64"
	"fmt"
	"reflect"
	"time"

	"github.com/deploymenttheory/go-retrofit/retrofit/codec"
	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// Handler drives a materialized Response through the three stages of
// Returns the caller-visible value for a SYNC/FUTURE
// return shape, or an error of the engine's taxonomy.
type Handler struct {
	Codec codec.Codec
}

func New(c codec.Codec) *Handler {
	return &Handler{Codec: c}
}

// Handle implements Stage 1 (status gate), Stage 2 (entity extraction,
// including Stage 2.1 wire-type remapping), and Stage 3 (envelope
// assembly) against resp, using m's descriptor metadata.
func (h *Handler) Handle(m *descriptor.Method, resp *retrofittypes.Response) (any, error) {
	if !m.IsExpected(resp.StatusCode) {
		return nil, h.statusError(m, resp)
	}

	if m.Result == nil || m.Result.Kind == retrofittypes.EntityVoid {
		return nil, nil
	}

	if m.Result.Kind == retrofittypes.EntityEnvelope {
		return h.assembleEnvelope(m, resp)
	}

	return h.extractEntity(m.Name, m.Result, resp)
}

// statusError implements Stage 1: materialize the body as text and
// construct a typed UnexpectedStatus error, falling back to a generic
// TransportIO error if the body can't be deserialized against the
// descriptor's declared error schema.
func (h *Handler) statusError(m *descriptor.Method, resp *retrofittypes.Response) error {
	text, err := resp.Text()
	if err != nil {
		return retrofiterr.Wrap(retrofiterr.TransportIO, m.Name, "reading error response body", err)
	}

	e := &retrofiterr.Error{
		Kind:       retrofiterr.UnexpectedStatus,
		Method:     m.Name,
		Message:    fmt.Sprintf("unexpected status %d", resp.StatusCode),
		StatusCode: resp.StatusCode,
		Body:       []byte(text),
	}

	if text == "" {
		return e
	}
	if m.Error == nil || m.Error.Body == nil {
		return e
	}

	enc, _ := codec.EncodingFromContentType(resp.Headers.Get("Content-Type"))
	typed, derr := h.Codec.Deserialize(text, m.Error.Body, enc)
	if derr != nil {
		return retrofiterr.Wrap(retrofiterr.TransportIO, m.Name,
			fmt.Sprintf("unexpected status %d, body could not be deserialized as %s: %s", resp.StatusCode, m.Error.Kind, text), derr)
	}
	e.TypedBody = typed
	return e
}

// extractEntity implements Stage 2: select behavior by the entity's
// kind, dispatching to wire-type remapping (Stage 2.1) for opaque,
// list, map, bytes, and datetime shapes.
func (h *Handler) extractEntity(method string, e *retrofittypes.Entity, resp *retrofittypes.Response) (any, error) {
	switch e.Kind {
	case retrofittypes.EntityVoid:
		return nil, nil

	case retrofittypes.EntityBool:
		// HEAD-with-boolean-result: success range
		// encodes "true", any other expected status (e.g. 404 added to
		// the expected set deliberately) encodes "false".
		return resp.StatusCode >= 200 && resp.StatusCode < 300, nil

	case retrofittypes.EntityStream:
		return resp.Stream()

	case retrofittypes.EntityChunkSeq:
		return resp.Chunks(), nil

	case retrofittypes.EntityBytes:
		if e.WireType == retrofittypes.WireBase64URL {
			text, err := resp.Text()
			if err != nil {
				return nil, retrofiterr.Wrap(retrofiterr.TransportIO, method, "reading response body", err)
			}
			enc, _ := codec.EncodingFromContentType(resp.Headers.Get("Content-Type"))
			return h.deserializeWithRemap(method, e, text, enc)
		}
		raw, err := resp.Bytes()
		if err != nil {
			return nil, retrofiterr.Wrap(retrofiterr.TransportIO, method, "reading response body", err)
		}
		return raw, nil

	default:
		text, err := resp.Text()
		if err != nil {
			return nil, retrofiterr.Wrap(retrofiterr.TransportIO, method, "reading response body", err)
		}
		enc, _ := codec.EncodingFromContentType(resp.Headers.Get("Content-Type"))
		return h.deserializeWithRemap(method, e, text, enc)
	}
}

// decodeBase64URLText decodes text, the string already produced by
// deserializing the wire body into its base64url string carrier, into
// raw bytes. Both the top-level and nested paths call this only after
// that deserialization step, so text never still carries its
// surrounding JSON quoting.
func decodeBase64URLText(method, text string) ([]byte, error) {
	decoded, err := base64.URLEncoding.WithPadding(base64.NoPadding).DecodeString(text)
	if err != nil {
		if alt, altErr := base64.URLEncoding.DecodeString(text); altErr == nil {
			return alt, nil
		}
		return nil, retrofiterr.Wrap(retrofiterr.Serialization, method, "decoding base64url body", err)
	}
	return decoded, nil
}

// assembleEnvelope implements Stage 3: deserialize the body slot via
// extractEntity, deserialize the headers slot (skipped when its type is
// void), and assemble the (status, typedHeaders, rawHeaders, typedBody)
// record. The engine represents Envelope[H, B] generically
// (retrofittypes.Envelope), so this returns an *EnvelopeResult whose
// any-typed slots invoke's generic adapter assigns into the caller's
// concrete Envelope[H, B].
func (h *Handler) assembleEnvelope(m *descriptor.Method, resp *retrofittypes.Response) (any, error) {
	var typedBody any
	var err error
	if m.Result.Body != nil && m.Result.Body.Kind != retrofittypes.EntityVoid {
		typedBody, err = h.extractEntity(m.Name, m.Result.Body, resp)
		if err != nil {
			return nil, err
		}
	}

	var typedHeaders any
	if m.Result.Headers != nil && m.Result.Headers.Kind != retrofittypes.EntityVoid {
		typedHeaders, err = h.deserializeHeaders(m.Name, m.Result.Headers, resp.Headers)
		if err != nil {
			return nil, err
		}
	}

	return &EnvelopeResult{
		Status:       resp.StatusCode,
		TypedHeaders: typedHeaders,
		RawHeaders:   resp.Headers,
		TypedBody:    typedBody,
	}, nil
}

// EnvelopeResult is the handler's untyped envelope carrier; invoke
// converts it into the caller's concrete retrofittypes.Envelope[H, B].
type EnvelopeResult struct {
	Status       int
	TypedHeaders any
	RawHeaders   *retrofittypes.Headers
	TypedBody    any
}

// deserializeHeaders re-serializes the raw header map as a JSON
// dictionary and deserializes it into the declared headers type:
// typed-headers is produced by re-serializing the raw header map
// as a JSON-like dictionary and deserializing into the declared headers
// type").
func (h *Handler) deserializeHeaders(method string, e *retrofittypes.Entity, headers *retrofittypes.Headers) (any, error) {
	if e.Go == nil {
		return nil, retrofiterr.New(retrofiterr.MalformedInterface, method, "envelope headers entity has no Go type")
	}
	asMap := headers.AsMap()
	text, err := h.Codec.Serialize(asMap, codec.JSON)
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.Serialization, method, "re-serializing response headers", err)
	}
	return h.Codec.Deserialize(text, e.Go, codec.JSON)
}

// deserializeWithRemap implements Stage 2.1: decode text into the
// wire-carrier shape of e, then convert the decoded value to e's
// caller-visible shape. When no node in e's subtree declares a wire
// type, the carrier shape equals the result shape and the decoded value
// is returned unchanged.
func (h *Handler) deserializeWithRemap(method string, e *retrofittypes.Entity, text string, enc codec.Encoding) (any, error) {
	carrierType := carrierGoType(e)
	decoded, err := h.Codec.Deserialize(text, carrierType, enc)
	if err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.Serialization, method, "deserializing response body", err)
	}

	if !hasWire(e) {
		return decoded, nil
	}

	val := reflect.ValueOf(decoded)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	remapped, err := remap(method, e, val)
	if err != nil {
		return nil, err
	}
	return remapped.Interface(), nil
}

// hasWire reports whether e or any descendant in its subtree carries a
// non-identity wire type.
func hasWire(e *retrofittypes.Entity) bool {
	switch e.Kind {
	case retrofittypes.EntityBytes, retrofittypes.EntityDateTime:
		return e.WireType != retrofittypes.WireNone
	case retrofittypes.EntityList, retrofittypes.EntityMap:
		return hasWire(e.Elem)
	case retrofittypes.EntityEnvelope:
		return e.Body != nil && hasWire(e.Body)
	default:
		return false
	}
}

// entityGoType returns the caller-visible Go type for e (the result of
// a fully remapped deserialization).
func entityGoType(e *retrofittypes.Entity) reflect.Type {
	switch e.Kind {
	case retrofittypes.EntityBytes:
		return reflect.TypeOf([]byte(nil))
	case retrofittypes.EntityDateTime:
		return reflect.TypeOf(time.Time{})
	case retrofittypes.EntityBool:
		return reflect.TypeOf(false)
	case retrofittypes.EntityList:
		return reflect.SliceOf(entityGoType(e.Elem))
	case retrofittypes.EntityMap:
		return reflect.MapOf(reflect.TypeOf(""), entityGoType(e.Elem))
	case retrofittypes.EntityOpaque:
		return e.Go
	default:
		return e.Go
	}
}

// carrierGoType returns the on-the-wire Go type to decode into: the
// entity's declared wire-carrier type where a wire type is present,
// recursing through List/Map/Envelope exactly as the remap table in
// the remap table describes.
func carrierGoType(e *retrofittypes.Entity) reflect.Type {
	switch e.Kind {
	case retrofittypes.EntityBytes:
		if e.WireType == retrofittypes.WireBase64URL {
			return reflect.TypeOf("")
		}
		return reflect.TypeOf([]byte(nil))
	case retrofittypes.EntityDateTime:
		switch e.WireType {
		case retrofittypes.WireRFC1123:
			return reflect.TypeOf("")
		case retrofittypes.WireUnixEpoch:
			return reflect.TypeOf(int64(0))
		default:
			return reflect.TypeOf(time.Time{})
		}
	case retrofittypes.EntityList:
		return reflect.SliceOf(carrierGoType(e.Elem))
	case retrofittypes.EntityMap:
		return reflect.MapOf(reflect.TypeOf(""), carrierGoType(e.Elem))
	case retrofittypes.EntityEnvelope:
		if e.Body != nil {
			return carrierGoType(e.Body)
		}
		return reflect.TypeOf((*any)(nil)).Elem()
	default:
		return entityGoType(e)
	}
}

// remap converts a decoded carrier value into e's caller-visible shape
//, recursing through list/map elements and
// the envelope body slot.
func remap(method string, e *retrofittypes.Entity, carrier reflect.Value) (reflect.Value, error) {
	switch e.Kind {
	case retrofittypes.EntityBytes:
		if e.WireType == retrofittypes.WireBase64URL {
			decoded, err := decodeBase64URLText(method, carrier.String())
			if err != nil {
				return reflect.Value{}, err
			}
			return reflect.ValueOf(decoded), nil
		}
		return carrier, nil

	case retrofittypes.EntityDateTime:
		switch e.WireType {
		case retrofittypes.WireRFC1123:
			t, err := time.Parse(time.RFC1123, carrier.String())
			if err != nil {
				return reflect.Value{}, retrofiterr.Wrap(retrofiterr.Serialization, method, "parsing RFC1123 datetime", err)
			}
			return reflect.ValueOf(t), nil
		case retrofittypes.WireUnixEpoch:
			return reflect.ValueOf(time.Unix(carrier.Int(), 0).UTC()), nil
		default:
			return carrier, nil
		}

	case retrofittypes.EntityList:
		out := reflect.MakeSlice(reflect.SliceOf(entityGoType(e.Elem)), carrier.Len(), carrier.Len())
		for i := 0; i < carrier.Len(); i++ {
			v, err := remap(method, e.Elem, carrier.Index(i))
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(v)
		}
		return out, nil

	case retrofittypes.EntityMap:
		out := reflect.MakeMapWithSize(reflect.MapOf(reflect.TypeOf(""), entityGoType(e.Elem)), carrier.Len())
		iter := carrier.MapRange()
		for iter.Next() {
			v, err := remap(method, e.Elem, iter.Value())
			if err != nil {
				return reflect.Value{}, err
			}
			out.SetMapIndex(iter.Key(), v)
		}
		return out, nil

	default:
		return carrier, nil
	}
}
