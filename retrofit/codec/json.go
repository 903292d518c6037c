package codec

import (
	"fmt"
	"reflect"

	gojson "github.com/goccy/go-json"
)

// JSONCodec implements Codec using goccy/go-json, a drop-in faster
// encoding/json replacement already exercised elsewhere in the pack
// (kroma-labs-sentinel-go). It is the engine's default codec.
type JSONCodec struct{}

// NewJSONCodec returns a JSON Codec backed by goccy/go-json.
func NewJSONCodec() *JSONCodec { return &JSONCodec{} }

func (c *JSONCodec) Serialize(value any, encoding Encoding) (string, error) {
	if encoding != JSON {
		return "", fmt.Errorf("codec: JSONCodec cannot serialize encoding %v", encoding)
	}
	b, err := gojson.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("codec: json serialize: %w", err)
	}
	return string(b), nil
}

func (c *JSONCodec) Deserialize(text string, t reflect.Type, encoding Encoding) (any, error) {
	if encoding != JSON {
		return nil, fmt.Errorf("codec: JSONCodec cannot deserialize encoding %v", encoding)
	}
	ptr := reflect.New(t)
	if err := gojson.Unmarshal([]byte(text), ptr.Interface()); err != nil {
		return nil, fmt.Errorf("codec: json deserialize into %s: %w", t.String(), err)
	}
	return ptr.Elem().Interface(), nil
}
