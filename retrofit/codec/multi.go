package codec

import (
	"fmt"
	"reflect"
)

// Multi implements the full Codec contract by dispatching to a JSON and
// an XML codec depending on the requested encoding. This is the Codec the
// engine wires by default; JSONCodec and XMLCodec individually only
// handle one encoding each and exist mainly so each format's
// implementation can be swapped independently.
type Multi struct {
	JSON Codec
	XML  Codec
}

// NewMulti returns the default dual-encoding Codec: goccy/go-json for
// JSON, encoding/xml for XML.
func NewMulti() *Multi {
	return &Multi{JSON: NewJSONCodec(), XML: NewXMLCodec()}
}

func (m *Multi) Serialize(value any, encoding Encoding) (string, error) {
	switch encoding {
	case JSON:
		return m.JSON.Serialize(value, JSON)
	case XML:
		return m.XML.Serialize(value, XML)
	default:
		return "", fmt.Errorf("codec: unsupported encoding %v", encoding)
	}
}

func (m *Multi) Deserialize(text string, t reflect.Type, encoding Encoding) (any, error) {
	switch encoding {
	case JSON:
		return m.JSON.Deserialize(text, t, JSON)
	case XML:
		return m.XML.Deserialize(text, t, XML)
	default:
		return nil, fmt.Errorf("codec: unsupported encoding %v", encoding)
	}
}
