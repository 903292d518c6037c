// Package codec serializes and deserializes between wire text and Go
// values, plus a type factory that builds container types like
// list<Base64URLCarrier> from list<[]byte>. The response handler's
// wire-type remapping builds its container types with reflect.SliceOf/
// reflect.MapOf directly and does not call the type factory.
package codec

import "reflect"

// Encoding selects which wire format Serialize/Deserialize use.
type Encoding int

const (
	JSON Encoding = iota
	XML
)

// Codec is the engine's serialization contract. Implementations
// must be safe for concurrent use — the engine shares one Codec across
// every call on a generated binding.
type Codec interface {
	// Serialize renders value as wire text in the given encoding.
	Serialize(value any, encoding Encoding) (string, error)
	// Deserialize parses text as the given encoding into a new value of
	// type t, returning it as an any holding a pointer-free value of t
	// (or a pointer, for pointer t).
	Deserialize(text string, t reflect.Type, encoding Encoding) (any, error)
}

// TypeFactory constructs parameterized container types at runtime, e.g.
// list<Carrier> from list<Result>.
type TypeFactory interface {
	// ListOf returns the reflect.Type for a slice of elem.
	ListOf(elem reflect.Type) reflect.Type
	// MapOf returns the reflect.Type for a map[string]elem.
	MapOf(elem reflect.Type) reflect.Type
}

type reflectTypeFactory struct{}

// NewTypeFactory returns the default TypeFactory, built directly on
// reflect.SliceOf/reflect.MapOf.
func NewTypeFactory() TypeFactory { return reflectTypeFactory{} }

func (reflectTypeFactory) ListOf(elem reflect.Type) reflect.Type {
	return reflect.SliceOf(elem)
}

func (reflectTypeFactory) MapOf(elem reflect.Type) reflect.Type {
	return reflect.MapOf(reflect.TypeOf(""), elem)
}
