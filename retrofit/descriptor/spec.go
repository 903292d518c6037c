// Package descriptor implements the method descriptor subsystem: the
// annotation-equivalent Spec/Builder vocabulary, the immutable Method it
// compiles into, and a process-wide cache keyed by method identity. Go
// has no interface-method annotations, so a Spec plays the role a method
// annotation would play elsewhere — it is built once per method, usually
// as a package-level var next to the hand-written method body that
// invokes it.
package descriptor

import (
	"reflect"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// ParamKind tags which binding a parameter carries.
type ParamKind int

const (
	ParamPath ParamKind = iota
	ParamQuery
	ParamHeader
	ParamBody
	ParamHostSub
)

// Param is one parameter binding in descriptor order, equivalent to a
// PATH-PARAM/QUERY-PARAM/HEADER-PARAM/HEADER-LITERAL/BODY annotation.
type Param struct {
	Kind ParamKind
	// Name is the path placeholder, query key, or header name. Unused for Body.
	Name string
	// ArgIndex is the position in the invocation argument vector this
	// binding reads from. Ignored when Literal is true.
	ArgIndex int
	// PreEncoded marks the bound value as already percent-encoded.
	PreEncoded bool
	// Literal marks a HEADER-LITERAL binding: a constant value rather than
	// an argument-sourced one.
	Literal      bool
	LiteralValue string
}

// PathParam declares a PATH binding.
func PathParam(name string, argIndex int, preEncoded bool) Param {
	return Param{Kind: ParamPath, Name: name, ArgIndex: argIndex, PreEncoded: preEncoded}
}

// QueryParam declares a QUERY binding.
func QueryParam(name string, argIndex int, preEncoded bool) Param {
	return Param{Kind: ParamQuery, Name: name, ArgIndex: argIndex, PreEncoded: preEncoded}
}

// HeaderParam declares a HEADER binding sourced from an argument.
func HeaderParam(name string, argIndex int) Param {
	return Param{Kind: ParamHeader, Name: name, ArgIndex: argIndex}
}

// HeaderLiteral declares a HEADER-LITERAL binding: a constant header value
// attached to every call of the method.
func HeaderLiteral(name, value string) Param {
	return Param{Kind: ParamHeader, Name: name, Literal: true, LiteralValue: value}
}

// HostSub declares a HOST-SUBSTITUTION binding for a templated host.
func HostSub(name string, argIndex int, preEncoded bool) Param {
	return Param{Kind: ParamHostSub, Name: name, ArgIndex: argIndex, PreEncoded: preEncoded}
}

// BodyParam declares the (at most one) BODY binding.
func BodyParam(argIndex int) Param {
	return Param{Kind: ParamBody, ArgIndex: argIndex}
}

// ErrorSpec is the UNEXPECTED-RESPONSE-EXCEPTION annotation: an error kind
// tag and the body schema to instantiate it from.
type ErrorSpec struct {
	Kind string
	Body reflect.Type
}

// DefaultExpectedStatuses is the default EXPECTED-RESPONSES set.
var DefaultExpectedStatuses = []int{200, 201, 202, 204}

// Spec is the full annotation-equivalent description of one service
// method, built once (typically as a package-level var) and compiled by
// Build into an immutable Method.
type Spec struct {
	Name   string // fully-qualified diagnostic name, e.g. "PetStoreService.GetPet"
	Verb   string
	Scheme string // "" means "use the client's configured scheme"
	Host   string // may contain {name} tokens; "" means "use the client's configured host"
	Path   string // contains {name} placeholders

	Params []Param

	BodyContentType string // explicit BODY content-type annotation, "" if none

	ExpectedStatuses []int // EXPECTED-RESPONSES; DefaultExpectedStatuses if nil
	Error            *ErrorSpec

	Return retrofittypes.ReturnShape
	Result *retrofittypes.Entity // RETURN-VALUE-WIRE-TYPE is encoded on the relevant Entity node
}
