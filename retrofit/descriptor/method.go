package descriptor

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// Method is the immutable, cached per-method plan. Once built it
// never changes; concurrent callers share the same *Method safely.
type Method struct {
	Name string
	Verb string

	Scheme string
	Host   string
	Path   string

	Params    []Param
	BodyParam *Param

	BodyContentType string

	ExpectedStatuses map[int]bool
	Error            *ErrorSpec

	Return retrofittypes.ReturnShape
	Result *retrofittypes.Entity
}

var pathPlaceholder = regexp.MustCompile(`\{([^{}]+)\}`)

// Build compiles a Spec into an immutable Method, enforcing the
// parse-time invariants:
//   - every "{name}" in the path template has exactly one PATH binding
//   - at most one BODY binding
//   - the return shape is recognized
func Build(spec Spec) (*Method, error) {
	if spec.Verb == "" {
		return nil, malformed(spec.Name, "missing HTTP verb")
	}

	scheme := spec.Scheme

	pathNames := map[string]bool{}
	for _, m := range pathPlaceholder.FindAllStringSubmatch(spec.Path, -1) {
		pathNames[m[1]] = false
	}

	var bodyParam *Param
	for i, p := range spec.Params {
		switch p.Kind {
		case ParamPath:
			if _, ok := pathNames[p.Name]; !ok {
				return nil, malformed(spec.Name, fmt.Sprintf("PATH binding %q has no matching placeholder in path %q", p.Name, spec.Path))
			}
			if pathNames[p.Name] {
				return nil, malformed(spec.Name, fmt.Sprintf("duplicate PATH binding for %q", p.Name))
			}
			pathNames[p.Name] = true
		case ParamBody:
			if bodyParam != nil {
				return nil, malformed(spec.Name, "duplicate BODY binding")
			}
			bp := spec.Params[i]
			bodyParam = &bp
		}
	}
	for name, bound := range pathNames {
		if !bound {
			return nil, malformed(spec.Name, fmt.Sprintf("unresolved path placeholder {%s}", name))
		}
	}

	expected := spec.ExpectedStatuses
	if len(expected) == 0 {
		expected = DefaultExpectedStatuses
	}
	expectedSet := make(map[int]bool, len(expected))
	for _, s := range expected {
		expectedSet[s] = true
	}
	if len(expectedSet) == 0 {
		return nil, malformed(spec.Name, "expected-status set must be non-empty")
	}

	switch spec.Return {
	case retrofittypes.ReturnVoid, retrofittypes.ReturnSync, retrofittypes.ReturnFuture, retrofittypes.ReturnCompletionOnly:
	default:
		return nil, unsupportedReturn(spec.Name, "unrecognized return shape")
	}

	return &Method{
		Name:             spec.Name,
		Verb:             spec.Verb,
		Scheme:           scheme,
		Host:             spec.Host,
		Path:             spec.Path,
		Params:           spec.Params,
		BodyParam:        bodyParam,
		BodyContentType:  spec.BodyContentType,
		ExpectedStatuses: expectedSet,
		Error:            spec.Error,
		Return:           spec.Return,
		Result:           spec.Result,
	}, nil
}

// IsExpected reports whether status is in the descriptor's expected set.
func (m *Method) IsExpected(status int) bool {
	return m.ExpectedStatuses[status]
}

// SortedExpectedStatuses returns the expected-status set in ascending
// order, for deterministic logging/diagnostics.
func (m *Method) SortedExpectedStatuses() []int {
	out := make([]int, 0, len(m.ExpectedStatuses))
	for s := range m.ExpectedStatuses {
		out = append(out, s)
	}
	sort.Ints(out)
	return out
}

func malformed(name, msg string) error {
	return retrofiterr.New(retrofiterr.MalformedInterface, name, msg)
}

func unsupportedReturn(name, msg string) error {
	return retrofiterr.New(retrofiterr.UnsupportedReturnType, name, msg)
}
