package retrofittypes

// Request is the concrete, fully materialized HTTP request produced by the
// request builder (component D) and handed to the policy pipeline
// (component E). Label is the fully-qualified descriptor method name,
// carried through for diagnostics and error messages.
type Request struct {
	Verb    string
	URL     string
	Headers *Headers
	Body    Body
	Label   string
}
