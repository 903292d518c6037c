package retrofittypes

// Body is the sum type over the three request-body variants the request
// builder can attach to a request: raw bytes, text, and a
// byte-range slice of a file on disk. The transport is responsible for
// reading FileSegment lazily so large uploads never round-trip through
// process memory.
type Body interface {
	isBody()
	ContentType() string
}

// BytesBody is an opaque byte payload with an explicit content type.
type BytesBody struct {
	Data []byte
	Type string
}

func (BytesBody) isBody()             {}
func (b BytesBody) ContentType() string { return b.Type }

// TextBody is a UTF-8 string payload. The request builder never attaches
// a TextBody for an empty string — empty text bodies must
// be suppressed rather than transmitted.
type TextBody struct {
	Text string
	Type string
}

func (TextBody) isBody()               {}
func (t TextBody) ContentType() string { return t.Type }

// FileSegmentBody references a byte range of a file on disk. Offset and
// Length describe the slice to transmit; the transport opens the file and
// seeks rather than buffering it in memory.
type FileSegmentBody struct {
	Path   string
	Offset int64
	Length int64
	Type   string
}

func (FileSegmentBody) isBody()             {}
func (f FileSegmentBody) ContentType() string { return f.Type }
