package codec

import "testing"

// TestEncodingFromContentType exercises the mapping from a Content-Type
// value to a wire encoding.
func TestEncodingFromContentType(t *testing.T) {
	cases := []struct {
		contentType string
		wantEnc     Encoding
		wantOK      bool
	}{
		{"application/json", JSON, true},
		{"application/json; charset=utf-8", JSON, true},
		{"APPLICATION/JSON", JSON, true},
		{"application/xml", XML, true},
		{"text/xml", XML, true},
		{"text/xml; charset=utf-8", XML, true},
		{"application/octet-stream", JSON, false},
		{"text/plain", JSON, false},
		{"", JSON, false},
	}

	for _, c := range cases {
		enc, ok := EncodingFromContentType(c.contentType)
		if ok != c.wantOK {
			t.Errorf("EncodingFromContentType(%q) ok = %v, want %v", c.contentType, ok, c.wantOK)
			continue
		}
		if ok && enc != c.wantEnc {
			t.Errorf("EncodingFromContentType(%q) enc = %v, want %v", c.contentType, enc, c.wantEnc)
		}
	}
}
