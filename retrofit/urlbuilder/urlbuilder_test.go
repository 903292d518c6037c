package urlbuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild_PathAndQuery(t *testing.T) {
	b := New("https", "api.example.com", "/items")
	b.AddQuery("q", "a b", false)
	b.AddQuery("raw", "a%2Fb", true)

	assert.Equal(t, "https://api.example.com/items?q=a%20b&raw=a%2Fb", b.Build())
}

func TestBuild_NoQuery(t *testing.T) {
	b := New("https", "api.example.com", "/items")
	assert.Equal(t, "https://api.example.com/items", b.Build())
}

func TestBuild_PathWithoutLeadingSlash(t *testing.T) {
	b := New("https", "api.example.com", "items")
	assert.Equal(t, "https://api.example.com/items", b.Build())
}

// EncodePathSegment exercises a PATH binding value
// containing "/" is percent-encoded so it cannot introduce a new path
// segment, unless the caller marks it pre-encoded.
func TestEncodePathSegment(t *testing.T) {
	assert.Equal(t, "a%2Fb", EncodePathSegment("a/b", false))
	assert.Equal(t, "a/b", EncodePathSegment("a/b", true))
}

func TestEncodeQueryComponent(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeQueryComponent("a b", false))
	assert.Equal(t, "a+b", EncodeQueryComponent("a+b", true))
}
