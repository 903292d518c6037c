package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// TestCleanHTTPTransport_PatchRewrite exercises a
// transport that can't natively PATCH rewrites the request to POST with
// an X-HTTP-Method-Override header carrying the original verb.
func TestCleanHTTPTransport_PatchRewrite(t *testing.T) {
	var gotMethod, gotOverride string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotOverride = r.Header.Get("X-HTTP-Method-Override")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewCleanHTTPTransport()
	assert.True(t, tr.PatchUnsupported())

	req := &retrofittypes.Request{
		Verb:    http.MethodPatch,
		URL:     srv.URL + "/items/1",
		Headers: retrofittypes.NewHeaders(),
	}

	resp, err := tr.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "PATCH", gotOverride)
}

func TestCleanHTTPTransport_NonPatchVerbUnchanged(t *testing.T) {
	var gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewCleanHTTPTransport()
	req := &retrofittypes.Request{
		Verb:    http.MethodGet,
		URL:     srv.URL + "/items/1",
		Headers: retrofittypes.NewHeaders(),
	}

	_, err := tr.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestCleanHTTPTransport_BytesBody(t *testing.T) {
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody = make([]byte, r.ContentLength)
		_, _ = r.Body.Read(gotBody)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tr := NewCleanHTTPTransport()
	req := &retrofittypes.Request{
		Verb:    http.MethodPost,
		URL:     srv.URL + "/items",
		Headers: retrofittypes.NewHeaders(),
		Body:    retrofittypes.BytesBody{Data: []byte("hello")},
	}

	resp, err := tr.Send(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)
	assert.Equal(t, "hello", string(gotBody))
}
