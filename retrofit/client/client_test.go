package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/invoke"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

type item struct {
	ID string `json:"id"`
}

func getItemSpec() descriptor.Spec {
	return descriptor.Spec{
		Name:   "Svc.GetItem",
		Verb:   "GET",
		Path:   "/items/{id}",
		Params: []descriptor.Param{descriptor.PathParam("id", 0, false)},
		Return: retrofittypes.ReturnSync,
		Result: retrofittypes.Opaque(reflect.TypeOf(item{})),
	}
}

func serverHost(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	return u.Host
}

func TestNewClient_RoundTripsThroughPipeline(t *testing.T) {
	var gotAuth, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"a"}`))
	}))
	defer srv.Close()

	c, err := NewClient(serverHost(t, srv),
		WithScheme("http"),
		WithLogger(zap.NewNop()),
		WithUserAgent("test-agent/1.0"),
		WithCredentials("tok123", nil),
		WithRetryCount(0),
	)
	require.NoError(t, err)

	v, err := invoke.Sync[item](context.Background(), c.Invoker, getItemSpec(), "a")
	require.NoError(t, err)
	assert.Equal(t, item{ID: "a"}, v)
	assert.Equal(t, "Bearer tok123", gotAuth)
	assert.Equal(t, "test-agent/1.0", gotUA)
}

func TestNewClient_RequestIDStampedWhenConfigured(t *testing.T) {
	var gotID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"a"}`))
	}))
	defer srv.Close()

	c, err := NewClient(serverHost(t, srv),
		WithScheme("http"),
		WithLogger(zap.NewNop()),
		WithRequestID(""),
		WithRetryCount(0),
	)
	require.NoError(t, err)

	_, err = invoke.Sync[item](context.Background(), c.Invoker, getItemSpec(), "a")
	require.NoError(t, err)
	assert.NotEmpty(t, gotID)
}

func TestNewClient_RotateCredentialsWithoutPolicyErrors(t *testing.T) {
	c, err := NewClient("api.example.com", WithLogger(zap.NewNop()))
	require.NoError(t, err)

	err = c.RotateCredentials("new-token")
	require.Error(t, err)
}

func TestNewClient_RotateCredentialsUpdatesToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"a"}`))
	}))
	defer srv.Close()

	c, err := NewClient(serverHost(t, srv),
		WithScheme("http"),
		WithLogger(zap.NewNop()),
		WithCredentials("old", nil),
		WithRetryCount(0),
	)
	require.NoError(t, err)
	require.NoError(t, c.RotateCredentials("new"))

	_, err = invoke.Sync[item](context.Background(), c.Invoker, getItemSpec(), "a")
	require.NoError(t, err)
	assert.Equal(t, "Bearer new", gotAuth)
}
