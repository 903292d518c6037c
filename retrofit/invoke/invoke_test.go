package invoke

import (
	"bytes"
	"context"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-retrofit/retrofit/codec"
	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/reqbuilder"
	"github.com/deploymenttheory/go-retrofit/retrofit/response"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

type item struct {
	ID string `json:"id"`
}

type senderFunc func(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error)

func (f senderFunc) Send(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
	return f(ctx, req)
}

func newInvoker(t *testing.T, sender Sender) *Invoker {
	t.Helper()
	c := codec.NewMulti()
	return New(descriptor.NewCache(), reqbuilder.New(c, "https", "api.example.com"), sender, response.New(c))
}

func bodySender(status int, body string) Sender {
	return senderFunc(func(ctx context.Context, req *retrofittypes.Request) (*retrofittypes.Response, error) {
		headers := retrofittypes.NewHeaders()
		headers.Set("Content-Type", "application/json")
		b := []byte(body)
		return retrofittypes.NewResponse(status, headers, req.Label, func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}), nil
	})
}

func getSpec() descriptor.Spec {
	return descriptor.Spec{
		Name:   "Svc.Get",
		Verb:   "GET",
		Path:   "/items/{id}",
		Params: []descriptor.Param{descriptor.PathParam("id", 0, false)},
		Return: retrofittypes.ReturnSync,
		Result: retrofittypes.Opaque(reflect.TypeOf(item{})),
	}
}

func TestSync_ReturnsTypedValue(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"id":"a"}`))
	v, err := Sync[item](context.Background(), inv, getSpec(), "a")
	require.NoError(t, err)
	assert.Equal(t, item{ID: "a"}, v)
}

func TestSync_MismatchedTypeParam(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"id":"a"}`))
	_, err := Sync[string](context.Background(), inv, getSpec(), "a")
	require.Error(t, err)
	assert.True(t, retrofiterr.IsMalformedInterface(err))
}

func voidSpec() descriptor.Spec {
	return descriptor.Spec{
		Name:   "Svc.Delete",
		Verb:   "DELETE",
		Path:   "/items/{id}",
		Params: []descriptor.Param{descriptor.PathParam("id", 0, false)},
		Return: retrofittypes.ReturnVoid,
		Result: retrofittypes.Void(),
	}
}

func TestVoid_DiscardsResult(t *testing.T) {
	inv := newInvoker(t, bodySender(204, ""))
	err := Void(context.Background(), inv, voidSpec(), "a")
	require.NoError(t, err)
}

func TestFutureCall_ResolvesAsync(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"id":"a"}`))
	fut := FutureCall[item](context.Background(), inv, getSpec(), "a")
	v, err := fut.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, item{ID: "a"}, v)
}

func TestFutureCall_DescriptorErrorSurfacesOnGet(t *testing.T) {
	bad := descriptor.Spec{Name: "Svc.Bad"}
	inv := newInvoker(t, bodySender(200, ""))
	fut := FutureCall[item](context.Background(), inv, bad)
	_, err := fut.Get(context.Background())
	require.Error(t, err)
}

func TestCompletionOnly_CompletesIgnoringValue(t *testing.T) {
	inv := newInvoker(t, bodySender(204, ""))
	fut := CompletionOnly(context.Background(), inv, voidSpec(), "a")
	_, err := fut.Get(context.Background())
	require.NoError(t, err)
}

func TestFuture_DoneAndGetCancellation(t *testing.T) {
	f := newFuture(context.Background(), func() (int, error) {
		time.Sleep(50 * time.Millisecond)
		return 42, nil
	})
	assert.False(t, f.Done())

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	_, err := f.Get(ctx)
	require.Error(t, err)
	assert.True(t, retrofiterr.IsCancelled(err))

	v, err := f.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 42, v)
	assert.True(t, f.Done())
}
