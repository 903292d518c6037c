package invoke

import (
	"context"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

type petHeaders struct {
	ETag string
}

type petBody struct {
	Name string `json:"name"`
}

func envelopeSpec() descriptor.Spec {
	return descriptor.Spec{
		Name:   "Svc.GetEnvelope",
		Verb:   "GET",
		Path:   "/pets/{id}",
		Params: []descriptor.Param{descriptor.PathParam("id", 0, false)},
		Return: retrofittypes.ReturnSync,
		Result: retrofittypes.EnvelopeEntity(
			retrofittypes.Opaque(reflect.TypeOf(petHeaders{})),
			retrofittypes.Opaque(reflect.TypeOf(petBody{})),
		),
	}
}

func TestSyncEnvelope_ConvertsToTypedEnvelope(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"name":"fido"}`))
	env, err := SyncEnvelope[petHeaders, petBody](context.Background(), inv, envelopeSpec(), "1")
	require.NoError(t, err)
	assert.Equal(t, 200, env.Status)
	assert.Equal(t, petBody{Name: "fido"}, env.TypedBody)
}

func TestFutureEnvelope_ResolvesAsync(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"name":"fido"}`))
	fut := FutureEnvelope[petHeaders, petBody](context.Background(), inv, envelopeSpec(), "1")
	env, err := fut.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, petBody{Name: "fido"}, env.TypedBody)
}

func TestSyncEnvelope_BodyTypeMismatch(t *testing.T) {
	inv := newInvoker(t, bodySender(200, `{"name":"fido"}`))
	_, err := SyncEnvelope[petHeaders, string](context.Background(), inv, envelopeSpec(), "1")
	require.Error(t, err)
	assert.True(t, retrofiterr.IsMalformedInterface(err))
}
