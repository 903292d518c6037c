package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

func TestRateLimitPolicy_AllowsWithinBurst(t *testing.T) {
	p := NewRateLimitPolicy(100, 5)
	req := &retrofittypes.Request{Headers: retrofittypes.NewHeaders()}

	for i := 0; i < 5; i++ {
		_, err := p.Handle(context.Background(), req, passthrough(nil))
		require.NoError(t, err)
	}
}

func TestRateLimitPolicy_CancelledContextReturnsCancelledKind(t *testing.T) {
	p := NewRateLimitPolicy(0.001, 1)
	req := &retrofittypes.Request{Headers: retrofittypes.NewHeaders()}

	// Drain the single token of burst so the next call must wait.
	_, err := p.Handle(context.Background(), req, passthrough(nil))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = p.Handle(ctx, req, passthrough(nil))
	require.Error(t, err)
	assert.True(t, retrofiterr.IsCancelled(err))
}
