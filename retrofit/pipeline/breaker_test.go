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

func TestCircuitBreakerPolicy_PassesThroughSuccess(t *testing.T) {
	p := NewCircuitBreakerPolicy(DefaultBreakerConfig("test"), nil)
	req := &retrofittypes.Request{Label: "Svc.Get"}

	resp, err := p.Handle(context.Background(), req, func(ctx context.Context, r *retrofittypes.Request) (*retrofittypes.Response, error) {
		return retrofittypes.NewResponse(200, retrofittypes.NewHeaders(), "Svc.Get", nil), nil
	})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
}

func TestCircuitBreakerPolicy_OpensAfterConsecutiveFailures(t *testing.T) {
	cfg := DefaultBreakerConfig("test")
	cfg.FailureThreshold = 1
	cfg.ConsecutiveFailures = 2
	cfg.FailureRatio = 0
	cfg.MaxRequests = 1
	cfg.Interval = time.Minute
	cfg.Timeout = time.Minute
	p := NewCircuitBreakerPolicy(cfg, nil)
	req := &retrofittypes.Request{Label: "Svc.Get"}

	fail := func(ctx context.Context, r *retrofittypes.Request) (*retrofittypes.Response, error) {
		return retrofittypes.NewResponse(500, retrofittypes.NewHeaders(), "Svc.Get", nil), nil
	}

	for i := 0; i < 2; i++ {
		resp, err := p.Handle(context.Background(), req, fail)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	}

	_, err := p.Handle(context.Background(), req, fail)
	require.Error(t, err)
	assert.True(t, retrofiterr.IsTransportIO(err))
}
