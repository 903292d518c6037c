package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// errRetryableStatus signals that an attempt landed on a retryable
// status code rather than a transport failure, so Handle can tell the
// two apart once backoff.Retry gives up.
var errRetryableStatus = errors.New("retrofit: retryable status code")

// RetryConfig tunes RetryPolicy's exponential backoff, surfaced through
// the client's WithRetryCount/WithRetryWaitTime/WithRetryMaxWaitTime
// options.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
	MaxElapsedTime  time.Duration
	// RetryableStatuses lists response status codes that should trigger
	// a retry. Defaults to 429 and 5xx.
	RetryableStatuses []int
}

// DefaultRetryConfig returns the engine's out-of-the-box retry tuning.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      3,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     10 * time.Second,
		Multiplier:      2.0,
	}
}

func (c RetryConfig) isRetryableStatus(status int) bool {
	if len(c.RetryableStatuses) == 0 {
		return status == 429 || status >= 500
	}
	for _, s := range c.RetryableStatuses {
		if s == status {
			return true
		}
	}
	return false
}

// RetryPolicy retries transport-level failures and retryable status
// codes using cenkalti/backoff/v5, grounded on the retry transport in
// kroma-labs-sentinel-go's httpclient package.
type RetryPolicy struct {
	cfg    RetryConfig
	logger *zap.Logger
}

func NewRetryPolicy(cfg RetryConfig, logger *zap.Logger) *RetryPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryPolicy{cfg: cfg, logger: logger}
}

func (p *RetryPolicy) Name() string { return "retry" }

func (p *RetryPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	if p.cfg.MaxRetries <= 0 {
		return next(ctx, req)
	}

	b := &backoff.ExponentialBackOff{
		InitialInterval:     p.cfg.InitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          p.cfg.Multiplier,
		MaxInterval:         p.cfg.MaxInterval,
	}

	opts := []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(uint(p.cfg.MaxRetries + 1)),
		backoff.WithNotify(func(err error, delay time.Duration) {
			p.logger.Warn("retrying request",
				zap.String("method", req.Label),
				zap.Duration("delay", delay),
				zap.Error(err))
		}),
	}
	if p.cfg.MaxElapsedTime > 0 {
		opts = append(opts, backoff.WithMaxElapsedTime(p.cfg.MaxElapsedTime))
	}

	var lastStatusResp *retrofittypes.Response

	resp, err := backoff.Retry(ctx, func() (*retrofittypes.Response, error) {
		resp, err := next(ctx, req)
		if err != nil {
			if retrofiterr.IsCancelled(err) {
				return nil, backoff.Permanent(err)
			}
			if retrofiterr.IsTransportIO(err) {
				return nil, err
			}
			return nil, backoff.Permanent(err)
		}
		if p.cfg.isRetryableStatus(resp.StatusCode) {
			lastStatusResp = resp
			return nil, errRetryableStatus
		}
		return resp, nil
	}, opts...)

	// Retries exhausted on a persistent retryable status, not a transport
	// failure: hand the last response back so the status gate downstream
	// produces UnexpectedStatus with its typed body instead of a bodyless
	// transport error.
	if err != nil && errors.Is(err, errRetryableStatus) && lastStatusResp != nil {
		return lastStatusResp, nil
	}
	return resp, err
}
