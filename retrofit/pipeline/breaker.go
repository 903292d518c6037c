package pipeline

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// BreakerConfig tunes CircuitBreakerPolicy, grounded on
// kroma-labs-sentinel-go's httpclient.BreakerConfig.
type BreakerConfig struct {
	Name                string
	MaxRequests         uint32
	Interval            time.Duration
	Timeout             time.Duration
	FailureThreshold    uint32
	FailureRatio        float64
	ConsecutiveFailures uint32
}

// DefaultBreakerConfig mirrors httpclient.DefaultBreakerConfig's tuning.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:                name,
		MaxRequests:         1,
		Interval:            10 * time.Second,
		Timeout:             10 * time.Second,
		FailureThreshold:    20,
		FailureRatio:        0.5,
		ConsecutiveFailures: 5,
	}
}

// CircuitBreakerPolicy wraps the chain's remainder in a
// sony/gobreaker/v2 circuit breaker, using the engine's generic
// retrofittypes.Response directly as the breaker's type parameter
// rather than an interface{}-typed wrapper (gobreaker/v2 supports this
// natively).
type CircuitBreakerPolicy struct {
	breaker *gobreaker.CircuitBreaker[*retrofittypes.Response]
	logger  *zap.Logger
}

func NewCircuitBreakerPolicy(cfg BreakerConfig, logger *zap.Logger) *CircuitBreakerPolicy {
	if logger == nil {
		logger = zap.NewNop()
	}
	name := cfg.Name
	if name == "" {
		name = "retrofit-client"
	}
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if cfg.FailureThreshold > 0 && counts.Requests < cfg.FailureThreshold {
				return false
			}
			if cfg.ConsecutiveFailures > 0 && counts.ConsecutiveFailures >= cfg.ConsecutiveFailures {
				return true
			}
			if cfg.FailureRatio > 0 && counts.TotalFailures > 0 {
				ratio := float64(counts.TotalFailures) / float64(counts.Requests)
				if ratio >= cfg.FailureRatio {
					return true
				}
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("name", name), zap.String("from", from.String()), zap.String("to", to.String()))
		},
	}
	return &CircuitBreakerPolicy{breaker: gobreaker.NewCircuitBreaker[*retrofittypes.Response](settings), logger: logger}
}

func (p *CircuitBreakerPolicy) Name() string { return "circuit-breaker" }

func (p *CircuitBreakerPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	resp, err := p.breaker.Execute(func() (*retrofittypes.Response, error) {
		r, err := next(ctx, req)
		if err != nil {
			return nil, err
		}
		if r.StatusCode >= 500 {
			return r, errBreakerFailure
		}
		return r, nil
	})
	if err == errBreakerFailure {
		return resp, nil
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return nil, retrofiterr.Wrap(retrofiterr.TransportIO, req.Label, "circuit breaker rejected request", err)
	}
	return resp, err
}

var errBreakerFailure = &breakerFailure{}

type breakerFailure struct{}

func (*breakerFailure) Error() string { return "synthetic circuit breaker failure" }
