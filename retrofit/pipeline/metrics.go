package pipeline

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// Metrics holds the Prometheus collectors MetricsPolicy reports to.
// Grounded on the metrics recorder referenced by
// kroma-labs-sentinel-go's retry/breaker transports (cfg.Metrics), but
// implemented directly against prometheus/client_golang rather than a
// bespoke interface, since that is the concrete metrics dependency
// carried by the pack.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics constructs and registers request-count and duration
// collectors on reg. Pass prometheus.NewRegistry() for an isolated
// registry, or prometheus.DefaultRegisterer to use the global one.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "retrofit",
			Name:      "requests_total",
			Help:      "Total HTTP requests issued by the client, labeled by method descriptor and outcome.",
		}, []string{"method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "retrofit",
			Name:      "request_duration_seconds",
			Help:      "Request latency in seconds, labeled by method descriptor.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}
	reg.MustRegister(m.requests, m.duration)
	return m
}

// MetricsPolicy records request counts and latency for every call that
// passes through it, independent of retry attempts made further down
// the chain (placement matters: see pipeline.New's doc comment).
type MetricsPolicy struct {
	metrics *Metrics
}

func NewMetricsPolicy(m *Metrics) *MetricsPolicy {
	return &MetricsPolicy{metrics: m}
}

func (p *MetricsPolicy) Name() string { return "metrics" }

func (p *MetricsPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	start := time.Now()
	resp, err := next(ctx, req)
	p.metrics.duration.WithLabelValues(req.Label).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	p.metrics.requests.WithLabelValues(req.Label, status).Inc()
	return resp, err
}
