package client

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// OTelConfig holds OpenTelemetry configuration applied to the client's
// underlying HTTP transport.
type OTelConfig struct {
	TracerProvider    trace.TracerProvider
	Propagators       propagation.TextMapPropagator
	ServiceName       string
	SpanNameFormatter func(operation string, req *http.Request) string
}

// DefaultOTelConfig returns a default OpenTelemetry configuration using
// the global tracer provider and propagator.
func DefaultOTelConfig() *OTelConfig {
	return &OTelConfig{
		TracerProvider: otel.GetTracerProvider(),
		Propagators:    otel.GetTextMapPropagator(),
		ServiceName:    "retrofit-client",
	}
}

// enableTracing wraps the client's resty-backed HTTP transport with
// otelhttp instrumentation.
func enableTracing(c *Client, cfg *OTelConfig) error {
	if cfg == nil {
		cfg = DefaultOTelConfig()
	}

	httpClient := c.resty.Client()
	if httpClient == nil {
		return nil
	}

	base := httpClient.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	opts := []otelhttp.Option{
		otelhttp.WithTracerProvider(cfg.TracerProvider),
		otelhttp.WithPropagators(cfg.Propagators),
	}
	if cfg.SpanNameFormatter != nil {
		opts = append(opts, otelhttp.WithSpanNameFormatter(cfg.SpanNameFormatter))
	}

	httpClient.Transport = otelhttp.NewTransport(base, opts...)

	c.logger.Info("OpenTelemetry tracing enabled", zap.String("service_name", cfg.ServiceName))
	return nil
}
