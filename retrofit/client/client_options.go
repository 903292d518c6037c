package client

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/deploymenttheory/go-retrofit/retrofit/pipeline"
)

// ClientOption configures a Client during NewClient as a chain of
// functional options applied in order.
type ClientOption func(*Client) error

// WithScheme overrides the default "https" scheme used for descriptors
// that don't declare their own.
func WithScheme(scheme string) ClientOption {
	return func(c *Client) error {
		c.scheme = scheme
		return nil
	}
}

// WithBasePath prefixes every descriptor's path, e.g. to scope calls
// under a tenant or workspace segment without each descriptor
// repeating it.
func WithBasePath(basePath string) ClientOption {
	return func(c *Client) error {
		c.basePath = basePath
		return nil
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		c.resty.SetTimeout(timeout)
		return nil
	}
}

// WithRetryCount sets the maximum number of retry attempts.
func WithRetryCount(count int) ClientOption {
	return func(c *Client) error {
		c.retryConfig.MaxRetries = count
		return nil
	}
}

// WithRetryWaitTime sets the initial/minimum wait time before the first retry.
func WithRetryWaitTime(wait time.Duration) ClientOption {
	return func(c *Client) error {
		c.retryConfig.InitialInterval = wait
		return nil
	}
}

// WithRetryMaxWaitTime caps the exponential backoff interval between retries.
func WithRetryMaxWaitTime(maxWait time.Duration) ClientOption {
	return func(c *Client) error {
		c.retryConfig.MaxInterval = maxWait
		return nil
	}
}

// WithLogger sets a custom logger for the client and every policy built
// from it.
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) error {
		c.logger = logger
		return nil
	}
}

// WithDebug enables resty's request/response debug logging.
func WithDebug() ClientOption {
	return func(c *Client) error {
		c.resty.SetDebug(true)
		return nil
	}
}

// WithUserAgent sets a custom User-Agent string.
func WithUserAgent(userAgent string) ClientOption {
	return func(c *Client) error {
		c.userAgent = userAgent
		return nil
	}
}

// WithCustomAgent appends a custom identifier to the default User-Agent.
func WithCustomAgent(customAgent string) ClientOption {
	return func(c *Client) error {
		c.userAgent = fmt.Sprintf("%s/%s; %s", DefaultUserAgentBase, Version, customAgent)
		return nil
	}
}

// WithGlobalHeader sets one global header applied to every request
// unless a descriptor's own HEADER binding overrides it.
func WithGlobalHeader(key, value string) ClientOption {
	return func(c *Client) error {
		c.globalHeaders.Set(key, value)
		return nil
	}
}

// WithGlobalHeaders sets multiple global headers at once.
func WithGlobalHeaders(headers map[string]string) ClientOption {
	return func(c *Client) error {
		for k, v := range headers {
			c.globalHeaders.Set(k, v)
		}
		return nil
	}
}

// WithCredentials configures bearer-token authentication via a
// pipeline.CredentialsPolicy.
func WithCredentials(token string, extraHeaders map[string]string) ClientOption {
	return func(c *Client) error {
		cred, err := pipeline.NewCredentialsPolicy(pipeline.CredentialsConfig{
			Token: token, ExtraHeaders: extraHeaders,
		}, c.logger)
		if err != nil {
			return err
		}
		c.credentials = cred
		return nil
	}
}

// WithRequestID stamps a fresh correlation ID onto every outgoing
// request via header (defaulting to "X-Request-Id" if empty), so logs,
// traces, and metrics for one logical call can be joined across the
// client and the service it calls.
func WithRequestID(header string) ClientOption {
	return func(c *Client) error {
		c.requestID = pipeline.NewRequestIDPolicy(header)
		return nil
	}
}

// WithRateLimit throttles outgoing requests to requestsPerSecond with
// the given burst, backed by golang.org/x/time/rate.
func WithRateLimit(requestsPerSecond float64, burst int) ClientOption {
	return func(c *Client) error {
		c.rateLimit = pipeline.NewRateLimitPolicy(requestsPerSecond, burst)
		return nil
	}
}

// WithCircuitBreaker wraps the pipeline in a sony/gobreaker/v2 circuit
// breaker tuned by cfg.
func WithCircuitBreaker(cfg pipeline.BreakerConfig) ClientOption {
	return func(c *Client) error {
		c.breaker = pipeline.NewCircuitBreakerPolicy(cfg, c.logger)
		return nil
	}
}

// WithMetrics registers Prometheus request-count and latency collectors
// on reg and reports every call to them.
func WithMetrics(reg prometheus.Registerer) ClientOption {
	return func(c *Client) error {
		c.metrics = pipeline.NewMetrics(reg)
		return nil
	}
}

// WithProxy sets an HTTP/SOCKS5 proxy for all requests.
func WithProxy(proxyURL string) ClientOption {
	return func(c *Client) error {
		c.resty.SetProxy(proxyURL)
		return nil
	}
}

// WithTLSClientConfig sets custom TLS configuration.
func WithTLSClientConfig(tlsConfig *tls.Config) ClientOption {
	return func(c *Client) error {
		c.resty.SetTLSClientConfig(tlsConfig)
		return nil
	}
}

// WithInsecureSkipVerify disables TLS certificate verification. Use
// only for testing against self-signed certificates.
func WithInsecureSkipVerify() ClientOption {
	return func(c *Client) error {
		c.resty.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
		c.logger.Warn("TLS certificate verification disabled")
		return nil
	}
}

// WithMinTLSVersion sets the minimum TLS version for connections.
func WithMinTLSVersion(minVersion uint16) ClientOption {
	return func(c *Client) error {
		c.resty.SetTLSClientConfig(&tls.Config{MinVersion: minVersion})
		return nil
	}
}

// WithTransport sets a custom HTTP transport (http.RoundTripper)
// beneath resty, for advanced customization such as connection pooling.
func WithTransport(rt http.RoundTripper) ClientOption {
	return func(c *Client) error {
		c.resty.SetTransport(rt)
		return nil
	}
}

// WithTracing enables OpenTelemetry instrumentation for every HTTP
// request.
func WithTracing(cfg *OTelConfig) ClientOption {
	return func(c *Client) error {
		return enableTracing(c, cfg)
	}
}
