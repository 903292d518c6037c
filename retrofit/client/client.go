// Package client wires the engine's three core subsystems — request
// builder, policy pipeline, response handler — plus the descriptor
// cache and invocation façade into one ready-to-use binding, generalized
// from one fixed API to any annotated service interface.
package client

import (
	"fmt"

	"go.uber.org/zap"
	"resty.dev/v3"

	"github.com/deploymenttheory/go-retrofit/retrofit/codec"
	"github.com/deploymenttheory/go-retrofit/retrofit/descriptor"
	"github.com/deploymenttheory/go-retrofit/retrofit/invoke"
	"github.com/deploymenttheory/go-retrofit/retrofit/pipeline"
	"github.com/deploymenttheory/go-retrofit/retrofit/reqbuilder"
	"github.com/deploymenttheory/go-retrofit/retrofit/response"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
	"github.com/deploymenttheory/go-retrofit/retrofit/transport"
)

// Client is a ready-to-use engine binding: a shared descriptor cache,
// request builder, policy pipeline, and response handler. Service
// packages embed a *Client and call invoke.Sync/FutureCall/Void/
// CompletionOnly against it from hand-written method bodies (see
// examples/petstore).
type Client struct {
	Invoker *invoke.Invoker

	resty  *resty.Client
	logger *zap.Logger

	scheme        string
	host          string
	basePath      string
	userAgent     string
	globalHeaders *retrofittypes.Headers

	credentials *pipeline.CredentialsPolicy
	retryConfig pipeline.RetryConfig
	rateLimit   *pipeline.RateLimitPolicy
	breaker     *pipeline.CircuitBreakerPolicy
	metrics     *pipeline.Metrics
	requestID   *pipeline.RequestIDPolicy

	codec *codec.Multi
}

// NewClient builds a Client against host (e.g. "api.example.com"),
// applying options in order, generalized beyond one fixed API and
// one fixed credential shape.
func NewClient(host string, options...ClientOption) (*Client, error) {
	logger, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("retrofit: failed to create default logger: %w", err)
	}

	c := &Client{
		resty:         resty.New(),
		logger:        logger,
		scheme:        DefaultScheme,
		host:          host,
		userAgent:     fmt.Sprintf("%s/%s", DefaultUserAgentBase, Version),
		globalHeaders: retrofittypes.NewHeaders(),
		retryConfig:   pipeline.DefaultRetryConfig(),
		codec:         codec.NewMulti(),
	}
	c.resty.SetTimeout(DefaultTimeout)

	for _, opt := range options {
		if err := opt(c); err != nil {
			return nil, fmt.Errorf("retrofit: failed to apply client option: %w", err)
		}
	}

	cache := descriptor.NewCache()
	rb := reqbuilder.New(c.codec, c.scheme, c.host)
	rb.BasePath = c.basePath

	term := transport.NewRestyTransport(c.resty)

	policies := []pipeline.Policy{
		pipeline.NewUserAgentPolicy(c.userAgent),
		pipeline.NewGlobalHeadersPolicy(c.globalHeaders),
	}
	if c.requestID != nil {
		policies = append(policies, c.requestID)
	}
	if c.rateLimit != nil {
		policies = append(policies, c.rateLimit)
	}
	if c.breaker != nil {
		policies = append(policies, c.breaker)
	}
	if c.metrics != nil {
		policies = append(policies, pipeline.NewMetricsPolicy(c.metrics))
	}
	policies = append(policies, pipeline.NewRetryPolicy(c.retryConfig, c.logger))
	cookies, err := pipeline.NewCookiePolicy()
	if err != nil {
		return nil, err
	}
	policies = append(policies, cookies)
	if c.credentials != nil {
		policies = append(policies, c.credentials)
	}

	chain := pipeline.New(term, policies...)
	handler := response.New(c.codec)
	c.Invoker = invoke.New(cache, rb, chain, handler)

	c.logger.Info("retrofit client created",
		zap.String("host", c.host), zap.String("base_path", c.basePath))

	return c, nil
}

// Logger returns the configured logger.
func (c *Client) Logger() *zap.Logger { return c.logger }

// RestyClient returns the underlying resty client, for advanced
// transport-level configuration not exposed via ClientOption.
func (c *Client) RestyClient() *resty.Client { return c.resty }

// RotateCredentials replaces the active bearer token at runtime.
// Returns an error if no credentials policy was configured via
// WithCredentials.
func (c *Client) RotateCredentials(token string) error {
	if c.credentials == nil {
		return fmt.Errorf("retrofit: client has no credentials policy configured")
	}
	return c.credentials.Rotate(token)
}

