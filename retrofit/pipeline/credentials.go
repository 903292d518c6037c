package pipeline

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/deploymenttheory/go-retrofit/retrofit/retrofiterr"
	"github.com/deploymenttheory/go-retrofit/retrofit/retrofittypes"
)

// CredentialsConfig is the bearer-token credential material a
// CredentialsPolicy applies to every outgoing request, beyond a single
// fixed API version header.
type CredentialsConfig struct {
	// Token is the bearer token sent as "Authorization: Bearer <token>".
	Token string
	// ExtraHeaders are additional fixed headers sent alongside the
	// bearer token, e.g. an API version header.
	ExtraHeaders map[string]string
}

func (c *CredentialsConfig) validate() error {
	if c.Token == "" {
		return fmt.Errorf("credentials: token is required")
	}
	return nil
}

// CredentialsPolicy manages thread-safe, rotatable bearer-token
// credentials as a pipeline.Policy rather than a resty request
// middleware, so rotation takes effect for every in-flight chain build.
type CredentialsPolicy struct {
	mu     sync.RWMutex
	config CredentialsConfig
	logger *zap.Logger
}

// NewCredentialsPolicy validates cfg and returns a policy that stamps
// its bearer token (and any extra headers) onto every request.
func NewCredentialsPolicy(cfg CredentialsConfig, logger *zap.Logger) (*CredentialsPolicy, error) {
	if err := cfg.validate(); err != nil {
		return nil, retrofiterr.Wrap(retrofiterr.MalformedInterface, "", "configuring credentials policy", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialsPolicy{config: cfg, logger: logger}, nil
}

func (p *CredentialsPolicy) Name() string { return "credentials" }

// Rotate replaces the active token at runtime without rebuilding the
// client, mirroring AuthManager.UpdateAPIKey.
func (p *CredentialsPolicy) Rotate(newToken string) error {
	if newToken == "" {
		return fmt.Errorf("credentials: token cannot be empty")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	had := p.config.Token != ""
	p.config.Token = newToken
	p.logger.Info("credentials rotated", zap.Bool("had_previous_token", had))
	return nil
}

func (p *CredentialsPolicy) snapshot() CredentialsConfig {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config
}

func (p *CredentialsPolicy) Handle(ctx context.Context, req *retrofittypes.Request, next Next) (*retrofittypes.Response, error) {
	cfg := p.snapshot()
	if cfg.Token == "" {
		return nil, retrofiterr.New(retrofiterr.MalformedInterface, req.Label, "credentials policy has no token configured")
	}
	req.Headers.Set("Authorization", "Bearer "+cfg.Token)
	for k, v := range cfg.ExtraHeaders {
		if !req.Headers.Has(k) {
			req.Headers.Set(k, v)
		}
	}
	return next(ctx, req)
}
