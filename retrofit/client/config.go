package client

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the declarative, validated counterpart to the functional
// ClientOption surface: callers who prefer a single struct (e.g. one
// decoded from YAML/env) can populate a Config and pass it to
// NewClientFromConfig instead of a chain of With* options.
type Config struct {
	// Host is the bare hostname the engine talks to, e.g. "api.example.com".
	Host string `validate:"required,hostname_port|hostname|fqdn"`

	// Scheme is "https" or "http". Defaults to DefaultScheme when empty.
	Scheme string `validate:"omitempty,oneof=http https"`

	// BasePath prefixes every descriptor's path.
	BasePath string `validate:"omitempty"`

	// Timeout bounds every outgoing request. Defaults to DefaultTimeout when zero.
	Timeout time.Duration `validate:"omitempty,gt=0"`

	// UserAgent overrides the default User-Agent string.
	UserAgent string `validate:"omitempty"`

	// Token, if set, configures bearer-token credentials.
	Token string `validate:"omitempty"`

	// RequestsPerSecond and Burst, if RequestsPerSecond > 0, configure
	// client-side rate limiting.
	RequestsPerSecond float64 `validate:"omitempty,gt=0"`
	Burst             int     `validate:"omitempty,gt=0"`

	// RequestIDHeader, if set, enables request-id stamping on that
	// header name. Defaults to no stamping when empty.
	RequestIDHeader string `validate:"omitempty"`
}

var (
	configValidator     *validator.Validate
	configValidatorOnce sync.Once
)

func getConfigValidator() *validator.Validate {
	configValidatorOnce.Do(func() {
		configValidator = validator.New()
	})
	return configValidator
}

// Validate checks Config's fields against their struct tags, returning a
// wrapped validator.ValidationErrors on failure.
func (cfg Config) Validate() error {
	if err := getConfigValidator().Struct(cfg); err != nil {
		return fmt.Errorf("retrofit: invalid client config: %w", err)
	}
	return nil
}

// NewClientFromConfig validates cfg and builds a Client from it, applying
// any extra options after the config-derived ones so callers can still
// layer on advanced options (WithTransport, WithTracing,...) that Config
// has no field for.
func NewClientFromConfig(cfg Config, extra...ClientOption) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	options := make([]ClientOption, 0, len(extra)+8)
	if cfg.Scheme != "" {
		options = append(options, WithScheme(cfg.Scheme))
	}
	if cfg.BasePath != "" {
		options = append(options, WithBasePath(cfg.BasePath))
	}
	if cfg.Timeout > 0 {
		options = append(options, WithTimeout(cfg.Timeout))
	}
	if cfg.UserAgent != "" {
		options = append(options, WithUserAgent(cfg.UserAgent))
	}
	if cfg.Token != "" {
		options = append(options, WithCredentials(cfg.Token, nil))
	}
	if cfg.RequestsPerSecond > 0 {
		options = append(options, WithRateLimit(cfg.RequestsPerSecond, cfg.Burst))
	}
	if cfg.RequestIDHeader != "" {
		options = append(options, WithRequestID(cfg.RequestIDHeader))
	}
	options = append(options, extra...)

	return NewClient(cfg.Host, options...)
}
