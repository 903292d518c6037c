package client

import "time"

const (
	// DefaultScheme is used for descriptors that don't declare their own scheme.
	DefaultScheme = "https"

	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 120 * time.Second

	// DefaultUserAgentBase names this engine in the default User-Agent string.
	DefaultUserAgentBase = "go-retrofit"

	// Version is the engine's own version, used to build the default
	// User-Agent string.
	Version = "1.0.0"
)
