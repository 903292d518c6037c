package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_ValidHostPasses(t *testing.T) {
	cfg := Config{Host: "api.example.com"}
	assert.NoError(t, cfg.Validate())
}

func TestConfig_MissingHostFails(t *testing.T) {
	cfg := Config{}
	require.Error(t, cfg.Validate())
}

func TestConfig_InvalidSchemeFails(t *testing.T) {
	cfg := Config{Host: "api.example.com", Scheme: "ftp"}
	require.Error(t, cfg.Validate())
}

func TestConfig_NegativeTimeoutFails(t *testing.T) {
	cfg := Config{Host: "api.example.com", Timeout: -1 * time.Second}
	require.Error(t, cfg.Validate())
}

func TestNewClientFromConfig_AppliesFields(t *testing.T) {
	cfg := Config{
		Host:              "api.example.com",
		Scheme:            "http",
		UserAgent:         "custom/1.0",
		Token:             "tok",
		RequestsPerSecond: 10,
		Burst:             5,
	}
	c, err := NewClientFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "custom/1.0", c.userAgent)
	assert.NotNil(t, c.credentials)
	assert.NotNil(t, c.rateLimit)
}

func TestNewClientFromConfig_InvalidConfigRejected(t *testing.T) {
	_, err := NewClientFromConfig(Config{})
	require.Error(t, err)
}
