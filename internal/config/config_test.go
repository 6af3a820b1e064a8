package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.vk.com", cfg.Upstream.BaseURL)
	assert.False(t, cfg.Redis.Enabled())
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "usercheck", cfg.Observability.ServiceName)
	assert.Equal(t, cfg.Primary.Env, cfg.Observability.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("USERCHECK_PRIMARY__ENV", "production")
	t.Setenv("USERCHECK_SERVER__PORT", "9090")
	t.Setenv("USERCHECK_SERVER__READ_TIMEOUT", "5")
	t.Setenv("USERCHECK_UPSTREAM__BASE_URL", "http://users.internal")
	t.Setenv("USERCHECK_UPSTREAM__TIMEOUT", "3s")
	t.Setenv("USERCHECK_REDIS__ADDRESS", "localhost:6379")
	t.Setenv("USERCHECK_REDIS__TTL", "1m")
	t.Setenv("USERCHECK_OBSERVABILITY__LOGGING__FORMAT", "console")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 5, cfg.Server.ReadTimeout)
	assert.Equal(t, 30, cfg.Server.WriteTimeout)
	assert.Equal(t, "http://users.internal", cfg.Upstream.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Minute, cfg.Redis.TTL)
	assert.Equal(t, "console", cfg.Observability.Logging.Format)
	assert.Equal(t, "info", cfg.Observability.Logging.Level)
	assert.Equal(t, "production", cfg.Observability.Environment)
}

func TestLoadConfigCORSOriginsList(t *testing.T) {
	t.Setenv("USERCHECK_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad url", "USERCHECK_UPSTREAM__BASE_URL", "not a url"},
		{"short ttl", "USERCHECK_REDIS__TTL", "10ms"},
		{"bad level", "USERCHECK_OBSERVABILITY__LOGGING__LEVEL", "verbose"},
		{"bad format", "USERCHECK_OBSERVABILITY__LOGGING__FORMAT", "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestGetLogLevel(t *testing.T) {
	c := DefaultObservabilityConfig()
	c.Logging.Level = ""

	c.Environment = "production"
	assert.Equal(t, "info", c.GetLogLevel())
	assert.True(t, c.IsProduction())

	c.Environment = "development"
	assert.Equal(t, "debug", c.GetLogLevel())

	c.Logging.Level = "warn"
	assert.Equal(t, "warn", c.GetLogLevel())
}
