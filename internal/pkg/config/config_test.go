package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Repositories.Postgres.Host)
	assert.Equal(t, "8000", cfg.ServerPort)
	assert.Equal(t, 7*24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "otel-collector:4318", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, ":9092", cfg.Observability.MetricsAddr)
}

func TestLoadHonorsOTLPEndpoint(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318")
	t.Setenv("METRICS_ADDR", ":9999")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "localhost:4318", cfg.Observability.OTLPEndpoint)
	assert.Equal(t, ":9999", cfg.Observability.MetricsAddr)
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	require.Error(t, err)
}
