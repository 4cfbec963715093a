package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromEnv_Defaults(t *testing.T) { //nolint:paralleltest // mutates env
	t.Setenv("OTEL_ENABLED", "")
	t.Setenv("OTEL_SERVICE_NAME", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.False(t, cfg.Enabled)
	assert.Equal(t, defaultServiceName, cfg.ServiceName)
	assert.Equal(t, defaultTimeout, cfg.Timeout)
	assert.Empty(t, cfg.Endpoint)
}

func TestLoadConfigFromEnv_Overrides(t *testing.T) { //nolint:paralleltest // mutates env
	t.Setenv("OTEL_ENABLED", "true")
	t.Setenv("OTEL_SERVICE_NAME", "deck-batch-runner")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "http://collector:4318")
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_TIMEOUT", "10s")

	cfg, err := LoadConfigFromEnv()
	require.NoError(t, err)

	assert.True(t, cfg.Enabled)
	assert.Equal(t, "deck-batch-runner", cfg.ServiceName)
	assert.Equal(t, "http://collector:4318", cfg.Endpoint)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}

func TestLoadConfigFromEnv_BadValues(t *testing.T) { //nolint:paralleltest // mutates env
	t.Setenv("OTEL_ENABLED", "definitely")

	_, err := LoadConfigFromEnv()
	require.Error(t, err)
}

func TestInitialize_DisabledIsNoop(t *testing.T) { //nolint:paralleltest // touches global provider
	require.NoError(t, Initialize(t.Context(), &Config{Enabled: false}))
	require.NoError(t, Shutdown(t.Context()))
}

func TestInitialize_MissingEndpointIsNoop(t *testing.T) { //nolint:paralleltest // touches global provider
	require.NoError(t, Initialize(t.Context(), &Config{Enabled: true}))
	require.NoError(t, Shutdown(t.Context()))
}
