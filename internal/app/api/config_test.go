package api

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{"AUTH_SECRET": "s3cret"}})
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, "local", cfg.Environment)
	assert.Equal(t, "storefront", cfg.MongoDatabase)
	assert.Equal(t, "storefront.order-events", cfg.KafkaOrderTopic)
	assert.Equal(t, "localhost:7233", cfg.TemporalAddress)
	assert.Equal(t, "default", cfg.TemporalNamespace)
	assert.Equal(t, "./uploads", cfg.MediaDir)
	assert.Equal(t, "/uploads", cfg.MediaBaseURL)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.AuthDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	cfg, err := loadConfig(env.Options{Environment: map[string]string{
		"PORT":              ":9090",
		"AUTH_DISABLED":     "true",
		"KAFKA_BROKERS":     "kafka-1:9092, ,kafka-2:9092",
		"MONGO_URI":         " mongodb://mongo:27017 ",
		"MEDIA_BASE_URL":    "static/media/",
		"TEMPORAL_DISABLED": "1",
		"SHUTDOWN_TIMEOUT":  "3s",
	}})
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr())
	assert.True(t, cfg.AuthDisabled)
	assert.True(t, cfg.TemporalDisabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "/static/media", cfg.MediaBaseURL)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		environ map[string]string
		message string
	}{
		{name: "missing secret", environ: map[string]string{}, message: "AUTH_SECRET is required"},
		{name: "auth disabled in production", environ: map[string]string{"AUTH_DISABLED": "true", "ENVIRONMENT": "production"}, message: "not allowed in production"},
		{name: "root media url", environ: map[string]string{"AUTH_SECRET": "x", "MEDIA_BASE_URL": "/"}, message: "MEDIA_BASE_URL"},
		{name: "bad boolean", environ: map[string]string{"AUTH_DISABLED": "maybe"}, message: "parse config"},
		{name: "bad duration", environ: map[string]string{"AUTH_SECRET": "x", "SHUTDOWN_TIMEOUT": "soon"}, message: "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(env.Options{Environment: tt.environ})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestParseConfig_SkipsAPIChecks(t *testing.T) {
	cfg, err := parseConfig(env.Options{Environment: map[string]string{"POSTGRES_DSN": "postgres://localhost/storefront"}})
	require.NoError(t, err)
	assert.Empty(t, cfg.AuthSecret)
	assert.Equal(t, "postgres://localhost/storefront", cfg.PostgresDSN)
	assert.Error(t, cfg.Validate())
}
