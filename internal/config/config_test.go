package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 8000, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:8000", cfg.BaseURL)
	assert.False(t, cfg.StripeEnabled())
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9100")
	t.Setenv("BASE_URL", "https://shop.example.com/")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_abc")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, 9100, cfg.HTTPPort)
	assert.Equal(t, "https://shop.example.com", cfg.BaseURL, "trailing slash is trimmed")
	assert.True(t, cfg.StripeEnabled())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_RejectsInvalidPort(t *testing.T) {
	t.Setenv("HTTP_PORT", "70000")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_RejectsRelativeBaseURL(t *testing.T) {
	t.Setenv("BASE_URL", "shop.example.com")

	cfg, err := Load()

	assert.Nil(t, cfg)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid base URL")
}
