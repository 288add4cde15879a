package config_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mvelasco/aura/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, ":8080", cfg.ListenAddr())
	require.Equal(t, "aura-api", cfg.MQTTClientID)
	require.Equal(t, "aura/+/readings", cfg.MQTTTopic)
	require.Equal(t, "info", cfg.LogLevel)
	require.Equal(t, 7, cfg.DefaultDays)
	require.Equal(t, "day", cfg.DefaultPeriod)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://aura:secret@db:5432/aura")
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("MQTT_BROKER", "tcp://broker:1883")
	t.Setenv("MQTT_TOPIC", "sensors/+/env")
	t.Setenv("API_DEFAULT_DAYS", "30")
	t.Setenv("API_DEFAULT_PERIOD", "hour")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)
	require.Equal(t, "postgres://aura:secret@db:5432/aura", cfg.DatabaseURL)
	require.Equal(t, ":9090", cfg.ListenAddr())
	require.Equal(t, "redis:6379", cfg.RedisAddr)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, "tcp://broker:1883", cfg.MQTTBroker)
	require.Equal(t, "sensors/+/env", cfg.MQTTTopic)
	require.Equal(t, 30, cfg.DefaultDays)
	require.Equal(t, "hour", cfg.DefaultPeriod)
	require.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := config.Load()
	require.Error(t, err)
}

func TestLoad_InvalidPeriod(t *testing.T) {
	t.Setenv("API_DEFAULT_PERIOD", "week")
	_, err := config.Load()
	require.Error(t, err)
}
