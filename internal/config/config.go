package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds environment-driven settings for the service.
type Config struct {
	DatabaseURL string // empty enables the in-memory store
	Port        int
	BearerToken string

	RedisAddr     string // empty disables the pub/sub notifier
	RedisPassword string
	RedisDB       int

	MQTTBroker   string // empty disables the broker consumer
	MQTTClientID string
	MQTTTopic    string

	AlertWebhookURL string // empty disables danger-alert forwarding

	LogLevel  string
	LogFormat string

	DefaultDays   int
	DefaultPeriod string
}

// Load reads configuration from environment variables (optionally .env).
func Load() (Config, error) {
	_ = godotenv.Load() // ignore missing file

	cfg := Config{
		Port:          8080,
		MQTTClientID:  "aura-api",
		MQTTTopic:     "aura/+/readings",
		LogLevel:      "info",
		LogFormat:     "json",
		DefaultDays:   7,
		DefaultPeriod: "day",
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 {
			return cfg, fmt.Errorf("invalid PORT: %s", portStr)
		}
		cfg.Port = port
	}

	cfg.BearerToken = os.Getenv("API_BEARER_TOKEN")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil || db < 0 {
			return cfg, fmt.Errorf("invalid REDIS_DB: %s", dbStr)
		}
		cfg.RedisDB = db
	}

	cfg.MQTTBroker = os.Getenv("MQTT_BROKER")
	if id := os.Getenv("MQTT_CLIENT_ID"); id != "" {
		cfg.MQTTClientID = id
	}
	if topic := os.Getenv("MQTT_TOPIC"); topic != "" {
		cfg.MQTTTopic = topic
	}

	cfg.AlertWebhookURL = os.Getenv("ALERT_WEBHOOK_URL")

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.LogLevel = level
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.LogFormat = format
	}

	if daysStr := os.Getenv("API_DEFAULT_DAYS"); daysStr != "" {
		days, err := strconv.Atoi(daysStr)
		if err != nil || days <= 0 {
			return cfg, fmt.Errorf("invalid API_DEFAULT_DAYS: %s", daysStr)
		}
		cfg.DefaultDays = days
	}

	if period := os.Getenv("API_DEFAULT_PERIOD"); period != "" {
		if period != "hour" && period != "day" {
			return cfg, errors.New("API_DEFAULT_PERIOD must be hour or day")
		}
		cfg.DefaultPeriod = period
	}

	return cfg, nil
}

// ListenAddr returns the host:port string for the HTTP server.
func (c Config) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}
