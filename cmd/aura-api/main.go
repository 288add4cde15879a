package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"github.com/mvelasco/aura/internal/comfort"
	"github.com/mvelasco/aura/internal/config"
	"github.com/mvelasco/aura/internal/httpapi"
	"github.com/mvelasco/aura/internal/logging"
	"github.com/mvelasco/aura/internal/mqtt"
	"github.com/mvelasco/aura/internal/notify"
	"github.com/mvelasco/aura/internal/repository"
	"github.com/mvelasco/aura/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "aura-api")
	if err != nil {
		log.Fatalf("initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		rooms    repository.RoomsRepository
		readings repository.ReadingsRepository
	)
	if cfg.DatabaseURL != "" {
		store, err := repository.NewStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("connect to database", zap.Error(err))
		}
		defer store.Close()
		rooms, readings = store, store
		logger.Info("using PostgreSQL store")
	} else {
		store := repository.NewMemoryStore()
		rooms, readings = store, store
		logger.Warn("DATABASE_URL not set, using in-memory store; data is lost on restart")
	}

	var publishers []notify.Publisher
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Fatal("connect to Redis", zap.Error(err))
		}
		defer client.Close()
		publishers = append(publishers, notify.NewRedisNotifier(client, logger))
		logger.Info("Redis notifier enabled", zap.String("addr", cfg.RedisAddr))
	}
	if cfg.AlertWebhookURL != "" {
		publishers = append(publishers, notify.NewWebhookNotifier(cfg.AlertWebhookURL, logger))
		logger.Info("alert webhook enabled")
	}

	var notifier service.Notifier
	if len(publishers) > 0 {
		notifier = notify.NewMulti(publishers...)
	}

	engine := comfort.NewDefaultEngine()
	roomsSvc := service.NewRooms(rooms)
	ingestor := service.NewIngestor(rooms, readings, engine, notifier, logger)
	reporter := service.NewReporter(rooms, readings)

	if cfg.MQTTBroker != "" {
		consumer, err := mqtt.NewConsumer(cfg.MQTTBroker, cfg.MQTTClientID, cfg.MQTTTopic, ingestor, logger)
		if err != nil {
			logger.Fatal("connect to MQTT broker", zap.Error(err))
		}
		if err := consumer.Start(); err != nil {
			logger.Fatal("start MQTT consumer", zap.Error(err))
		}
		defer consumer.Close()
	}

	server := httpapi.New(cfg, roomsSvc, ingestor, reporter, readings, logger)
	logger.Info("starting HTTP server", zap.String("addr", cfg.ListenAddr()))
	if err := server.Run(ctx); err != nil {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
