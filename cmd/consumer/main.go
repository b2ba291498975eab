package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v6"
	"github.com/samber/do"
	"github.com/serroba/shortlink-client/internal/container"
	"github.com/serroba/shortlink-client/internal/messaging"
	"go.uber.org/zap"
)

type config struct {
	RedisAddr     string `env:"REDIS_ADDR"     envDefault:"localhost:6379"`
	ConsumerGroup string `env:"CONSUMER_GROUP" envDefault:"analytics"`
	LogFormat     string `env:"LOG_FORMAT"     envDefault:"console"`
	LogLevel      string `env:"LOG_LEVEL"      envDefault:"info"`
}

func main() {
	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("parse config: %v", err)
	}

	opts := &container.Options{
		RedisAddr:     cfg.RedisAddr,
		ConsumerGroup: cfg.ConsumerGroup,
		Events:        container.EventsRedis,
	}

	injector := do.New()
	do.ProvideValue(injector, opts)
	do.ProvideValue(injector, container.LogConfig{Format: cfg.LogFormat, Level: cfg.LogLevel})
	container.LoggerPackage(injector)
	container.RedisPackage(injector)
	container.SubscriberPackage(injector)
	container.ConsumerGroupPackage(injector)

	logger := do.MustInvoke[*zap.Logger](injector)
	group := do.MustInvoke[*messaging.ConsumerGroup](injector)

	ctx, cancel := context.WithCancel(context.Background())

	if err := group.Start(ctx); err != nil {
		logger.Fatal("failed to start consumer group", zap.Error(err))
	}

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutting down")
	cancel()

	if err := injector.Shutdown(); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}

	logger.Info("shutdown complete")
	_ = logger.Sync()
}
