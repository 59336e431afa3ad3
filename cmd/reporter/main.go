package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"max.ks1230/kinder-converter/internal/clients/kafka"
	"max.ks1230/kinder-converter/internal/config"
	"max.ks1230/kinder-converter/internal/logger"
	"max.ks1230/kinder-converter/internal/model/storage"
)

func main() {
	logger.Info("Reporter init - start")
	defer logger.Sync()

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}
	if !conf.Kafka().Enabled() {
		logger.Fatal("kafka brokers and rates topic are required")
	}

	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}
	defer db.Close()

	consumer, err := kafka.NewConsumer(conf.Kafka(), db)
	if err != nil {
		logger.Fatal("failed to init kafka consumer", zap.Error(err))
	}
	defer consumer.Close()

	logger.Info("Reporter init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Error("failed to consume rates events", zap.Error(err))
	}
}
