package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"max.ks1230/expenses-tracker/internal/clients/cache"
	"max.ks1230/expenses-tracker/internal/clients/kafka"
	"max.ks1230/expenses-tracker/internal/config"
	"max.ks1230/expenses-tracker/internal/logger"
	"max.ks1230/expenses-tracker/internal/model/reports"
	"max.ks1230/expenses-tracker/internal/model/storage"
	"max.ks1230/expenses-tracker/internal/tracing"
)

const serviceName = "expenses-reporter"

func main() {
	logger.Info("Reporter init - start")

	if err := godotenv.Load(); err != nil {
		logger.Info("no .env file, relying on the environment")
	}

	conf, err := config.New()
	if err != nil {
		logger.Fatal("failed to init config:", zap.Error(err))
	}

	traceCloser, err := tracing.Init(serviceName)
	if err != nil {
		logger.Fatal("failed to init tracing:", zap.Error(err))
	}
	defer traceCloser.Close()

	db, err := storage.NewPostgresStorage(conf.Postgres())
	if err != nil {
		logger.Fatal("failed to init postgres:", zap.Error(err))
	}

	memcached, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Fatal("failed to init memcached:", zap.Error(err))
	}

	reportGenerator := reports.NewGenerator(db)

	consumer, err := kafka.NewConsumer(conf.Kafka(), reportGenerator, memcached)
	if err != nil {
		logger.Fatal("failed to init kafka consumer:", zap.Error(err))
	}

	logger.Info("Reporter init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = consumer.StartConsuming(ctx); err != nil {
		logger.Fatal("failed to start consuming", zap.Error(err))
	}
}
