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
	"max.ks1230/expenses-tracker/internal/model/expenses"
	"max.ks1230/expenses-tracker/internal/model/storage"
	"max.ks1230/expenses-tracker/internal/model/users"
	"max.ks1230/expenses-tracker/internal/security"
	"max.ks1230/expenses-tracker/internal/server"
	"max.ks1230/expenses-tracker/internal/tracing"
)

const serviceName = "expenses-server"

func main() {
	logger.Info("Server init - start")

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
	if err = db.Migrate(); err != nil {
		logger.Fatal("failed to migrate database:", zap.Error(err))
	}

	memcached, err := cache.NewMemcache(conf.Memcached())
	if err != nil {
		logger.Fatal("failed to init memcached:", zap.Error(err))
	}

	producer, err := kafka.NewProducer(conf.Kafka())
	if err != nil {
		logger.Fatal("failed to init kafka producer:", zap.Error(err))
	}
	defer producer.Close()

	usersService := users.NewService(db)
	expensesService := expenses.NewService(db)
	auth := security.NewAuthService(conf.Auth())
	sessions := server.NewSessionStore(conf.Auth().SessionTTL())

	srv := server.New(conf.Server(), usersService, expensesService, auth, sessions, producer, memcached)

	logger.Info("Server init - end")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err = srv.Run(ctx); err != nil {
		logger.Fatal("server stopped:", zap.Error(err))
	}
}
