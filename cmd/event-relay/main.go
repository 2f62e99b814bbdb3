package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lcsmrct/Henna-alicia/internal/config"
	"github.com/Lcsmrct/Henna-alicia/internal/db"
	"github.com/Lcsmrct/Henna-alicia/internal/events"
	"github.com/Lcsmrct/Henna-alicia/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	logger := logging.New(cfg.LogLevel).With("service", "event-relay")

	brokers := events.SplitBrokers(cfg.KafkaBrokers)
	if len(brokers) == 0 {
		logger.Info("KAFKA_BROKERS not set, nothing to relay")
		return
	}

	logger.Info("event relay starting up", "env", cfg.Env, "interval", cfg.RelayInterval, "topic", cfg.KafkaTopic)

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Error("postgres connection error", "error", err)
		os.Exit(1)
	}
	defer pgPool.Close()
	logger.Info("connected to Postgres")

	writer := events.NewKafkaWriter(brokers, cfg.KafkaTopic)
	defer func() {
		if err := writer.Close(); err != nil {
			logger.Warn("error closing kafka writer", "error", err)
		}
	}()

	relay := events.NewRelay(pgPool, writer, logger, events.RelayConfig{
		Interval:  cfg.RelayInterval,
		BatchSize: cfg.RelayBatchSize,
	})
	relay.Run(rootCtx)

	logger.Info("event relay stopped")
}
