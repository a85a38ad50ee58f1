package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/mykafka"
	"github.com/Skotchmaster/cart_shop/internal/notify"
	"github.com/Skotchmaster/cart_shop/internal/repo"
	"github.com/Skotchmaster/cart_shop/pkg/config"
	"github.com/Skotchmaster/cart_shop/pkg/db"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
)

// The worker consumes notification jobs published by the server when
// KAFKA_BROKERS is set.
func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmpty(strings.Join(cfg.KafkaBrokers, ","), "KAFKA_BROKERS")

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName+"-worker")
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.IntoContext(ctx, log)

	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, log)
	dispatcher := notify.NewDispatcher(mailer, &repo.GormRepo{DB: gdb}, cfg.AdminEmail)

	consumer := mykafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaJobsTopic, cfg.KafkaGroupID, log)
	pool := &jobs.Pool{Workers: cfg.Workers, Handlers: dispatcher.Handlers(), Logger: log}

	log.Info("worker_starting", "topic", cfg.KafkaJobsTopic, "group", cfg.KafkaGroupID, "workers", cfg.Workers)
	if err := pool.Run(ctx, consumer); err != nil {
		log.Error("worker_pool_stopped", "error", err)
	}

	if err := consumer.Close(); err != nil {
		log.Error("kafka_close_failed", "error", err)
	}
	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db_close_failed", "error", err)
		}
	}
	log.Info("worker_stopped")
}
