package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/Skotchmaster/cart_shop/internal/httpserver"
	"github.com/Skotchmaster/cart_shop/internal/jobs"
	"github.com/Skotchmaster/cart_shop/internal/mykafka"
	"github.com/Skotchmaster/cart_shop/internal/notify"
	"github.com/Skotchmaster/cart_shop/internal/repo"
	"github.com/Skotchmaster/cart_shop/internal/search"
	"github.com/Skotchmaster/cart_shop/internal/service"
	"github.com/Skotchmaster/cart_shop/internal/stock"
	"github.com/Skotchmaster/cart_shop/pkg/authclient"
	"github.com/Skotchmaster/cart_shop/pkg/config"
	"github.com/Skotchmaster/cart_shop/pkg/db"
	"github.com/Skotchmaster/cart_shop/pkg/logging"
	loggingmw "github.com/Skotchmaster/cart_shop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")
	config.MustNonEmptyBytes(cfg.JWTAccessSecret, "JWT_SECRET")

	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
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
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Error("db_init_failed", "error", err)
		os.Exit(1)
	}

	store := &repo.GormRepo{DB: gdb}

	var (
		queue    jobs.Queue
		producer *mykafka.Producer
		workers  sync.WaitGroup
	)
	if len(cfg.KafkaBrokers) > 0 {
		producer = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaJobsTopic)
		queue = producer
		log.Info("job_queue", "transport", "kafka", "brokers", strings.Join(cfg.KafkaBrokers, ","), "topic", cfg.KafkaJobsTopic)
	} else {
		local := jobs.NewChanQueue(256)
		queue = local

		mailer := notify.NewMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom, log)
		dispatcher := notify.NewDispatcher(mailer, store, cfg.AdminEmail)
		pool := &jobs.Pool{Workers: cfg.Workers, Handlers: dispatcher.Handlers(), Logger: log}

		workers.Add(1)
		go func() {
			defer workers.Done()
			if err := pool.Run(ctx, local); err != nil {
				log.Error("worker_pool_stopped", "error", err)
			}
		}()
		log.Info("job_queue", "transport", "memory", "workers", cfg.Workers)
	}

	var indexer service.Indexer
	if cfg.ESURL != "" {
		es, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Warn("search_disabled", "error", err)
		} else {
			indexer = search.NewSearcher(es, cfg.ESIndex)
		}
	}

	catalog := &service.CatalogService{
		Repo:   store,
		Ledger: stock.NewLedger(store, queue),
		Search: indexer,
	}

	workers.Add(1)
	go func() {
		defer workers.Done()
		err := jobs.Daily(ctx, cfg.ReportAt, nil, func(ctx context.Context, tick time.Time) {
			job, err := jobs.NewDailySalesReport(tick)
			if err != nil {
				log.Error("daily_report_schedule_failed", "error", err)
				return
			}
			ectx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := queue.Enqueue(ectx, job); err != nil {
				log.Error("daily_report_schedule_failed", "error", err)
				return
			}
			log.Info("daily_report_scheduled", "job_id", job.ID.String(), "date", tick.Format(jobs.DateLayout))
		})
		if err != nil {
			log.Error("scheduler_failed", "error", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(loggingmw.RequestLogger(log))
	e.Use(middleware.CORS())
	httpserver.Setup(e)

	var authClient *authclient.Client
	if cfg.AuthHTTPURL != "" {
		authClient = authclient.NewClient(cfg.AuthHTTPURL)
	}

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:    &httpserver.CartHTTP{Svc: service.NewCartService(store)},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: catalog},
		AdminHandler:   &httpserver.AdminHTTP{Catalog: catalog, Queue: queue},
		JWTSecret:      cfg.JWTAccessSecret,
		AuthClient:     authClient,
		Ready: func() error {
			pingCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return sqlDB.PingContext(pingCtx)
		},
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Info("server_starting", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting_down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_failed", "error", err)
	}

	workers.Wait()

	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("kafka_close_failed", "error", err)
		}
	}
	if err := sqlDB.Close(); err != nil {
		log.Error("db_close_failed", "error", err)
	}

	log.Info("shutdown_complete")
}
