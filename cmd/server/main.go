package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"stockpro/internal/config"
	"stockpro/internal/infra"
	"stockpro/internal/repository"
	"stockpro/internal/router"
	"stockpro/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Structured logger: dev: pretty, prod: JSON
	if cfg.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	telemetry, err := infra.InitTelemetry(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init telemetry")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Receipt pipeline: sale commit → receipt job (PDF) → e-mail job (SMTP).
	// Handlers are wired here (composition root) so the pool has full access
	// to the infrastructure.
	mailer := infra.NewMailer(cfg)
	dispatcher := worker.NewDispatcher(rdb)

	var emails worker.EmailEnqueuer
	if mailer.Enabled() {
		emails = dispatcher
	}
	pool := worker.NewPool(rdb, cfg.WorkerPoolSize)
	pool.Register(worker.QueueReceipt, worker.NewReceiptWorker(
		repository.NewSaleRepository(db), emails, cfg.BusinessName, cfg.ReceiptStoragePath))
	pool.Register(worker.QueueEmail, worker.NewEmailWorker(mailer))
	pool.Start(ctx)

	worker.StartReplayCron(ctx, worker.ReplayCronConfig{RDB: rdb, CB: mailer.Breaker(), Queue: worker.QueueEmail})

	r := router.New(cfg, router.Deps{
		DB:          db,
		Redis:       rdb,
		Dispatcher:  dispatcher,
		SMTPBreaker: mailer.Breaker(),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("StockPro backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}

	// Stop the workers after in-flight requests have enqueued their jobs.
	cancel()
	pool.Wait()

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("telemetry shutdown")
	}
	if err := rdb.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
	log.Info().Msg("server exited")
}
