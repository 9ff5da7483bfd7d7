package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kingbhau/gas-inventory-sub000/internal/config"
	"github.com/Kingbhau/gas-inventory-sub000/internal/infra"
	"github.com/Kingbhau/gas-inventory-sub000/internal/repository"
	"github.com/Kingbhau/gas-inventory-sub000/internal/router"
	"github.com/Kingbhau/gas-inventory-sub000/internal/service"
	"github.com/Kingbhau/gas-inventory-sub000/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Async receipt pipeline: payments enqueue a job, the pool generates the
	// PDF and mails it through the circuit breaker.
	mailer := infra.NewMailer(cfg)
	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	dispatcher := worker.NewDispatcher(rdb)
	receiptWorker := worker.NewReceiptWorker(mailer, smtpCB, cfg.AgencyName, cfg.ReceiptStoragePath)
	worker.StartWorkerPool(ctx, rdb, cfg.WorkerPoolSize, receiptWorker)

	// Periodic ledger drift audit.
	repairSvc := service.NewLedgerRepairService(repository.NewLedgerRepository(db))
	worker.StartIntegrityCron(ctx, repairSvc, time.Duration(cfg.IntegrityCheckMinutes)*time.Minute)

	r := router.New(cfg, db, rdb, dispatcher)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("ledger engine listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
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
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
