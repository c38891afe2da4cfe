package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"kharcha/internal/alerts"
	"kharcha/internal/amqp"
	"kharcha/internal/auth"
	"kharcha/internal/cli"
	apphttp "kharcha/internal/http"
	applog "kharcha/internal/log"
	"kharcha/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentApp)

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.InitStore(logger, cfg)

	// AMQP is optional. Without it expense events and budget alerts
	// stay local and everything else keeps working.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		var err error
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventQueue, cfg.AMQPAlertQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, continuing without events", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP connected", "exchange", cfg.AMQPExchange)
		}
	}

	var events services.EventPublisher
	var notifier alerts.Notifier
	if amqpClient != nil {
		events = amqpClient
		notifier = amqpClient
	}

	ledger := services.NewLedgerService(store, events)
	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	monitor := alerts.NewMonitor(notifier)

	srv := apphttp.NewServer(":"+cfg.Port, ledger, store, tokens, monitor)
	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func(shutdownCtx context.Context) {
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := ledger.Close(); err != nil {
			logger.Error("Store close error", "error", err)
		}
	})

	logger.Info("Starting kharcha server", "port", cfg.Port, "backend", cfg.DataBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
