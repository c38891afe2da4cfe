package main

import (
	"context"
	"errors"
	"os"
	"time"

	"kharcha/internal/amqp"
	"kharcha/internal/cli"
	applog "kharcha/internal/log"
	"kharcha/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentWorker)

	logger.Info("Starting kharcha-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPEventQueue, cfg.AMQPAlertQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	alertWorker := worker.NewAlertWorker(worker.LogSender{}, 3)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) {
		if err := amqpClient.Close(); err != nil {
			logger.Error("AMQP close error", "error", err)
		}
	})

	go func() {
		err := amqpClient.ConsumeBudgetAlertsWithReconnect(ctx, cfg.AMQPURL, alertWorker.HandleAlertMessage)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Alert consumption stopped", "error", err)
		}
	}()

	logger.Info("Worker ready", "queue", cfg.AMQPAlertQueue)
	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
