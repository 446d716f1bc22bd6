package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/cmd/withdraw-api-service/cli"
	"github.com/refi-protocol/withdraw-api-service/internal/api"
	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/config"
	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/healthcheck"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
	"github.com/refi-protocol/withdraw-api-service/internal/queue"
	"github.com/refi-protocol/withdraw-api-service/internal/services"
	"github.com/refi-protocol/withdraw-api-service/internal/worker"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("failed to load .env file")
	}
}

func main() {
	ctx := context.Background()

	// setup cli commands and flags
	if err := cli.Setup(); err != nil {
		log.Fatal().Err(err).Msg("error while setting up cli")
	}

	// load config
	cfgPath := cli.GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg(fmt.Sprintf("error while loading config file: %s", cfgPath))
	}

	// initialize metrics with the metrics port from config
	metricsPort := cfg.Metrics.GetMetricsPort()
	metrics.Init(metricsPort)

	err = model.Setup(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up withdraw db model")
	}

	// The gateway client is created once at startup and shared by the api
	// handlers and the worker for the lifetime of the process.
	chainClient := chain.NewClient(&cfg.Chain)

	publisher, err := queue.NewPublisher(&cfg.Queue)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up settlement event publisher")
	}

	services, err := services.New(ctx, cfg, chainClient, publisher)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up withdraw services layer")
	}

	// Start the reconciliation worker
	reconciliationWorker := worker.New(&cfg.Worker, services)
	if err = reconciliationWorker.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("error while starting reconciliation worker")
	}

	if err = healthcheck.StartHealthCheckCron(ctx, services, cfg.Server.HealthCheckInterval); err != nil {
		log.Fatal().Err(err).Msg("error while starting health check cron")
	}

	apiServer, err := api.New(ctx, cfg, services)
	if err != nil {
		log.Fatal().Err(err).Msg("error while setting up withdraw api service")
	}
	if err = apiServer.Start(); err != nil {
		log.Fatal().Err(err).Msg("error while starting withdraw api service")
	}
}
