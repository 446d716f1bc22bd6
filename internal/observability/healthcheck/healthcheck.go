package healthcheck

import (
	"context"
	"fmt"
	"os"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/services"
)

var logger zerolog.Logger = log.Logger

func SetLogger(customLogger zerolog.Logger) {
	logger = customLogger
}

// StartHealthCheckCron periodically verifies the db and the program
// gateway are reachable; the process terminates if either goes away so
// the scheduler can restart it clean.
func StartHealthCheckCron(ctx context.Context, svc *services.Services, cronTime int) error {
	c := cron.New()
	logger.Info().Msg("Initiated Health Check Cron")

	if cronTime == 0 {
		cronTime = 60
	}

	cronSpec := fmt.Sprintf("@every %ds", cronTime)

	_, err := c.AddFunc(cronSpec, func() {
		livenessCheck(ctx, svc)
	})

	if err != nil {
		return err
	}

	c.Start()

	go func() {
		<-ctx.Done()
		logger.Info().Msg("Stopping Health Check Cron")
		c.Stop()
	}()

	return nil
}

func livenessCheck(ctx context.Context, svc *services.Services) {
	if err := svc.DoHealthCheck(ctx); err != nil {
		logger.Error().Err(err).Msg("The db or the program gateway is not healthy.")
		terminateService()
	}
}

func terminateService() {
	logger.Fatal().Msg("Terminating service due to health check failure.")
	os.Exit(1)
}
