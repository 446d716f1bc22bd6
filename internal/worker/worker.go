package worker

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/config"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
	"github.com/refi-protocol/withdraw-api-service/internal/services"
)

// Worker drives the reconciliation cycle on a fixed interval: read the
// pool snapshot, plan a liquidity-bounded batch, submit it, then resolve
// local request statuses. Cycles never overlap; a tick that fires while
// the previous cycle is still running is skipped.
type Worker struct {
	cfg      *config.WorkerConfig
	services *services.Services
	cron     *cron.Cron
}

func New(cfg *config.WorkerConfig, services *services.Services) *Worker {
	return &Worker{
		cfg:      cfg,
		services: services,
	}
}

func (w *Worker) Start(ctx context.Context) error {
	c := cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DiscardLogger),
	))

	cronSpec := fmt.Sprintf("@every %ds", w.cfg.IntervalSeconds)
	_, err := c.AddFunc(cronSpec, func() {
		w.RunCycle(ctx)
	})
	if err != nil {
		return err
	}

	c.Start()
	w.cron = c
	log.Info().Str("interval", cronSpec).Msg("withdraw queue worker started")

	go func() {
		<-ctx.Done()
		log.Info().Msg("stopping withdraw queue worker")
		c.Stop()
	}()

	return nil
}

// RunCycle executes one full cycle to completion. Every stage failure
// aborts the remaining stages of this cycle and is logged; the next tick
// starts clean from a fresh snapshot.
func (w *Worker) RunCycle(ctx context.Context) {
	timer := metrics.StartCycleDurationTimer()
	logger := log.With().Str("component", "withdraw-queue-worker").Logger()
	ctx = logger.WithContext(ctx)

	logger.Info().Msg("starting withdraw reconciliation cycle")

	snapshot, err := w.services.Chain.PoolState(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("cannot fetch pool state, aborting cycle")
		timer(metrics.Error)
		return
	}
	logger.Info().
		Int64("totalReserves", snapshot.TotalReserves).
		Uint64("exchangeRate", snapshot.ExchangeRate).
		Int("queueLength", len(snapshot.PendingQueue)).
		Msg("pool state")

	plan := w.services.PlanBatch(ctx, snapshot)
	if len(plan.Items) > 0 {
		logger.Info().Int("items", len(plan.Items)).
			Uint64("remainingReserves", plan.RemainingReserves).
			Msg("executing batch withdraw")

		result, execErr := w.services.ExecuteBatch(ctx, plan)
		if execErr != nil {
			// No local state was touched; the next cycle replans from a
			// fresh snapshot.
			timer(metrics.Error)
			return
		}
		logger.Info().Str("txSignature", result.TxSignature).Msg("batch withdraw landed")

		w.services.ReconcileAfterBatch(ctx, plan, result.TxSignature)
	} else {
		logger.Info().Msg("no items admitted this cycle")
	}

	if err := w.services.SyncSettledRequests(ctx); err != nil {
		timer(metrics.Error)
		return
	}

	logger.Info().Msg("withdraw reconciliation cycle completed")
	timer(metrics.Success)
}
