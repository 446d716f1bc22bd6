package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
)

// PlanItem is one admitted queue item with its reserve cost and the
// planner's balance prediction. PredictedValid is bookkeeping only:
// admission never depends on it, because the program performs its own
// balance check and silently skips invalid entries inside the batch call.
type PlanItem struct {
	Item           chain.QueueItem
	PredictedValid bool
	GrossCost      uint64
	Fee            uint64
	TotalCost      uint64
}

// BatchPlan is the liquidity-bounded FIFO prefix of the pending queue
// selected for one settlement call.
type BatchPlan struct {
	Items             []PlanItem
	ExchangeRate      uint64
	InitialReserves   int64
	RemainingReserves uint64
}

// Amounts returns the settlement amounts in admission order.
func (p *BatchPlan) Amounts() []uint64 {
	amounts := make([]uint64, 0, len(p.Items))
	for _, item := range p.Items {
		amounts = append(amounts, item.Item.Amount)
	}
	return amounts
}

// Accounts returns the account references paired with Amounts, two per
// item, in admission order.
func (p *BatchPlan) Accounts() []chain.AccountRef {
	accounts := make([]chain.AccountRef, 0, 2*len(p.Items))
	for _, item := range p.Items {
		accounts = append(accounts,
			chain.AccountRef{Address: item.Item.HolderTokenAccount, IsSigner: false, IsWritable: true},
			chain.AccountRef{Address: item.Item.HolderReserveAccount, IsSigner: false, IsWritable: true},
		)
	}
	return accounts
}

// BalanceOracle resolves a wallet's redeemable-token balance. Reads are
// best-effort and may be stale; the planner only uses them for the
// PredictedValid flag.
type BalanceOracle interface {
	TokenBalance(ctx context.Context, walletAddress string) (uint64, error)
}

// PlanBatch builds the execution batch from a pool snapshot. Admission is
// strict FIFO over declared reserves: items are costed in queue order and
// the scan stops at the first item the remaining reserves cannot cover,
// so a later item can never jump ahead of an earlier one.
func PlanBatch(
	ctx context.Context, snapshot *chain.PoolState, oracle BalanceOracle,
	rateScale uint64, exitFeeBps uint64,
) *BatchPlan {
	plan := &BatchPlan{
		ExchangeRate:    snapshot.ExchangeRate,
		InitialReserves: snapshot.TotalReserves,
	}

	if snapshot.TotalReserves <= 0 {
		log.Ctx(ctx).Warn().Msg("no liquidity available, skipping batch planning")
		return plan
	}
	reserves := uint64(snapshot.TotalReserves)

	for i, item := range snapshot.PendingQueue {
		balance, err := oracle.TokenBalance(ctx, item.HolderAddress)
		if err != nil {
			// A stale or failed read must not exclude the item; the
			// program is authoritative on sufficiency.
			log.Ctx(ctx).Warn().Err(err).Str("wallet", item.HolderAddress).
				Msg("balance read failed, planning item as predicted-invalid")
			balance = 0
		}
		predictedValid := balance >= item.Amount
		if !predictedValid {
			log.Ctx(ctx).Warn().Str("wallet", item.HolderAddress).
				Uint64("amount", item.Amount).Uint64("balance", balance).
				Msg("insufficient balance predicted, item will be skipped by the program")
		}

		grossCost := item.Amount * snapshot.ExchangeRate / rateScale
		fee := grossCost * exitFeeBps / 10000
		totalCost := grossCost + fee

		if reserves < totalCost {
			log.Ctx(ctx).Warn().Int("position", i).Uint64("totalCost", totalCost).
				Uint64("remainingReserves", reserves).
				Msg("insufficient reserves, stopping batch at queue position")
			break
		}

		reserves -= totalCost
		plan.Items = append(plan.Items, PlanItem{
			Item:           item,
			PredictedValid: predictedValid,
			GrossCost:      grossCost,
			Fee:            fee,
			TotalCost:      totalCost,
		})
	}

	plan.RemainingReserves = reserves
	metrics.RecordBatchPlannedItems(len(plan.Items))
	return plan
}

// PlanBatch builds the batch for the current cycle using the gateway's
// balance oracle and the configured fee schedule.
func (s *Services) PlanBatch(ctx context.Context, snapshot *chain.PoolState) *BatchPlan {
	return PlanBatch(ctx, snapshot, s.Chain, s.cfg.Chain.RateScale, s.cfg.Chain.ExitFeeBps)
}
