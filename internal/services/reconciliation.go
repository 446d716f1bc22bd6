package services

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/db"
	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
	"github.com/refi-protocol/withdraw-api-service/internal/queue"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

// ExecuteBatch submits the planned batch as a single settlement call.
// A rejected or unconfirmed call leaves every local record untouched;
// the next cycle replans from a fresh snapshot.
func (s *Services) ExecuteBatch(ctx context.Context, plan *BatchPlan) (*chain.BatchResult, *types.Error) {
	result, err := s.Chain.SubmitBatchWithdraw(ctx, plan.Amounts(), plan.Accounts())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Int("items", len(plan.Items)).
			Msg("batch withdraw submission failed")
		return nil, types.NewError(http.StatusBadGateway, types.BatchSubmitFailed, err)
	}
	return result, nil
}

// ReconcileAfterBatch resolves per-item outcomes of a landed batch call.
// The call yields no per-item result, so this runs in two steps: first
// optimistically complete every predicted-valid item, then re-read each
// holder's balance and fail the items the program skipped (their balance
// is still at least the requested amount's worth short of being burned).
// Items completed in the first step are terminal by the time the second
// step runs, so the correction never touches them.
func (s *Services) ReconcileAfterBatch(ctx context.Context, plan *BatchPlan, txSignature string) {
	for _, item := range plan.Items {
		if !item.PredictedValid {
			continue
		}
		s.transitionRequest(
			ctx, item.Item.HolderAddress, item.Item.Amount,
			types.Completed, types.ChainStatusCompletedBatch, txSignature,
		)
	}

	for _, item := range plan.Items {
		balance, err := s.Chain.TokenBalance(ctx, item.Item.HolderAddress)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("wallet", item.Item.HolderAddress).
				Msg("post-batch balance read failed, leaving request untouched")
			continue
		}
		if balance < item.Item.Amount {
			s.transitionRequest(
				ctx, item.Item.HolderAddress, item.Item.Amount,
				types.Failed, types.ChainStatusFailed, "",
			)
		}
	}
}

// SyncSettledRequests completes local requests that disappeared from the
// pending queue. Absence from a fresh snapshot is the only observable
// settlement signal for requests that never had a transaction signature
// recorded locally. Runs every cycle, batch or not, and is idempotent.
func (s *Services) SyncSettledRequests(ctx context.Context) error {
	pendingRequests, err := s.DbClient.FindWithdrawRequestsByStatuses(
		ctx, utils.QualifiedStatesToComplete(),
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while fetching pending withdraw requests")
		return err
	}
	if len(pendingRequests) == 0 {
		return nil
	}

	snapshot, err := s.Chain.PoolState(ctx)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("cannot fetch pool state for settlement sync")
		return err
	}

	queueWallets := make(map[string]struct{}, len(snapshot.PendingQueue))
	for _, item := range snapshot.PendingQueue {
		queueWallets[utils.NormalizeWalletAddress(item.HolderAddress)] = struct{}{}
	}

	for _, request := range pendingRequests {
		if _, inQueue := queueWallets[utils.NormalizeWalletAddress(request.WalletAddress)]; inQueue {
			continue
		}

		// Never guess completion for a record whose address the ledger
		// could not have accepted in the first place.
		if !utils.IsValidWalletAddress(request.WalletAddress) {
			log.Ctx(ctx).Warn().Str("requestId", request.Id).Str("wallet", request.WalletAddress).
				Msg("skipping request with malformed wallet address")
			continue
		}

		if err := s.DbClient.MarkWithdrawRequestCompleted(ctx, request.Id); err != nil {
			if db.IsNotFoundError(err) {
				// Already terminal, nothing to do.
				continue
			}
			log.Ctx(ctx).Error().Err(err).Str("requestId", request.Id).
				Msg("error while completing settled withdraw request")
			continue
		}
		metrics.RecordStatusTransition(types.Completed.ToString())
		log.Ctx(ctx).Info().Str("requestId", request.Id).
			Msg("marked request as completed (removed from queue)")

		request.Status = types.Completed
		now := time.Now().UTC()
		request.ProcessedAt = &now
		s.publishSettled(ctx, &request)
	}

	return nil
}

// transitionRequest updates the single non-terminal request matching the
// wallet and amount. Zero or multiple matches are logged no-ops: the
// uniqueness invariant is enforced at creation time, but an ambiguous
// match must never guess which record to move.
func (s *Services) transitionRequest(
	ctx context.Context, walletAddress string, tokenAmount uint64,
	newStatus types.WithdrawStatus, chainStatus types.ChainStatus, txSignature string,
) {
	err := s.DbClient.TransitionWithdrawRequestState(
		ctx, walletAddress, tokenAmount, newStatus, chainStatus, txSignature,
	)
	if err != nil {
		if db.IsNotFoundError(err) {
			log.Ctx(ctx).Debug().Str("wallet", walletAddress).Uint64("amount", tokenAmount).
				Msg("no matching non-terminal request for transition")
			return
		}
		if db.IsAmbiguousMatchError(err) {
			log.Ctx(ctx).Warn().Str("wallet", walletAddress).Uint64("amount", tokenAmount).
				Msg("ambiguous withdraw request match, skipping transition")
			return
		}
		log.Ctx(ctx).Error().Err(err).Str("wallet", walletAddress).Uint64("amount", tokenAmount).
			Msg("failed to transition withdraw request state")
		return
	}

	metrics.RecordStatusTransition(newStatus.ToString())
	log.Ctx(ctx).Info().Str("wallet", walletAddress).Uint64("amount", tokenAmount).
		Str("status", newStatus.ToString()).Msg("updated withdraw request status")

	if newStatus.IsTerminal() {
		event := &queue.WithdrawalSettledEvent{
			EventType:       queue.WithdrawalSettledEventType,
			WalletAddress:   utils.NormalizeWalletAddress(walletAddress),
			TokenAmount:     tokenAmount,
			Status:          newStatus.ToString(),
			ChainStatus:     chainStatus.ToString(),
			TxSignature:     txSignature,
			SettledAtMillis: time.Now().UnixMilli(),
		}
		s.Publisher.PublishWithdrawalSettled(ctx, event)
	}
}

func (s *Services) publishSettled(ctx context.Context, document *model.WithdrawRequestDocument) {
	event := &queue.WithdrawalSettledEvent{
		EventType:       queue.WithdrawalSettledEventType,
		RequestId:       document.Id,
		WalletAddress:   document.WalletAddress,
		TokenAmount:     document.TokenAmount,
		Status:          document.Status.ToString(),
		ChainStatus:     document.ChainStatus.ToString(),
		TxSignature:     document.TxSignature,
		SettledAtMillis: time.Now().UnixMilli(),
	}
	s.Publisher.PublishWithdrawalSettled(ctx, event)
}
