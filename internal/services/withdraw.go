package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/db"
	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

const amountDecimalPlaces = 2

// WithdrawRequestPublic is the API-facing shape of a withdraw request.
type WithdrawRequestPublic struct {
	Id              string  `json:"id"`
	WalletAddress   string  `json:"wallet_address"`
	TokenAmount     uint64  `json:"token_amount"`
	RequestedAmount string  `json:"requested_amount"`
	ExitFee         string  `json:"exit_fee"`
	ReceivedAmount  string  `json:"received_amount,omitempty"`
	EstimatedDays   float64 `json:"estimated_days"`
	Status          string  `json:"status"`
	ChainStatus     string  `json:"chain_status,omitempty"`
	TxSignature     string  `json:"tx_signature,omitempty"`
	ProcessedAt     string  `json:"processed_at,omitempty"`
	CreatedAt       string  `json:"created_at"`
}

func fromWithdrawRequestDocument(doc *model.WithdrawRequestDocument) *WithdrawRequestPublic {
	public := &WithdrawRequestPublic{
		Id:              doc.Id,
		WalletAddress:   doc.WalletAddress,
		TokenAmount:     doc.TokenAmount,
		RequestedAmount: doc.RequestedAmount,
		ExitFee:         doc.ExitFee,
		ReceivedAmount:  doc.ReceivedAmount,
		EstimatedDays:   doc.EstimatedDays,
		Status:          doc.Status.ToString(),
		ChainStatus:     doc.ChainStatus.ToString(),
		TxSignature:     doc.TxSignature,
		CreatedAt:       doc.CreatedAt.Format(time.RFC3339),
	}
	if doc.ProcessedAt != nil {
		public.ProcessedAt = doc.ProcessedAt.Format(time.RFC3339)
	}
	return public
}

// CreateWithdrawRequest persists a new withdraw request in
// pending_to_execute. At most one non-terminal request may exist per
// (wallet, amount) pair; reconciliation relies on that invariant to
// correlate local records with queue activity.
func (s *Services) CreateWithdrawRequest(
	ctx context.Context, walletAddress string, tokenAmount, minTokenAmount uint64,
	minReserveAmount float64, estimatedDays float64,
) (*WithdrawRequestPublic, *types.Error) {
	if tokenAmount == 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "token amount must be positive",
		)
	}
	if tokenAmount < minTokenAmount {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("token amount must be at least %d", minTokenAmount),
		)
	}

	requestedAmount := tokenAmountToReserveValue(
		tokenAmount, s.cfg.Chain.TokenUnit, s.cfg.Chain.GetUnitPrice(),
	)
	if requestedAmount.LessThan(decimal.NewFromFloat(minReserveAmount)) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest,
			fmt.Sprintf("reserve amount must be at least %v", minReserveAmount),
		)
	}

	// Best-effort balance read; the program is authoritative on
	// sufficiency at settlement time, so a short balance does not block
	// the request.
	balance, err := s.Chain.TokenBalance(ctx, walletAddress)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("wallet", walletAddress).
			Msg("could not read token balance at request creation")
	} else if balance < tokenAmount {
		log.Ctx(ctx).Warn().Str("wallet", walletAddress).
			Uint64("balance", balance).Uint64("amount", tokenAmount).
			Msg("requested amount exceeds current token balance")
	}

	active, err := s.DbClient.CountActiveWithdrawRequests(ctx, walletAddress, tokenAmount)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("error while counting active withdraw requests")
		return nil, types.NewInternalServiceError(err)
	}
	if active > 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusConflict, types.Conflict,
			"a withdraw request for this wallet and amount is already in flight",
		)
	}

	now := time.Now().UTC()
	document := &model.WithdrawRequestDocument{
		Id:              uuid.NewString(),
		WalletAddress:   utils.NormalizeWalletAddress(walletAddress),
		TokenAmount:     tokenAmount,
		RequestedAmount: requestedAmount.StringFixed(amountDecimalPlaces),
		ExitFee:         decimal.Zero.StringFixed(amountDecimalPlaces),
		EstimatedDays:   estimatedDays,
		Status:          types.PendingToExecute,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.DbClient.SaveWithdrawRequest(ctx, document); err != nil {
		if db.IsDuplicateKeyError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusConflict, types.Conflict, "withdraw request already exists",
			)
		}
		log.Ctx(ctx).Error().Err(err).Msg("error while saving withdraw request")
		return nil, types.NewInternalServiceError(err)
	}
	metrics.RecordStatusTransition(types.PendingToExecute.ToString())

	return fromWithdrawRequestDocument(document), nil
}

// AttachSettlementTransaction verifies a client-reported settlement
// transaction, prices it and stores the outcome on the request.
// Authorization: the transaction's first required signer must be the
// wallet the caller claims to act for.
func (s *Services) AttachSettlementTransaction(
	ctx context.Context, requestId, txSignature, walletAddress string,
) (*WithdrawRequestPublic, *types.Error) {
	document, err := s.DbClient.FindWithdrawRequestById(ctx, requestId)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound, "withdraw request not found",
			)
		}
		log.Ctx(ctx).Error().Err(err).Str("requestId", requestId).
			Msg("error while finding withdraw request")
		return nil, types.NewInternalServiceError(err)
	}

	verification, verifyErr := s.Chain.VerifyWithdrawTransaction(ctx, txSignature)
	if verifyErr != nil {
		log.Ctx(ctx).Warn().Err(verifyErr).Str("txSignature", txSignature).
			Msg("settlement transaction failed verification")
		return nil, verifyErr
	}

	signerWallet := utils.NormalizeWalletAddress(verification.WalletAddress)
	if signerWallet != utils.NormalizeWalletAddress(walletAddress) ||
		signerWallet != document.WalletAddress {
		return nil, types.NewErrorWithMsg(
			http.StatusForbidden, types.Forbidden, "unauthorized access to withdraw request",
		)
	}

	var pricing *SettlementPricing
	switch verification.WithdrawalType {
	case types.WithdrawalTypeImmediate:
		pricing = PriceImmediateSettlement(verification, s.cfg.Chain.TokenUnit)
	case types.WithdrawalTypeQueued:
		pricing = PriceQueuedSettlement(
			verification, s.cfg.Chain.TokenUnit, s.cfg.Chain.GetUnitPrice(), s.cfg.Chain.ExitFeeBps,
		)
	default:
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.UnclassifiedTransaction,
			fmt.Sprintf("invalid withdrawal type: %s", verification.WithdrawalType),
		)
	}

	update := &db.SettlementUpdate{
		RequestedAmount: pricing.RequestedAmount.StringFixed(amountDecimalPlaces),
		ExitFee:         pricing.ExitFee.StringFixed(amountDecimalPlaces),
		ReceivedAmount:  pricing.ReceivedAmount.StringFixed(amountDecimalPlaces),
		Status:          pricing.Status,
		ChainStatus:     pricing.ChainStatus,
		TxSignature:     txSignature,
		ProcessedAt:     pricing.ProcessedAt,
	}
	if err := s.DbClient.UpdateWithdrawRequestSettlement(ctx, requestId, update); err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound, "withdraw request not found",
			)
		}
		log.Ctx(ctx).Error().Err(err).Str("requestId", requestId).
			Msg("error while updating withdraw request settlement")
		return nil, types.NewInternalServiceError(err)
	}
	metrics.RecordStatusTransition(pricing.Status.ToString())

	document.RequestedAmount = update.RequestedAmount
	document.ExitFee = update.ExitFee
	document.ReceivedAmount = update.ReceivedAmount
	document.Status = update.Status
	document.ChainStatus = update.ChainStatus
	document.TxSignature = txSignature
	document.ProcessedAt = update.ProcessedAt

	if document.Status.IsTerminal() {
		s.publishSettled(ctx, document)
	}

	return fromWithdrawRequestDocument(document), nil
}

// GetWithdrawRequest returns the request by id.
func (s *Services) GetWithdrawRequest(ctx context.Context, id string) (*WithdrawRequestPublic, *types.Error) {
	document, err := s.DbClient.FindWithdrawRequestById(ctx, id)
	if err != nil {
		if db.IsNotFoundError(err) {
			return nil, types.NewErrorWithMsg(
				http.StatusNotFound, types.NotFound, "withdraw request not found",
			)
		}
		log.Ctx(ctx).Error().Err(err).Str("requestId", id).
			Msg("error while finding withdraw request")
		return nil, types.NewInternalServiceError(err)
	}
	return fromWithdrawRequestDocument(document), nil
}

// SettlementPricing is the priced outcome of a verified settlement, in
// reserve display units.
type SettlementPricing struct {
	RequestedAmount decimal.Decimal
	ExitFee         decimal.Decimal
	ReceivedAmount  decimal.Decimal
	Status          types.WithdrawStatus
	ChainStatus     types.ChainStatus
	ProcessedAt     *time.Time
}

// PriceImmediateSettlement prices a withdrawal the program paid out
// directly from reserves. The amounts come from the emitted event, so
// requested is exactly received plus fee.
func PriceImmediateSettlement(v *chain.TxVerification, tokenUnit uint64) *SettlementPricing {
	unit := decimal.NewFromInt(int64(tokenUnit))
	received := decimal.NewFromInt(int64(v.ReserveAmount)).Div(unit)
	fee := decimal.NewFromInt(int64(v.WithdrawalFee)).Div(unit)
	now := time.Now().UTC()

	return &SettlementPricing{
		RequestedAmount: received.Add(fee),
		ExitFee:         fee,
		ReceivedAmount:  received,
		Status:          types.Completed,
		ChainStatus:     types.ChainStatusCompletedImmediate,
		ProcessedAt:     &now,
	}
}

// PriceQueuedSettlement quotes a withdrawal the program enqueued instead
// of paying out. The final amounts are only known at batch settlement;
// until then the quote uses the configured unit price and fee schedule.
func PriceQueuedSettlement(
	v *chain.TxVerification, tokenUnit uint64, unitPrice decimal.Decimal, exitFeeBps uint64,
) *SettlementPricing {
	requested := tokenAmountToReserveValue(v.TokenAmount, tokenUnit, unitPrice)
	feeRate := decimal.NewFromInt(int64(exitFeeBps)).Div(decimal.NewFromInt(10000))
	fee := requested.Mul(feeRate)

	return &SettlementPricing{
		RequestedAmount: requested,
		ExitFee:         fee,
		ReceivedAmount:  requested.Sub(fee),
		Status:          types.PendingLiquidity,
		ChainStatus:     types.ChainStatusInQueue,
		ProcessedAt:     nil,
	}
}

func tokenAmountToReserveValue(tokenAmount, tokenUnit uint64, unitPrice decimal.Decimal) decimal.Decimal {
	unit := decimal.NewFromInt(int64(tokenUnit))
	return decimal.NewFromInt(int64(tokenAmount)).Div(unit).Mul(unitPrice)
}
