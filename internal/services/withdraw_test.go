package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/db"
	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

func TestCreateWithdrawRequest(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	wallet := testWalletAddress(0x01)
	// 200,000 tokens with a 6-decimal unit
	tokenAmount := uint64(200_000_000_000)

	mockChain.On("TokenBalance", mock.Anything, wallet).Return(uint64(300_000_000_000), nil)
	mockDB.On("CountActiveWithdrawRequests", mock.Anything, wallet, tokenAmount).Return(int64(0), nil)

	var saved *model.WithdrawRequestDocument
	mockDB.On("SaveWithdrawRequest", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		saved = args.Get(1).(*model.WithdrawRequestDocument)
	}).Return(nil)

	public, err := svc.CreateWithdrawRequest(context.Background(), wallet, tokenAmount, 1, 0, 5)
	require.Nil(t, err)

	assert.Equal(t, wallet, public.WalletAddress)
	assert.Equal(t, tokenAmount, public.TokenAmount)
	assert.Equal(t, types.PendingToExecute.ToString(), public.Status)
	// unit price 1.0, so the quote is the token amount in display units
	assert.Equal(t, "200000.00", public.RequestedAmount)
	assert.Equal(t, "0.00", public.ExitFee)
	assert.Empty(t, public.TxSignature)
	assert.Empty(t, public.ProcessedAt)

	require.NotNil(t, saved)
	assert.NotEmpty(t, saved.Id, "a correlation id must be assigned at creation")
	assert.Equal(t, public.Id, saved.Id)
	assert.Equal(t, types.PendingToExecute, saved.Status)
}

func TestCreateWithdrawRequestZeroAmount(t *testing.T) {
	svc, _, _, _ := newTestServices(t)

	_, err := svc.CreateWithdrawRequest(context.Background(), testWalletAddress(0x01), 0, 1, 0, 5)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, types.BadRequest, err.ErrorCode)
}

func TestCreateWithdrawRequestBelowMinimum(t *testing.T) {
	svc, _, _, _ := newTestServices(t)

	_, err := svc.CreateWithdrawRequest(context.Background(), testWalletAddress(0x01), 100, 1_000, 0, 5)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
}

// At most one non-terminal request may exist per wallet and amount pair.
func TestCreateWithdrawRequestAlreadyInFlight(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	wallet := testWalletAddress(0x01)
	tokenAmount := uint64(1_000_000)

	mockChain.On("TokenBalance", mock.Anything, wallet).Return(uint64(5_000_000), nil)
	mockDB.On("CountActiveWithdrawRequests", mock.Anything, wallet, tokenAmount).Return(int64(1), nil)

	_, err := svc.CreateWithdrawRequest(context.Background(), wallet, tokenAmount, 1, 0, 5)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusConflict, err.StatusCode)
	assert.Equal(t, types.Conflict, err.ErrorCode)
	mockDB.AssertNotCalled(t, "SaveWithdrawRequest")
}

// A failed balance read is logged, not propagated. Sufficiency is checked
// by the program at settlement time.
func TestCreateWithdrawRequestBalanceReadFailure(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	wallet := testWalletAddress(0x01)
	tokenAmount := uint64(1_000_000)

	mockChain.On("TokenBalance", mock.Anything, wallet).
		Return(uint64(0), assert.AnError)
	mockDB.On("CountActiveWithdrawRequests", mock.Anything, wallet, tokenAmount).Return(int64(0), nil)
	mockDB.On("SaveWithdrawRequest", mock.Anything, mock.Anything).Return(nil)

	public, err := svc.CreateWithdrawRequest(context.Background(), wallet, tokenAmount, 1, 0, 5)
	require.Nil(t, err)
	assert.Equal(t, types.PendingToExecute.ToString(), public.Status)
}

func TestAttachSettlementTransactionImmediate(t *testing.T) {
	svc, mockDB, mockChain, mockPublisher := newTestServices(t)
	wallet := testWalletAddress(0x01)
	requestId := "req-1"
	txSignature := "sig-1"

	document := &model.WithdrawRequestDocument{
		Id:            requestId,
		WalletAddress: wallet,
		TokenAmount:   100_000_000,
		Status:        types.PendingToExecute,
		CreatedAt:     time.Now().UTC(),
	}
	mockDB.On("FindWithdrawRequestById", mock.Anything, requestId).Return(document, nil)
	mockChain.On("VerifyWithdrawTransaction", mock.Anything, txSignature).Return(&chain.TxVerification{
		WalletAddress:  wallet,
		WithdrawalType: types.WithdrawalTypeImmediate,
		TokenAmount:    100_000_000,
		ReserveAmount:  98_000_000,
		WithdrawalFee:  2_000_000,
	}, nil)

	var update *db.SettlementUpdate
	mockDB.On("UpdateWithdrawRequestSettlement", mock.Anything, requestId, mock.Anything).
		Run(func(args mock.Arguments) {
			update = args.Get(2).(*db.SettlementUpdate)
		}).Return(nil)
	mockPublisher.On("PublishWithdrawalSettled", mock.Anything, mock.Anything).Return()

	public, err := svc.AttachSettlementTransaction(context.Background(), requestId, txSignature, wallet)
	require.Nil(t, err)

	assert.Equal(t, types.Completed.ToString(), public.Status)
	assert.Equal(t, types.ChainStatusCompletedImmediate.ToString(), public.ChainStatus)
	assert.Equal(t, txSignature, public.TxSignature)
	assert.NotEmpty(t, public.ProcessedAt)

	require.NotNil(t, update)
	assert.Equal(t, "98.00", update.ReceivedAmount)
	assert.Equal(t, "2.00", update.ExitFee)
	assert.Equal(t, "100.00", update.RequestedAmount)
}

func TestAttachSettlementTransactionQueued(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	wallet := testWalletAddress(0x01)
	requestId := "req-2"
	txSignature := "sig-2"

	document := &model.WithdrawRequestDocument{
		Id:            requestId,
		WalletAddress: wallet,
		TokenAmount:   200_000_000_000,
		Status:        types.PendingToExecute,
		CreatedAt:     time.Now().UTC(),
	}
	mockDB.On("FindWithdrawRequestById", mock.Anything, requestId).Return(document, nil)
	mockChain.On("VerifyWithdrawTransaction", mock.Anything, txSignature).Return(&chain.TxVerification{
		WalletAddress:  wallet,
		WithdrawalType: types.WithdrawalTypeQueued,
		TokenAmount:    200_000_000_000,
		QueuePosition:  3,
	}, nil)

	var update *db.SettlementUpdate
	mockDB.On("UpdateWithdrawRequestSettlement", mock.Anything, requestId, mock.Anything).
		Run(func(args mock.Arguments) {
			update = args.Get(2).(*db.SettlementUpdate)
		}).Return(nil)

	public, err := svc.AttachSettlementTransaction(context.Background(), requestId, txSignature, wallet)
	require.Nil(t, err)

	// pending_liquidity is not terminal, so no settlement event is published
	assert.Equal(t, types.PendingLiquidity.ToString(), public.Status)
	assert.Equal(t, types.ChainStatusInQueue.ToString(), public.ChainStatus)
	assert.Empty(t, public.ProcessedAt)

	// 200,000 tokens at unit price 1.0 with a 2% exit fee
	require.NotNil(t, update)
	assert.Equal(t, "200000.00", update.RequestedAmount)
	assert.Equal(t, "4000.00", update.ExitFee)
	assert.Equal(t, "196000.00", update.ReceivedAmount)
}

// The transaction signer must match both the caller's claimed wallet and
// the wallet on record.
func TestAttachSettlementTransactionUnauthorized(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	signer := testWalletAddress(0x01)
	recordWallet := testWalletAddress(0x02)
	requestId := "req-3"
	txSignature := "sig-3"

	document := &model.WithdrawRequestDocument{
		Id:            requestId,
		WalletAddress: recordWallet,
		Status:        types.PendingToExecute,
		CreatedAt:     time.Now().UTC(),
	}
	mockDB.On("FindWithdrawRequestById", mock.Anything, requestId).Return(document, nil)
	mockChain.On("VerifyWithdrawTransaction", mock.Anything, txSignature).Return(&chain.TxVerification{
		WalletAddress:  signer,
		WithdrawalType: types.WithdrawalTypeImmediate,
	}, nil)

	_, err := svc.AttachSettlementTransaction(context.Background(), requestId, txSignature, signer)
	require.NotNil(t, err)
	assert.Equal(t, http.StatusForbidden, err.StatusCode)
	assert.Equal(t, types.Forbidden, err.ErrorCode)
	mockDB.AssertNotCalled(t, "UpdateWithdrawRequestSettlement")
}

func TestAttachSettlementTransactionVerificationFailure(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	requestId := "req-4"
	txSignature := "sig-4"

	document := &model.WithdrawRequestDocument{
		Id:            requestId,
		WalletAddress: testWalletAddress(0x01),
		Status:        types.PendingToExecute,
		CreatedAt:     time.Now().UTC(),
	}
	mockDB.On("FindWithdrawRequestById", mock.Anything, requestId).Return(document, nil)
	mockChain.On("VerifyWithdrawTransaction", mock.Anything, txSignature).Return(
		nil, types.NewErrorWithMsg(http.StatusBadRequest, types.VerificationFailed, "transaction failed or not found"),
	)

	_, err := svc.AttachSettlementTransaction(
		context.Background(), requestId, txSignature, testWalletAddress(0x01),
	)
	require.NotNil(t, err)
	assert.Equal(t, types.VerificationFailed, err.ErrorCode)
}

func TestGetWithdrawRequestNotFound(t *testing.T) {
	svc, mockDB, _, _ := newTestServices(t)
	mockDB.On("FindWithdrawRequestById", mock.Anything, "missing").
		Return(nil, &db.NotFoundError{Key: "missing", Message: "not found"})

	_, err := svc.GetWithdrawRequest(context.Background(), "missing")
	require.NotNil(t, err)
	assert.Equal(t, http.StatusNotFound, err.StatusCode)
}

func TestPriceImmediateSettlement(t *testing.T) {
	verification := &chain.TxVerification{
		ReserveAmount: 98_000_000,
		WithdrawalFee: 2_000_000,
	}

	pricing := PriceImmediateSettlement(verification, testTokenUnit)

	assert.True(t, pricing.ReceivedAmount.Equal(decimal.NewFromInt(98)))
	assert.True(t, pricing.ExitFee.Equal(decimal.NewFromInt(2)))
	// requested is exactly received plus fee for an immediate payout
	assert.True(t, pricing.RequestedAmount.Equal(pricing.ReceivedAmount.Add(pricing.ExitFee)))
	assert.Equal(t, types.Completed, pricing.Status)
	assert.Equal(t, types.ChainStatusCompletedImmediate, pricing.ChainStatus)
	require.NotNil(t, pricing.ProcessedAt)
}

func TestPriceQueuedSettlement(t *testing.T) {
	verification := &chain.TxVerification{
		TokenAmount: 200_000_000_000,
	}

	pricing := PriceQueuedSettlement(
		verification, testTokenUnit, decimal.NewFromInt(1), testExitFeeBps,
	)

	assert.True(t, pricing.RequestedAmount.Equal(decimal.NewFromInt(200_000)))
	assert.True(t, pricing.ExitFee.Equal(decimal.NewFromInt(4_000)))
	assert.True(t, pricing.ReceivedAmount.Equal(decimal.NewFromInt(196_000)))
	assert.Equal(t, types.PendingLiquidity, pricing.Status)
	assert.Equal(t, types.ChainStatusInQueue, pricing.ChainStatus)
	assert.Nil(t, pricing.ProcessedAt)
}
