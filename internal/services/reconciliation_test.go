package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	"github.com/refi-protocol/withdraw-api-service/internal/db"
	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/queue"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

func TestExecuteBatch(t *testing.T) {
	svc, _, mockChain, _ := newTestServices(t)
	plan := &BatchPlan{
		Items: []PlanItem{
			{Item: queueItem(0x01, 100), PredictedValid: true},
		},
	}

	mockChain.On("SubmitBatchWithdraw", mock.Anything, plan.Amounts(), plan.Accounts()).
		Return(&chain.BatchResult{TxSignature: "batch-sig"}, nil)

	result, err := svc.ExecuteBatch(context.Background(), plan)
	require.Nil(t, err)
	assert.Equal(t, "batch-sig", result.TxSignature)
}

// A rejected batch call must leave every local record untouched.
func TestExecuteBatchSubmitFailure(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)
	plan := &BatchPlan{
		Items: []PlanItem{
			{Item: queueItem(0x01, 100), PredictedValid: true},
		},
	}

	mockChain.On("SubmitBatchWithdraw", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("transaction did not confirm"))

	result, err := svc.ExecuteBatch(context.Background(), plan)
	assert.Nil(t, result)
	require.NotNil(t, err)
	assert.Equal(t, types.BatchSubmitFailed, err.ErrorCode)
	mockDB.AssertNotCalled(t, "TransitionWithdrawRequestState")
}

// Post-batch reconciliation runs in two steps: optimistically complete
// the predicted-valid items, then fail the ones whose balance shows the
// program skipped them. Items settled in the first step are terminal and
// the second step's correction is a no-op for them.
func TestReconcileAfterBatch(t *testing.T) {
	svc, mockDB, mockChain, mockPublisher := newTestServices(t)

	settled := queueItem(0x01, 100)
	skipped := queueItem(0x02, 50)
	plan := &BatchPlan{
		Items: []PlanItem{
			{Item: settled, PredictedValid: true},
			{Item: skipped, PredictedValid: false},
		},
	}

	mockDB.On("TransitionWithdrawRequestState",
		mock.Anything, settled.HolderAddress, uint64(100),
		types.Completed, types.ChainStatusCompletedBatch, "batch-sig",
	).Return(nil).Once()

	// The settled holder's tokens are burned, so its balance also reads
	// short; the correction hits the terminal record and matches nothing.
	mockChain.On("TokenBalance", mock.Anything, settled.HolderAddress).Return(uint64(0), nil)
	mockDB.On("TransitionWithdrawRequestState",
		mock.Anything, settled.HolderAddress, uint64(100),
		types.Failed, types.ChainStatusFailed, "",
	).Return(&db.NotFoundError{Key: settled.HolderAddress, Message: "no matching request"}).Once()

	mockChain.On("TokenBalance", mock.Anything, skipped.HolderAddress).Return(uint64(10), nil)
	mockDB.On("TransitionWithdrawRequestState",
		mock.Anything, skipped.HolderAddress, uint64(50),
		types.Failed, types.ChainStatusFailed, "",
	).Return(nil).Once()

	var published []*queue.WithdrawalSettledEvent
	mockPublisher.On("PublishWithdrawalSettled", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(1).(*queue.WithdrawalSettledEvent))
		}).Return()

	svc.ReconcileAfterBatch(context.Background(), plan, "batch-sig")

	require.Len(t, published, 2)
	assert.Equal(t, types.Completed.ToString(), published[0].Status)
	assert.Equal(t, settled.HolderAddress, published[0].WalletAddress)
	assert.Equal(t, types.Failed.ToString(), published[1].Status)
	assert.Equal(t, skipped.HolderAddress, published[1].WalletAddress)
}

// A failed post-batch balance read leaves the request untouched rather
// than guessing a failure.
func TestReconcileAfterBatchBalanceReadFailure(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)

	item := queueItem(0x01, 100)
	plan := &BatchPlan{
		Items: []PlanItem{{Item: item, PredictedValid: false}},
	}

	mockChain.On("TokenBalance", mock.Anything, item.HolderAddress).
		Return(uint64(0), errors.New("gateway timeout"))

	svc.ReconcileAfterBatch(context.Background(), plan, "batch-sig")

	mockDB.AssertNotCalled(t, "TransitionWithdrawRequestState")
}

// Absence from a fresh queue snapshot is the settlement signal for
// requests with no locally recorded transaction.
func TestSyncSettledRequests(t *testing.T) {
	svc, mockDB, mockChain, mockPublisher := newTestServices(t)

	stillQueued := testWalletAddress(0x01)
	settledWallet := testWalletAddress(0x02)

	pending := []model.WithdrawRequestDocument{
		{Id: "req-queued", WalletAddress: stillQueued, TokenAmount: 100, Status: types.PendingLiquidity},
		{Id: "req-settled", WalletAddress: settledWallet, TokenAmount: 200, Status: types.PendingLiquidity},
		{Id: "req-malformed", WalletAddress: "0xdeadbeef", TokenAmount: 300, Status: types.PendingLiquidity},
	}
	mockDB.On("FindWithdrawRequestsByStatuses", mock.Anything, mock.Anything).Return(pending, nil)

	mockChain.On("PoolState", mock.Anything).Return(&chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
		PendingQueue: []chain.QueueItem{
			{HolderAddress: stillQueued, Amount: 100},
		},
	}, nil)

	mockDB.On("MarkWithdrawRequestCompleted", mock.Anything, "req-settled").Return(nil).Once()

	var published []*queue.WithdrawalSettledEvent
	mockPublisher.On("PublishWithdrawalSettled", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			published = append(published, args.Get(1).(*queue.WithdrawalSettledEvent))
		}).Return()

	err := svc.SyncSettledRequests(context.Background())
	require.NoError(t, err)

	// Only the wallet that left the queue completes; the queued request
	// stays put and the malformed address is never guessed at.
	mockDB.AssertNotCalled(t, "MarkWithdrawRequestCompleted", mock.Anything, "req-queued")
	mockDB.AssertNotCalled(t, "MarkWithdrawRequestCompleted", mock.Anything, "req-malformed")

	require.Len(t, published, 1)
	assert.Equal(t, "req-settled", published[0].RequestId)
	assert.Equal(t, types.Completed.ToString(), published[0].Status)
}

func TestSyncSettledRequestsNothingPending(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)

	mockDB.On("FindWithdrawRequestsByStatuses", mock.Anything, mock.Anything).
		Return([]model.WithdrawRequestDocument{}, nil)

	err := svc.SyncSettledRequests(context.Background())
	require.NoError(t, err)

	// No snapshot is fetched when there is nothing to reconcile.
	mockChain.AssertNotCalled(t, "PoolState")
}

// A request that already completed through another path is a no-op, so
// repeated cycles never double-publish.
func TestSyncSettledRequestsIdempotent(t *testing.T) {
	svc, mockDB, mockChain, mockPublisher := newTestServices(t)

	settledWallet := testWalletAddress(0x02)
	pending := []model.WithdrawRequestDocument{
		{Id: "req-settled", WalletAddress: settledWallet, TokenAmount: 200, Status: types.PendingLiquidity},
	}
	mockDB.On("FindWithdrawRequestsByStatuses", mock.Anything, mock.Anything).Return(pending, nil)
	mockChain.On("PoolState", mock.Anything).Return(&chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
	}, nil)

	mockDB.On("MarkWithdrawRequestCompleted", mock.Anything, "req-settled").
		Return(&db.NotFoundError{Key: "req-settled", Message: "already terminal"})

	err := svc.SyncSettledRequests(context.Background())
	require.NoError(t, err)
	mockPublisher.AssertNotCalled(t, "PublishWithdrawalSettled")
}

func TestSyncSettledRequestsSnapshotFailure(t *testing.T) {
	svc, mockDB, mockChain, _ := newTestServices(t)

	pending := []model.WithdrawRequestDocument{
		{Id: "req-1", WalletAddress: testWalletAddress(0x01), TokenAmount: 100, Status: types.PendingLiquidity},
	}
	mockDB.On("FindWithdrawRequestsByStatuses", mock.Anything, mock.Anything).Return(pending, nil)
	mockChain.On("PoolState", mock.Anything).Return(nil, errors.New("gateway unavailable"))

	err := svc.SyncSettledRequests(context.Background())
	require.Error(t, err)
	mockDB.AssertNotCalled(t, "MarkWithdrawRequestCompleted")
}

func TestSyncSettledRequestsSetsProcessedAt(t *testing.T) {
	svc, mockDB, mockChain, mockPublisher := newTestServices(t)

	settledWallet := testWalletAddress(0x02)
	pending := []model.WithdrawRequestDocument{
		{Id: "req-settled", WalletAddress: settledWallet, TokenAmount: 200, Status: types.PendingLiquidity},
	}
	mockDB.On("FindWithdrawRequestsByStatuses", mock.Anything, mock.Anything).Return(pending, nil)
	mockChain.On("PoolState", mock.Anything).Return(&chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
	}, nil)
	mockDB.On("MarkWithdrawRequestCompleted", mock.Anything, "req-settled").Return(nil)

	before := time.Now().UnixMilli()
	var event *queue.WithdrawalSettledEvent
	mockPublisher.On("PublishWithdrawalSettled", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			event = args.Get(1).(*queue.WithdrawalSettledEvent)
		}).Return()

	err := svc.SyncSettledRequests(context.Background())
	require.NoError(t, err)

	require.NotNil(t, event)
	assert.GreaterOrEqual(t, event.SettledAtMillis, before)
}
