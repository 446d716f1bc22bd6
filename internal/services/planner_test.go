package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/refi-protocol/withdraw-api-service/internal/chain"
	testmock "github.com/refi-protocol/withdraw-api-service/tests/mocks"
)

func queueItem(seed byte, amount uint64) chain.QueueItem {
	return chain.QueueItem{
		HolderAddress:        testWalletAddress(seed),
		HolderTokenAccount:   testWalletAddress(seed + 0x40),
		HolderReserveAccount: testWalletAddress(seed + 0x80),
		Amount:               amount,
	}
}

func TestPlanBatchNoLiquidity(t *testing.T) {
	oracle := testmock.NewChainClient(t)
	snapshot := &chain.PoolState{
		TotalReserves: 0,
		ExchangeRate:  testRateScale,
		PendingQueue:  []chain.QueueItem{queueItem(0x01, 100)},
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	assert.Empty(t, plan.Items, "no items should be planned without liquidity")
	oracle.AssertNotCalled(t, "TokenBalance")
}

func TestPlanBatchNegativeReserves(t *testing.T) {
	oracle := testmock.NewChainClient(t)
	snapshot := &chain.PoolState{
		TotalReserves: -5,
		ExchangeRate:  testRateScale,
		PendingQueue:  []chain.QueueItem{queueItem(0x01, 100)},
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	assert.Empty(t, plan.Items)
}

// Admission is a strict FIFO prefix: the scan stops at the first item the
// remaining reserves cannot cover, even when a later, smaller item would
// still fit.
func TestPlanBatchStopsAtFirstUnaffordableItem(t *testing.T) {
	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, mock.Anything).Return(uint64(10_000_000), nil)

	items := []chain.QueueItem{
		queueItem(0x01, 600_000),
		queueItem(0x02, 500_000),
		queueItem(0x03, 100_000),
	}
	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale, // 1.0
		PendingQueue:  items,
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	require.Len(t, plan.Items, 1)
	assert.Equal(t, items[0].HolderAddress, plan.Items[0].Item.HolderAddress)
	assert.Equal(t, uint64(400_000), plan.RemainingReserves)
}

func TestPlanBatchPreservesQueueOrder(t *testing.T) {
	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, mock.Anything).Return(uint64(10_000_000), nil)

	items := []chain.QueueItem{
		queueItem(0x01, 300),
		queueItem(0x02, 100),
		queueItem(0x03, 200),
	}
	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
		PendingQueue:  items,
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	require.Len(t, plan.Items, 3)
	for i := range items {
		assert.Equal(t, items[i].HolderAddress, plan.Items[i].Item.HolderAddress)
	}
	assert.Equal(t, []uint64{300, 100, 200}, plan.Amounts())
}

// An insufficient predicted balance never excludes an item from the batch.
// The program does its own balance check and skips such entries itself.
func TestPlanBatchAdmitsPredictedInvalidItems(t *testing.T) {
	item := queueItem(0x01, 1_000)

	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, item.HolderAddress).Return(uint64(10), nil)

	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
		PendingQueue:  []chain.QueueItem{item},
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	require.Len(t, plan.Items, 1)
	assert.False(t, plan.Items[0].PredictedValid)
}

func TestPlanBatchBalanceReadErrorAdmitsItem(t *testing.T) {
	item := queueItem(0x01, 1_000)

	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, item.HolderAddress).
		Return(uint64(0), errors.New("gateway timeout"))

	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
		PendingQueue:  []chain.QueueItem{item},
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	require.Len(t, plan.Items, 1)
	assert.False(t, plan.Items[0].PredictedValid)
}

func TestPlanBatchCostsWithRateAndFee(t *testing.T) {
	item := queueItem(0x01, 1_000)

	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, item.HolderAddress).Return(uint64(1_000), nil)

	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  2 * testRateScale, // 2.0
		PendingQueue:  []chain.QueueItem{item},
	}

	// 100 bps on a gross cost of 2000
	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 100)

	require.Len(t, plan.Items, 1)
	assert.Equal(t, uint64(2_000), plan.Items[0].GrossCost)
	assert.Equal(t, uint64(20), plan.Items[0].Fee)
	assert.Equal(t, uint64(2_020), plan.Items[0].TotalCost)
	assert.Equal(t, uint64(1_000_000-2_020), plan.RemainingReserves)
}

func TestBatchPlanAccountsPairing(t *testing.T) {
	oracle := testmock.NewChainClient(t)
	oracle.On("TokenBalance", mock.Anything, mock.Anything).Return(uint64(10_000), nil)

	items := []chain.QueueItem{
		queueItem(0x01, 100),
		queueItem(0x02, 200),
	}
	snapshot := &chain.PoolState{
		TotalReserves: 1_000_000,
		ExchangeRate:  testRateScale,
		PendingQueue:  items,
	}

	plan := PlanBatch(context.Background(), snapshot, oracle, testRateScale, 0)

	accounts := plan.Accounts()
	require.Len(t, accounts, 2*len(plan.Items))
	for i, item := range items {
		assert.Equal(t, item.HolderTokenAccount, accounts[2*i].Address)
		assert.Equal(t, item.HolderReserveAccount, accounts[2*i+1].Address)
		assert.True(t, accounts[2*i].IsWritable)
		assert.True(t, accounts[2*i+1].IsWritable)
		assert.False(t, accounts[2*i].IsSigner)
	}
}
