package chain

import (
	"context"

	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

// ChainClient is the read/write contract against the settlement ledger.
// The concrete implementation talks to the program gateway over JSON-RPC;
// tests substitute a mock.
type ChainClient interface {
	// Ping verifies the gateway is reachable.
	Ping(ctx context.Context) error
	// PoolState fetches a fresh point-in-time snapshot of the pool:
	// reserves, exchange rate and the pending withdraw queue in FIFO
	// order. There is no isolation across calls.
	PoolState(ctx context.Context) (*PoolState, error)
	// TokenBalance resolves the wallet's redeemable-token balance.
	TokenBalance(ctx context.Context, walletAddress string) (uint64, error)
	// SubmitBatchWithdraw submits one settlement call for the given
	// amounts and paired accounts, in order. The call either lands or it
	// doesn't; individually-invalid entries are skipped by the program
	// with no per-item signal.
	SubmitBatchWithdraw(ctx context.Context, amounts []uint64, accounts []AccountRef) (*BatchResult, error)
	// VerifyWithdrawTransaction fetches a confirmed transaction and
	// classifies its settlement outcome from the emitted events.
	VerifyWithdrawTransaction(ctx context.Context, txSignature string) (*TxVerification, *types.Error)
}
