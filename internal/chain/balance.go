package chain

import (
	"context"
	"fmt"

	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

type tokenBalanceResult struct {
	Amount uint64 `json:"amount"`
}

// TokenBalance resolves the redeemable-token balance held by the wallet.
// The read is best-effort bookkeeping for the planner; the program performs
// its own authoritative balance check at settlement time.
func (c *Client) TokenBalance(ctx context.Context, walletAddress string) (uint64, error) {
	if !utils.IsValidWalletAddress(walletAddress) {
		return 0, fmt.Errorf("invalid wallet address: %s", walletAddress)
	}

	params := map[string]string{
		"program": c.cfg.ProgramAddress,
		"wallet":  walletAddress,
	}
	var result tokenBalanceResult
	if err := c.call(ctx, "token_getBalance", params, &result); err != nil {
		return 0, fmt.Errorf("failed to fetch token balance for %s: %w", walletAddress, err)
	}
	return result.Amount, nil
}
