package chain

import (
	"context"
	"fmt"
)

// AccountRef is one account reference passed alongside the batch call,
// paired with the amount at the same position.
type AccountRef struct {
	Address    string `json:"address"`
	IsSigner   bool   `json:"isSigner"`
	IsWritable bool   `json:"isWritable"`
}

// BatchResult reports a landed batch call. The transaction signature is
// the only settlement identifier the call yields; there is no per-item
// outcome in it.
type BatchResult struct {
	TxSignature string `json:"txSignature"`
}

type batchWithdrawParams struct {
	Program  string       `json:"program"`
	Amounts  []uint64     `json:"amounts"`
	Accounts []AccountRef `json:"accounts"`
}

// SubmitBatchWithdraw submits one settlement call for the admitted queue
// prefix. A returned error means the call as a whole was rejected or not
// confirmed; no local retry is attempted here, the next cycle replans from
// a fresh snapshot.
func (c *Client) SubmitBatchWithdraw(
	ctx context.Context, amounts []uint64, accounts []AccountRef,
) (*BatchResult, error) {
	if len(amounts) == 0 {
		return nil, fmt.Errorf("empty batch submission")
	}
	if len(accounts) != 2*len(amounts) {
		return nil, fmt.Errorf(
			"batch submission requires two account references per amount, got %d for %d amounts",
			len(accounts), len(amounts),
		)
	}

	params := &batchWithdrawParams{
		Program:  c.cfg.ProgramAddress,
		Amounts:  amounts,
		Accounts: accounts,
	}
	var result BatchResult
	if err := c.call(ctx, "pool_submitBatchWithdraw", params, &result); err != nil {
		return nil, fmt.Errorf("batch withdraw submission failed: %w", err)
	}
	if result.TxSignature == "" {
		return nil, fmt.Errorf("batch withdraw submission returned no transaction signature")
	}
	return &result, nil
}
