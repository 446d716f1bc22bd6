package chain

import (
	"context"
	"fmt"
)

// QueueItem is one enqueued, not-yet-settled withdraw request as tracked
// by the program. Items are immutable once observed; an item present in
// one snapshot and absent from a later one has been settled in between.
type QueueItem struct {
	HolderAddress        string `json:"holderAddress"`
	HolderTokenAccount   string `json:"holderTokenAccount"`
	HolderReserveAccount string `json:"holderReserveAccount"`
	Amount               uint64 `json:"amount"`
	EnqueuedAt           int64  `json:"enqueuedAt"`
}

// PoolState is a point-in-time read of the pool. Queue order is the
// program's FIFO priority and must be preserved.
type PoolState struct {
	TotalReserves    int64       `json:"totalReserves"`
	TotalTokenSupply uint64      `json:"totalTokenSupply"`
	ExchangeRate     uint64      `json:"exchangeRate"`
	PendingQueue     []QueueItem `json:"pendingQueue"`
}

func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "gateway_health", nil, nil)
}

func (c *Client) PoolState(ctx context.Context) (*PoolState, error) {
	var state PoolState
	params := map[string]string{"program": c.cfg.ProgramAddress}
	if err := c.call(ctx, "pool_getState", params, &state); err != nil {
		return nil, fmt.Errorf("failed to fetch pool state: %w", err)
	}
	return &state, nil
}
