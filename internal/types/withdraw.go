package types

// WithdrawStatus is the local lifecycle state of a withdraw request.
// Terminal states are Completed, Failed and Cancelled; a request only
// leaves a non-terminal state through reconciliation or settlement
// verification.
type WithdrawStatus string

const (
	Requested        WithdrawStatus = "requested"
	PendingLiquidity WithdrawStatus = "pending_liquidity"
	ReadyToExecute   WithdrawStatus = "ready_to_execute"
	Executing        WithdrawStatus = "executing"
	Completed        WithdrawStatus = "completed"
	PendingToExecute WithdrawStatus = "pending_to_execute"
	Failed           WithdrawStatus = "failed"
	Cancelled        WithdrawStatus = "cancelled"
)

func (s WithdrawStatus) ToString() string {
	return string(s)
}

func (s WithdrawStatus) IsTerminal() bool {
	return s == Completed || s == Failed || s == Cancelled
}

// ChainStatus classifies how the external program settled (or is going to
// settle) a withdraw request. It is only ever set by reconciliation or by
// the transaction verifier, never at request creation.
type ChainStatus string

const (
	ChainStatusFailed             ChainStatus = "failed"
	ChainStatusPendingQueue       ChainStatus = "pending_queue"
	ChainStatusInQueue            ChainStatus = "in_queue"
	ChainStatusCompletedImmediate ChainStatus = "completed_immediate"
	ChainStatusCompletedBatch     ChainStatus = "completed_batch"
)

func (s ChainStatus) ToString() string {
	return string(s)
}

// WithdrawalType is how a settlement transaction paid out: directly from
// reserves, or by enqueueing into the program's pending queue.
type WithdrawalType string

const (
	WithdrawalTypeImmediate WithdrawalType = "immediate"
	WithdrawalTypeQueued    WithdrawalType = "queued"
)
