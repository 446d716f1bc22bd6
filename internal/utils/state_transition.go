package utils

import (
	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

// QualifiedStatesToComplete returns the qualified existing states to transition to "completed"
func QualifiedStatesToComplete() []types.WithdrawStatus {
	return []types.WithdrawStatus{
		types.PendingLiquidity, types.ReadyToExecute, types.Executing,
	}
}

// QualifiedStatesToFail returns the qualified existing states to transition to "failed"
func QualifiedStatesToFail() []types.WithdrawStatus {
	return []types.WithdrawStatus{
		types.PendingLiquidity, types.ReadyToExecute, types.Executing,
	}
}

// QualifiedStatesToCancel returns the qualified existing states to transition to "cancelled".
// Any non-terminal request may be cancelled.
func QualifiedStatesToCancel() []types.WithdrawStatus {
	return []types.WithdrawStatus{
		types.Requested, types.PendingToExecute, types.PendingLiquidity,
		types.ReadyToExecute, types.Executing,
	}
}

// NonTerminalStates returns every state a request can still move out of.
func NonTerminalStates() []types.WithdrawStatus {
	return []types.WithdrawStatus{
		types.Requested, types.PendingToExecute, types.PendingLiquidity,
		types.ReadyToExecute, types.Executing,
	}
}
