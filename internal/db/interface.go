package db

import (
	"context"

	"github.com/refi-protocol/withdraw-api-service/internal/db/model"
	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

type DBClient interface {
	Ping(ctx context.Context) error
	SaveWithdrawRequest(ctx context.Context, document *model.WithdrawRequestDocument) error
	FindWithdrawRequestById(ctx context.Context, id string) (*model.WithdrawRequestDocument, error)
	FindWithdrawRequestsByStatuses(
		ctx context.Context, statuses []types.WithdrawStatus,
	) ([]model.WithdrawRequestDocument, error)
	CountActiveWithdrawRequests(
		ctx context.Context, walletAddress string, tokenAmount uint64,
	) (int64, error)
	TransitionWithdrawRequestState(
		ctx context.Context, walletAddress string, tokenAmount uint64,
		newStatus types.WithdrawStatus, chainStatus types.ChainStatus, txSignature string,
	) error
	MarkWithdrawRequestCompleted(ctx context.Context, id string) error
	UpdateWithdrawRequestSettlement(ctx context.Context, id string, update *SettlementUpdate) error
}
