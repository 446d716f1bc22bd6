package model

import (
	"time"

	"github.com/refi-protocol/withdraw-api-service/internal/types"
)

const WithdrawRequestCollection = "withdraw_requests"

// WithdrawRequestDocument is the persisted, user-visible withdraw request.
// The document id doubles as the locally-generated correlation id assigned
// at creation time; on-chain activity carries no shared key until a
// settlement transaction is attached, so reconciliation correlates by
// (wallet_address, token_amount) instead.
type WithdrawRequestDocument struct {
	Id            string               `bson:"_id"` // Primary key, correlation id (uuid)
	WalletAddress string               `bson:"wallet_address"`
	TokenAmount   uint64               `bson:"token_amount"` // smallest redeemable-token units
	// Priced amounts are stored as decimal strings in reserve display units.
	RequestedAmount string               `bson:"requested_amount"`
	ExitFee         string               `bson:"exit_fee"`
	ReceivedAmount  string               `bson:"received_amount,omitempty"`
	EstimatedDays   float64              `bson:"estimated_days"`
	ProRataRatio    string               `bson:"pro_rata_ratio,omitempty"`
	Status          types.WithdrawStatus `bson:"status"`
	TxSignature     string               `bson:"tx_signature,omitempty"`
	ChainStatus     types.ChainStatus    `bson:"chain_status,omitempty"`
	ProcessedAt     *time.Time           `bson:"processed_at,omitempty"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}
