package chain

import (
	"context"
	"net/http"

	"github.com/refi-protocol/withdraw-api-service/internal/types"
	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

// Event names emitted by the settlement program.
const (
	EventWithdrawalExecuted = "WithdrawalExecuted"
	EventAddedToQueue       = "AddedToQueue"
)

type EventData struct {
	TokenAmount   uint64 `json:"tokenAmount"`
	ReserveAmount uint64 `json:"reserveAmount"`
	WithdrawalFee uint64 `json:"withdrawalFee"`
	Position      int    `json:"position"`
}

type ProgramEvent struct {
	Name string    `json:"name"`
	Data EventData `json:"data"`
}

// TransactionDetail is a confirmed transaction as reported by the gateway,
// with its emitted program events already decoded from the log.
type TransactionDetail struct {
	Signature       string         `json:"signature"`
	Failed          bool           `json:"failed"`
	RequiredSigners []string       `json:"requiredSigners"`
	AccountKeys     []string       `json:"accountKeys"`
	Events          []ProgramEvent `json:"events"`
}

// TxVerification is the classified outcome of a settlement transaction.
// WalletAddress is the transaction's first required signer; callers must
// still match it against the wallet they are acting for before trusting
// the result.
type TxVerification struct {
	WalletAddress  string
	WithdrawalType types.WithdrawalType
	TokenAmount    uint64
	ReserveAmount  uint64
	WithdrawalFee  uint64
	QueuePosition  int
}

// VerifyWithdrawTransaction fetches the confirmed transaction and replays
// its emitted events to determine how the withdrawal settled.
func (c *Client) VerifyWithdrawTransaction(
	ctx context.Context, txSignature string,
) (*TxVerification, *types.Error) {
	params := map[string]string{"signature": txSignature}
	var tx TransactionDetail
	if err := c.call(ctx, "tx_getTransaction", params, &tx); err != nil {
		return nil, types.NewError(
			http.StatusBadGateway, types.VerificationFailed, err,
		)
	}
	return ClassifyTransaction(&tx, c.cfg.ProgramAddress)
}

// ClassifyTransaction determines the settlement outcome from a fetched
// transaction. It is a pure function of the transaction content and the
// expected program address.
func ClassifyTransaction(tx *TransactionDetail, programAddress string) (*TxVerification, *types.Error) {
	if tx == nil || tx.Signature == "" || tx.Failed {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.VerificationFailed,
			"transaction failed or not found",
		)
	}

	if len(tx.RequiredSigners) == 0 || tx.RequiredSigners[0] == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.VerificationFailed,
			"could not extract wallet from transaction signers",
		)
	}
	observedWallet := tx.RequiredSigners[0]

	if !utils.Contains(tx.AccountKeys, programAddress) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.WrongProgram,
			"transaction does not call the settlement program",
		)
	}

	verification := &TxVerification{WalletAddress: observedWallet}
	for _, event := range tx.Events {
		switch event.Name {
		case EventWithdrawalExecuted:
			verification.WithdrawalType = types.WithdrawalTypeImmediate
			verification.TokenAmount = event.Data.TokenAmount
			verification.ReserveAmount = event.Data.ReserveAmount
			verification.WithdrawalFee = event.Data.WithdrawalFee
		case EventAddedToQueue:
			verification.WithdrawalType = types.WithdrawalTypeQueued
			verification.TokenAmount = event.Data.TokenAmount
			verification.QueuePosition = event.Data.Position
		}
	}

	if verification.WithdrawalType == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.UnclassifiedTransaction,
			"could not determine withdrawal type from transaction events",
		)
	}

	return verification, nil
}
