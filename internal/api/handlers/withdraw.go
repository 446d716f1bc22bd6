package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/refi-protocol/withdraw-api-service/internal/types"
	"github.com/refi-protocol/withdraw-api-service/internal/utils"
)

type CreateWithdrawRequestPayload struct {
	WalletAddress    string  `json:"wallet_address"`
	TokenAmount      uint64  `json:"token_amount"`
	MinTokenAmount   uint64  `json:"min_token_amount"`
	MinReserveAmount float64 `json:"min_reserve_amount"`
	EstimatedDays    float64 `json:"estimated_days"`
}

func parseCreateWithdrawRequestPayload(request *http.Request) (*CreateWithdrawRequestPayload, *types.Error) {
	payload := &CreateWithdrawRequestPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if !utils.IsValidWalletAddress(payload.WalletAddress) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid wallet address",
		)
	}
	if payload.TokenAmount == 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "token_amount must be positive",
		)
	}
	if payload.EstimatedDays <= 0 {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "estimated_days must be positive",
		)
	}

	return payload, nil
}

// CreateWithdrawRequest godoc
// @Summary Create withdraw request
// @Description Records a new withdraw intent for the wallet. At most one in-flight request per wallet and amount is accepted.
// @Accept json
// @Produce json
// @Param payload body CreateWithdrawRequestPayload true "Withdraw Request Payload"
// @Success 201 {object} PublicResponse[services.WithdrawRequestPublic] "The created withdraw request"
// @Failure 400 {object} types.Error "Invalid request payload"
// @Failure 409 {object} types.Error "A request for this wallet and amount is already in flight"
// @Router /v1/withdraw-requests [post]
func (h *Handler) CreateWithdrawRequest(request *http.Request) (*Result, *types.Error) {
	payload, err := parseCreateWithdrawRequestPayload(request)
	if err != nil {
		return nil, err
	}

	created, createErr := h.services.CreateWithdrawRequest(
		request.Context(), payload.WalletAddress, payload.TokenAmount,
		payload.MinTokenAmount, payload.MinReserveAmount, payload.EstimatedDays,
	)
	if createErr != nil {
		return nil, createErr
	}

	res := &PublicResponse[interface{}]{Data: created}
	return &Result{Data: res, Status: http.StatusCreated}, nil
}

type AttachSettlementPayload struct {
	RequestId     string `json:"request_id"`
	TxSignature   string `json:"tx_signature"`
	WalletAddress string `json:"wallet_address"`
}

func parseAttachSettlementPayload(request *http.Request) (*AttachSettlementPayload, *types.Error) {
	payload := &AttachSettlementPayload{}
	err := json.NewDecoder(request.Body).Decode(payload)
	if err != nil {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "invalid request payload")
	}
	if payload.RequestId == "" {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "request_id is required",
		)
	}
	if !utils.IsValidTxSignature(payload.TxSignature) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid transaction signature",
		)
	}
	if !utils.IsValidWalletAddress(payload.WalletAddress) {
		return nil, types.NewErrorWithMsg(
			http.StatusBadRequest, types.BadRequest, "invalid wallet address",
		)
	}

	return payload, nil
}

// AttachSettlementTransaction godoc
// @Summary Attach settlement transaction
// @Description Verifies a confirmed settlement transaction and attaches its outcome to the withdraw request.
// @Accept json
// @Produce json
// @Param payload body AttachSettlementPayload true "Settlement Payload"
// @Success 200 {object} PublicResponse[services.WithdrawRequestPublic] "The updated withdraw request"
// @Failure 400 {object} types.Error "Invalid payload or unverifiable transaction"
// @Failure 403 {object} types.Error "Transaction signer does not match the wallet"
// @Router /v1/withdraw-requests/settlement [post]
func (h *Handler) AttachSettlementTransaction(request *http.Request) (*Result, *types.Error) {
	payload, err := parseAttachSettlementPayload(request)
	if err != nil {
		return nil, err
	}

	updated, attachErr := h.services.AttachSettlementTransaction(
		request.Context(), payload.RequestId, payload.TxSignature, payload.WalletAddress,
	)
	if attachErr != nil {
		return nil, attachErr
	}

	return NewResult(updated), nil
}

// GetWithdrawRequest godoc
// @Summary Get withdraw request
// @Description Retrieves a withdraw request by its id.
// @Produce json
// @Param id query string true "Withdraw request id"
// @Success 200 {object} PublicResponse[services.WithdrawRequestPublic] "The withdraw request"
// @Failure 404 {object} types.Error "Withdraw request not found"
// @Router /v1/withdraw-requests [get]
func (h *Handler) GetWithdrawRequest(request *http.Request) (*Result, *types.Error) {
	id := request.URL.Query().Get("id")
	if id == "" {
		return nil, types.NewErrorWithMsg(http.StatusBadRequest, types.BadRequest, "id is required")
	}

	found, err := h.services.GetWithdrawRequest(request.Context(), id)
	if err != nil {
		return nil, err
	}

	return NewResult(found), nil
}
