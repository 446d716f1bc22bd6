package queue

// WithdrawalSettledEvent is published whenever a withdraw request reaches
// a terminal state, so downstream services (notifications, accounting) do
// not need to poll the request store.
type WithdrawalSettledEvent struct {
	EventType       string `json:"event_type"`
	RequestId       string `json:"request_id"`
	WalletAddress   string `json:"wallet_address"`
	TokenAmount     uint64 `json:"token_amount"`
	Status          string `json:"status"`
	ChainStatus     string `json:"chain_status,omitempty"`
	TxSignature     string `json:"tx_signature,omitempty"`
	SettledAtMillis int64  `json:"settled_at_millis"`
}

const WithdrawalSettledEventType = "withdrawal_settled"
