package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/refi-protocol/withdraw-api-service/internal/config"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
)

// Client is the single long-lived handle to the program gateway. It is
// constructed once at process start and shared by the services layer and
// the worker; the request timeout is owned here instead of by each caller.
type Client struct {
	cfg        *config.ChainConfig
	httpClient *http.Client
	requestId  atomic.Uint64
}

func NewClient(cfg *config.ChainConfig) *Client {
	httpClient := &http.Client{
		Timeout: time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
	}
}

// ProgramAddress is the settlement program this deployment reconciles
// against. Transactions that do not touch it are rejected by the verifier.
func (c *Client) ProgramAddress() string {
	return c.cfg.ProgramAddress
}

type rpcRequest struct {
	JsonRpc string      `json:"jsonrpc"`
	Id      uint64      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("gateway rpc error %d: %s", e.Code, e.Message)
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	timer := metrics.StartChainRequestDurationTimer(method)

	body, err := json.Marshal(&rpcRequest{
		JsonRpc: "2.0",
		Id:      c.requestId.Add(1),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		timer(metrics.Error)
		return fmt.Errorf("failed to marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GatewayUrl, bytes.NewReader(body))
	if err != nil {
		timer(metrics.Error)
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		timer(metrics.Error)
		return fmt.Errorf("failed to call gateway method %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		timer(metrics.Error)
		return fmt.Errorf("gateway method %s returned status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		timer(metrics.Error)
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		timer(metrics.Error)
		return rpcResp.Error
	}

	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			timer(metrics.Error)
			return fmt.Errorf("failed to unmarshal %s result: %w", method, err)
		}
	}

	timer(metrics.Success)
	return nil
}
