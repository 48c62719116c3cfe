package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/voxwallet/internal/observability/telemetry"
	"github.com/seu-repo/voxwallet/internal/ports"
)

// Client talks JSON-RPC 2.0 to the external wallet engine. The engine
// custodies keys and signs transactions; this client only submits and
// queries. Transport goes through the circuit-breaker HTTP client so a
// down engine stops costing us request timeouts.
type Client struct {
	baseURL string
	apiKey  string
	http    *circuitbreaker.HTTPClient
	log     *zap.Logger
}

type Config struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

func NewClient(cfg Config, log *zap.Logger) *Client {
	settings := circuitbreaker.DefaultHTTPClientSettings("wallet-engine")
	if cfg.Timeout > 0 {
		settings.Timeout = cfg.Timeout
	}

	return &Client{
		baseURL: cfg.URL,
		apiKey:  cfg.APIKey,
		http:    circuitbreaker.NewHTTPClientWithSettings(settings, log),
		log:     log,
	}
}

type rpcRequest struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      string      `json:"id"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params,omitempty"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      string          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("engine error %d: %s", e.Code, e.Message)
}

type submitTransferParams struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Amount  string `json:"amount"`
	Asset   string `json:"asset"`
	Network string `json:"network"`
}

type submitTransferResult struct {
	TxHash string `json:"tx_hash"`
}

type balanceParams struct {
	Address string `json:"address"`
	Network string `json:"network"`
}

type balanceResult struct {
	Balance string `json:"balance"`
}

type txStatusParams struct {
	TxHash  string `json:"tx_hash"`
	Network string `json:"network"`
}

type createWalletParams struct {
	UserID string `json:"user_id"`
}

type createWalletResult struct {
	Address string `json:"address"`
}

func (c *Client) SubmitTransfer(ctx context.Context, from, to, amount, asset, network string) (string, error) {
	if from == "" || to == "" {
		return "", errors.New("from and to addresses are required")
	}

	c.log.Info("Submitting transfer to wallet engine",
		zap.String("to", to),
		zap.String("amount", amount),
		zap.String("asset", asset),
		zap.String("network", network),
	)

	var result submitTransferResult
	err := c.call(ctx, "wallet_submitTransfer", submitTransferParams{
		From:    from,
		To:      to,
		Amount:  amount,
		Asset:   asset,
		Network: network,
	}, &result)
	if err != nil {
		c.log.Error("Wallet engine rejected transfer", zap.Error(err))
		return "", err
	}
	if result.TxHash == "" {
		return "", errors.New("engine returned an empty tx hash")
	}

	c.log.Info("Transfer accepted by wallet engine", zap.String("tx_hash", result.TxHash))
	return result.TxHash, nil
}

func (c *Client) Balance(ctx context.Context, address, network string) (string, error) {
	if address == "" {
		return "", errors.New("address is required")
	}

	var result balanceResult
	err := c.call(ctx, "wallet_balance", balanceParams{
		Address: address,
		Network: network,
	}, &result)
	if err != nil {
		return "", err
	}

	return result.Balance, nil
}

func (c *Client) TransactionStatus(ctx context.Context, txHash, network string) (*ports.TxStatus, error) {
	if txHash == "" {
		return nil, errors.New("tx hash is required")
	}

	var result ports.TxStatus
	err := c.call(ctx, "wallet_txStatus", txStatusParams{
		TxHash:  txHash,
		Network: network,
	}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *Client) CreateWallet(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("user ID is required")
	}

	c.log.Info("Requesting wallet creation", zap.String("user_id", userID))

	var result createWalletResult
	err := c.call(ctx, "wallet_create", createWalletParams{UserID: userID}, &result)
	if err != nil {
		c.log.Error("Wallet creation failed", zap.String("user_id", userID), zap.Error(err))
		return "", err
	}
	if result.Address == "" {
		return "", errors.New("engine returned an empty wallet address")
	}

	c.log.Info("Wallet created",
		zap.String("user_id", userID),
		zap.String("address", result.Address),
	)
	return result.Address, nil
}

// Ping verifies the engine answers RPC at all. Used by the readiness check.
func (c *Client) Ping(ctx context.Context) error {
	return c.call(ctx, "wallet_ping", nil, nil)
}

func (c *Client) call(ctx context.Context, method string, params, result interface{}) error {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return fmt.Errorf("engine: marshal %s request: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("engine: build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	telemetry.ChainLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return fmt.Errorf("engine: %s: %w", method, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("engine: %s: unexpected status %d", method, resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return fmt.Errorf("engine: decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("engine: %s: %w", method, rpcResp.Error)
	}
	if result != nil {
		if err := json.Unmarshal(rpcResp.Result, result); err != nil {
			return fmt.Errorf("engine: decode %s result: %w", method, err)
		}
	}
	return nil
}
