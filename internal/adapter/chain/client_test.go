package chain

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/voxwallet/internal/infrastructure/circuitbreaker"
)

func newTestLogger() *zap.Logger {
	logger, _ := zap.NewDevelopment()
	return logger
}

// rpcHandler answers every request with the given result or error.
func rpcHandler(t *testing.T, wantMethod string, result interface{}, rpcErr *rpcError) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if wantMethod != "" && req.Method != wantMethod {
			t.Errorf("expected method %q, got %q", wantMethod, req.Method)
		}

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: rpcErr}
		if result != nil {
			data, _ := json.Marshal(result)
			resp.Result = data
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func TestSubmitTransfer_Success(t *testing.T) {
	// Arrange
	var gotAuth string
	var gotParams submitTransferParams
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var req rpcRequest
		json.NewDecoder(r.Body).Decode(&req)
		data, _ := json.Marshal(req.Params)
		json.Unmarshal(data, &gotParams)

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		resp.Result, _ = json.Marshal(submitTransferResult{TxHash: "0xhash123"})
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, APIKey: "secret-key"}, newTestLogger())

	// Act
	txHash, err := client.SubmitTransfer(context.Background(), "0xfrom", "0xto", "0.5", "eth", "mainnet")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if txHash != "0xhash123" {
		t.Errorf("expected tx hash 0xhash123, got %q", txHash)
	}
	if gotAuth != "Bearer secret-key" {
		t.Errorf("expected bearer auth header, got %q", gotAuth)
	}
	if gotParams.From != "0xfrom" || gotParams.To != "0xto" {
		t.Errorf("unexpected params: %+v", gotParams)
	}
	if gotParams.Amount != "0.5" || gotParams.Asset != "eth" || gotParams.Network != "mainnet" {
		t.Errorf("unexpected params: %+v", gotParams)
	}
}

func TestSubmitTransfer_EngineError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "wallet_submitTransfer", nil, &rpcError{
		Code:    -32000,
		Message: "insufficient funds",
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	_, err := client.SubmitTransfer(context.Background(), "0xfrom", "0xto", "0.5", "eth", "mainnet")

	// Assert
	if err == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Errorf("expected engine error message, got %v", err)
	}
}

func TestSubmitTransfer_EmptyHashIsAnError(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "", submitTransferResult{TxHash: ""}, nil))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	_, err := client.SubmitTransfer(context.Background(), "0xfrom", "0xto", "0.5", "eth", "mainnet")

	// Assert
	if err == nil {
		t.Fatal("expected an error for an empty tx hash")
	}
}

func TestSubmitTransfer_MissingAddresses(t *testing.T) {
	// Arrange
	client := NewClient(Config{URL: "http://localhost:0"}, newTestLogger())

	// Act
	_, err := client.SubmitTransfer(context.Background(), "", "0xto", "0.5", "eth", "mainnet")

	// Assert
	if err == nil {
		t.Fatal("expected an error for a missing from address")
	}
}

func TestBalance_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "wallet_balance", balanceResult{Balance: "1.25"}, nil))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	balance, err := client.Balance(context.Background(), "0xaddr", "mainnet")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if balance != "1.25" {
		t.Errorf("expected balance 1.25, got %q", balance)
	}
}

func TestTransactionStatus_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "wallet_txStatus", map[string]interface{}{
		"hash":          "0xhash123",
		"status":        "confirmed",
		"block_number":  19000001,
		"confirmations": 12,
	}, nil))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	status, err := client.TransactionStatus(context.Background(), "0xhash123", "mainnet")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if status.Hash != "0xhash123" || status.Status != "confirmed" {
		t.Errorf("unexpected status: %+v", status)
	}
	if status.Confirmations != 12 {
		t.Errorf("expected 12 confirmations, got %d", status.Confirmations)
	}
}

func TestCreateWallet_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "wallet_create", createWalletResult{Address: "0xnewwallet"}, nil))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	address, err := client.CreateWallet(context.Background(), "user-1")

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if address != "0xnewwallet" {
		t.Errorf("expected address 0xnewwallet, got %q", address)
	}
}

func TestCreateWallet_MissingUserID(t *testing.T) {
	// Arrange
	client := NewClient(Config{URL: "http://localhost:0"}, newTestLogger())

	// Act
	_, err := client.CreateWallet(context.Background(), "")

	// Assert
	if err == nil {
		t.Fatal("expected an error for a missing user ID")
	}
}

func TestPing_Success(t *testing.T) {
	// Arrange
	server := httptest.NewServer(rpcHandler(t, "wallet_ping", map[string]string{"status": "ok"}, nil))
	defer server.Close()

	client := NewClient(Config{URL: server.URL}, newTestLogger())

	// Act
	err := client.Ping(context.Background())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCall_ServerErrorsOpenTheBreaker(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(Config{URL: server.URL, Timeout: time.Second}, newTestLogger())

	// Act
	var lastErr error
	for i := 0; i < 6; i++ {
		lastErr = client.Ping(context.Background())
	}

	// Assert
	if lastErr == nil {
		t.Fatal("expected an error")
	}
	if !circuitbreaker.IsCircuitOpen(lastErr) {
		t.Errorf("expected the breaker to be open, got %v", lastErr)
	}
}
