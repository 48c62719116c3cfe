package ports

import (
	"context"
)

// WalletEngine is the external signer and broadcaster. It custodies keys
// and talks to the chain; this service never sees private material.
type WalletEngine interface {
	SubmitTransfer(ctx context.Context, from, to, amount, asset, network string) (txHash string, err error)
	Balance(ctx context.Context, address, network string) (string, error)
	TransactionStatus(ctx context.Context, txHash, network string) (*TxStatus, error)
	CreateWallet(ctx context.Context, userID string) (address string, err error)
}

// TxStatus mirrors the engine's view of one transaction.
type TxStatus struct {
	Hash          string `json:"hash"`
	Status        string `json:"status"` // pending, confirmed, failed
	BlockNumber   uint64 `json:"block_number,omitempty"`
	Confirmations int    `json:"confirmations"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// TxEvent is one update from the engine's transaction feed.
type TxEvent struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// TxEventHandler consumes engine transaction events.
type TxEventHandler func(ctx context.Context, event TxEvent)

// SecretStore fetches runtime secrets from the vault.
type SecretStore interface {
	GetDatabaseCredentials() (string, error)
	GetJWTSecret() (string, error)
	GetChainAPIKey() (string, error)
	GetSendGridAPIKey() (string, error)
}
