package domain

import (
	"time"
)

type TransferStatus string

const (
	TransferStatusPending   TransferStatus = "pending"
	TransferStatusSubmitted TransferStatus = "submitted"
	TransferStatusConfirmed TransferStatus = "confirmed"
	TransferStatusFailed    TransferStatus = "failed"
)

type Transfer struct {
	ID            string         `json:"id" gorm:"primaryKey"`
	UserID        string         `json:"user_id" gorm:"index"`
	ToAddress     string         `json:"to_address"`
	ToName        string         `json:"to_name,omitempty"` // contact name when resolved from one
	Amount        string         `json:"amount"`            // canonical decimal string, max 6 fraction digits
	Asset         string         `json:"asset"`
	Network       string         `json:"network"`
	Status        TransferStatus `json:"status"`
	TxHash        string         `json:"tx_hash,omitempty" gorm:"index"`
	FailureReason string         `json:"failure_reason,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	ConfirmedAt   *time.Time     `json:"confirmed_at,omitempty"`
}
