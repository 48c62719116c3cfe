package domain

import (
	"time"
)

type Contact struct {
	ID         string     `json:"id" gorm:"primaryKey"`
	UserID     string     `json:"user_id" gorm:"index"`
	Name       string     `json:"name" gorm:"index"`
	Address    string     `json:"address"` // 0x + 40 hex chars, stored lowercase
	UseCount   int        `json:"use_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
