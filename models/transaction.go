package models

import "gorm.io/gorm"

// On-chain transaction statuses.
const (
	TxStatusPending   = "pending"
	TxStatusConfirmed = "confirmed"
	TxStatusFailed    = "failed"
)

type Transaction struct {
	gorm.Model
	UserID      uint    `gorm:"not null;index" json:"user_id"`
	TxHash      string  `gorm:"unique;not null" json:"tx_hash"`
	FromAddress string  `gorm:"not null" json:"from_address"`
	ToAddress   string  `gorm:"not null" json:"to_address"`
	AmountUSDC  float64 `gorm:"not null" json:"amount_usdc"`
	ServiceType string  `json:"service_type,omitempty"`
	Status      string  `gorm:"not null" json:"status"`
}
