package models

import (
	"time"

	"gorm.io/gorm"
)

// Service types accepted by the payments and utilities handlers.
const (
	ServiceAirtime              = "airtime"
	ServiceData                 = "data"
	ServiceElectricity          = "electricity"
	ServiceSchoolFees           = "school_fees"
	ServiceMobileMoneyDeposit   = "mobile_money_deposit"
	ServiceMobileMoneyWithdraw  = "mobile_money_withdrawal"
)

// Payment statuses. Transitions are one-directional: pending -> completed|failed.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
)

type Payment struct {
	gorm.Model
	UserID            uint       `gorm:"not null;index" json:"user_id"`
	ServiceType       string     `gorm:"not null" json:"service_type"`
	AmountUGX         float64    `gorm:"not null" json:"amount_ugx"`
	AmountUSDC        float64    `gorm:"not null" json:"amount_usdc"`
	ExchangeRate      float64    `gorm:"not null" json:"exchange_rate"`
	Recipient         string     `gorm:"not null" json:"recipient"` // phone, meter number or school reference
	Network           string     `json:"network"`
	ProviderReference string     `gorm:"unique;not null" json:"provider_reference"`
	Status            string     `gorm:"not null" json:"status"`
	ErrorMessage      string     `json:"error_message,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	TxHash            string     `gorm:"index" json:"tx_hash,omitempty"` // treasury transfer hash for on-chain settled services
	Token             string     `json:"token,omitempty"`                // prepaid electricity token
	ReceiptNumber     string     `json:"receipt_number,omitempty"`       // school fees receipt
}
