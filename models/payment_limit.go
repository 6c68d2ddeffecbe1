package models

import "gorm.io/gorm"

type PaymentLimit struct {
	gorm.Model
	ServiceType  string  `gorm:"unique;not null" json:"service_type"`
	MinAmountUGX float64 `gorm:"not null" json:"min_amount_ugx"`
	MaxAmountUGX float64 `gorm:"not null" json:"max_amount_ugx"`
}
