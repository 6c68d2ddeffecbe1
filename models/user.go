package models

import "gorm.io/gorm"

type User struct {
	gorm.Model
	WalletAddress string `gorm:"unique;not null" json:"wallet_address"`
	Email         string `gorm:"unique;not null" json:"email"`
	PhoneNumber   string `json:"phone_number"`
	Password      string `gorm:"not null" json:"-"`
}
