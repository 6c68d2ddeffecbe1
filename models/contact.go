package models

import "gorm.io/gorm"

type Contact struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index" json:"user_id"`
	Name        string `gorm:"not null" json:"name"`
	PhoneNumber string `gorm:"not null" json:"phone_number"`
	Network     string `json:"network"`
}
