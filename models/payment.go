package models

import "time"

// Payment is a human-verified payment against a registration. Rows are only
// created through the admin verification flow; receipt suggestions never
// become payments without a confirming user.
type Payment struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	RegistrationID uint         `gorm:"index;not null"`
	Registration   Registration `gorm:"foreignKey:RegistrationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Amount         float64      `gorm:"not null"`
	Reference      string       `gorm:"size:64;index"`
	Bank           string       `gorm:"size:64"`
	PaidAt         *time.Time
	ReceiptID      *uint  `gorm:"index"` // source receipt, when paid by bank transfer
	VerifiedBy     string `gorm:"size:255;not null"`
}
