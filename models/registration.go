package models

import "time"

// Registration statuses.
const (
	RegistrationPending   = "pending"
	RegistrationPaid      = "paid"
	RegistrationCancelled = "cancelled"
)

// Registration is one conference attendee record. Code is the public
// reference printed on confirmation emails and quoted on payment receipts.
type Registration struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time `gorm:"index"`
	Code      string     `gorm:"size:64;uniqueIndex;not null"`
	FullName  string     `gorm:"size:255;not null"`
	Email     string     `gorm:"size:255;index"`
	Phone     string     `gorm:"size:64"`
	Church    string     `gorm:"size:255"`
	Category  string     `gorm:"size:32;not null;default:regular"` // regular, student, pastor
	Fee       int64      `gorm:"not null"`                         // whole pesos
	Status    string     `gorm:"size:32;not null;default:pending;index"`
	Payments  []Payment  `gorm:"foreignKey:RegistrationID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
