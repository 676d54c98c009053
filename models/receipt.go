package models

import "time"

// Receipt is an uploaded payment receipt image plus the extraction engine's
// suggestions. The four suggested columns are nullable and independent; they
// pre-fill the verification form and are never authoritative on their own.
type Receipt struct {
	ID             uint `gorm:"primaryKey"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
	RegistrationID *uint  `gorm:"index"` // linked once a staff member matches it
	FileName       string `gorm:"size:255;not null"`
	StorePath      string `gorm:"column:store_path;size:512"`
	ContentType    string `gorm:"size:128"`

	RawText           string   `gorm:"type:text"`
	SuggestedAmount   *float64 `gorm:"column:suggested_amount"`
	SuggestedRef      *string  `gorm:"column:suggested_ref;size:64"`
	SuggestedDateTime *string  `gorm:"column:suggested_datetime;size:32"`
	SuggestedBank     *string  `gorm:"column:suggested_bank;size:64"`

	// Mark receipt as failed for extraction (record kept so staff can review)
	Failed       bool   `gorm:"default:false;index"`
	FailedReason string `gorm:"size:255"`
}
