package model

import (
	"time"

	"github.com/google/uuid"
)

// Challan is the fine notice derived from an approved violation report.
// It snapshots the violation at approval time and never reads through to
// the report afterwards.
type Challan struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Code            string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	ViolationID     uuid.UUID         `gorm:"type:uuid;not null" json:"violation_id"`
	VehicleNumber   string            `gorm:"type:varchar(16);not null" json:"vehicle_number"`
	Category        ViolationCategory `gorm:"type:varchar(32);not null" json:"category"`
	LocationAddress string            `gorm:"type:text;not null" json:"location_address"`
	Date            time.Time         `gorm:"not null" json:"date"`
	FineAmount      int64             `gorm:"not null" json:"fine_amount"`
	IssuedBy        uuid.UUID         `gorm:"type:uuid;not null" json:"issued_by"`
	IssuedAt        time.Time         `gorm:"not null" json:"issued_at"`
	PaymentStatus   PaymentStatus     `gorm:"type:payment_status;not null;default:'unpaid'" json:"payment_status"`
	PaidAt          *time.Time        `json:"paid_at,omitempty"`
	PaymentMethod   *string           `gorm:"type:varchar(32)" json:"payment_method,omitempty"`
	PaymentID       *string           `gorm:"type:varchar(64)" json:"payment_id,omitempty"`
}

func (Challan) TableName() string {
	return "challans"
}
