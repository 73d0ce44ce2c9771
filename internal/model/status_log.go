package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ViolationStatusLog struct {
	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ViolationID uuid.UUID     `gorm:"type:uuid;not null" json:"violation_id"`
	OldStatus   *ReportStatus `gorm:"type:report_status" json:"old_status"`
	NewStatus   ReportStatus  `gorm:"type:report_status;not null" json:"new_status"`
	Note        string        `gorm:"type:text" json:"note"`
	ChangedBy   *uuid.UUID    `gorm:"type:uuid" json:"changed_by"`
	CreatedAt   time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (ViolationStatusLog) TableName() string {
	return "violation_status_log"
}

func (l *ViolationStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

type HazardStatusLog struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	HazardID  uuid.UUID     `gorm:"type:uuid;not null" json:"hazard_id"`
	OldStatus *HazardStatus `gorm:"type:hazard_status" json:"old_status"`
	NewStatus HazardStatus  `gorm:"type:hazard_status;not null" json:"new_status"`
	Note      string        `gorm:"type:text" json:"note"`
	ChangedBy *uuid.UUID    `gorm:"type:uuid" json:"changed_by"`
	CreatedAt time.Time     `gorm:"autoCreateTime" json:"created_at"`
}

func (HazardStatusLog) TableName() string {
	return "hazard_status_log"
}

func (l *HazardStatusLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}
