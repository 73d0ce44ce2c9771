package model

import (
	"time"

	"github.com/google/uuid"
)

type HazardStatus string

const (
	HazardStatusReported HazardStatus = "reported"
	HazardStatusVerified HazardStatus = "verified"
	HazardStatusResolved HazardStatus = "resolved"
)

type HazardSeverity string

const (
	HazardSeverityLow      HazardSeverity = "low"
	HazardSeverityMedium   HazardSeverity = "medium"
	HazardSeverityHigh     HazardSeverity = "high"
	HazardSeverityCritical HazardSeverity = "critical"
)

func (s HazardSeverity) Valid() bool {
	switch s {
	case HazardSeverityLow, HazardSeverityMedium, HazardSeverityHigh, HazardSeverityCritical:
		return true
	}
	return false
}

type HazardType string

const (
	HazardTypePothole      HazardType = "pothole"
	HazardTypeBrokenSignal HazardType = "broken-signal"
	HazardTypeDebris       HazardType = "debris"
	HazardTypeWaterlogging HazardType = "waterlogging"
	HazardTypeStreetlight  HazardType = "streetlight-out"
	HazardTypeDamagedSign  HazardType = "damaged-sign"
	HazardTypeOther        HazardType = "other"
)

var HazardTypes = []HazardType{
	HazardTypePothole,
	HazardTypeBrokenSignal,
	HazardTypeDebris,
	HazardTypeWaterlogging,
	HazardTypeStreetlight,
	HazardTypeDamagedSign,
	HazardTypeOther,
}

func (t HazardType) Valid() bool {
	for _, known := range HazardTypes {
		if t == known {
			return true
		}
	}
	return false
}

type HazardReport struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Code            string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Type            HazardType     `gorm:"type:varchar(32);not null" json:"type"`
	Severity        HazardSeverity `gorm:"type:hazard_severity;not null" json:"severity"`
	LocationAddress string         `gorm:"type:text;not null" json:"location_address"`
	Lat             *float64       `json:"lat,omitempty"`
	Lng             *float64       `json:"lng,omitempty"`
	Description     string         `gorm:"type:text;not null" json:"description"`
	Photo           *FileRef       `gorm:"embedded;embeddedPrefix:photo_" json:"photo,omitempty"`

	// Reporter contact is optional; anonymous reports are allowed.
	ReporterName  string `gorm:"type:varchar(100)" json:"reporter_name,omitempty"`
	ReporterPhone string `gorm:"type:varchar(10)" json:"reporter_phone,omitempty"`
	ReporterEmail string `gorm:"type:varchar(255)" json:"reporter_email,omitempty"`

	Status        HazardStatus `gorm:"type:hazard_status;not null;default:'reported'" json:"status"`
	VerifiedCount int          `gorm:"not null;default:0" json:"verified_count"`

	VerifiedBy        *uuid.UUID `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	ResolvedBy        *uuid.UUID `gorm:"type:uuid" json:"resolved_by,omitempty"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
	ResolutionDetails *string    `gorm:"type:text" json:"resolution_details,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (HazardReport) TableName() string {
	return "hazard_reports"
}
