package model

import (
	"time"

	"github.com/google/uuid"
)

type ReportStatus string

const (
	ReportStatusPending  ReportStatus = "pending"
	ReportStatusApproved ReportStatus = "approved"
	ReportStatusRejected ReportStatus = "rejected"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

type ViolationCategory string

const (
	CategorySignalJumping      ViolationCategory = "signal-jumping"
	CategoryWrongRoute         ViolationCategory = "wrong-route"
	CategoryNoHelmet           ViolationCategory = "no-helmet"
	CategoryOverSpeeding       ViolationCategory = "over-speeding"
	CategoryWrongParking       ViolationCategory = "wrong-parking"
	CategoryTripleRiding       ViolationCategory = "triple-riding"
	CategoryNoSeatbelt         ViolationCategory = "no-seatbelt"
	CategoryMobileWhileDriving ViolationCategory = "mobile-while-driving"
)

// ViolationCategories is the closed set accepted at submission time.
var ViolationCategories = []ViolationCategory{
	CategorySignalJumping,
	CategoryWrongRoute,
	CategoryNoHelmet,
	CategoryOverSpeeding,
	CategoryWrongParking,
	CategoryTripleRiding,
	CategoryNoSeatbelt,
	CategoryMobileWhileDriving,
}

func (c ViolationCategory) Valid() bool {
	for _, known := range ViolationCategories {
		if c == known {
			return true
		}
	}
	return false
}

type IDProofType string

const (
	IDProofAadhaar        IDProofType = "aadhaar"
	IDProofDrivingLicense IDProofType = "driving-license"
)

func (t IDProofType) Valid() bool {
	return t == IDProofAadhaar || t == IDProofDrivingLicense
}

// FileRef points at an already-stored upload. The service never touches raw bytes.
type FileRef struct {
	URL          string `gorm:"type:text" json:"url"`
	OriginalName string `gorm:"type:text" json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `gorm:"type:varchar(128)" json:"mime_type"`
}

type EvidenceFile struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ViolationID uuid.UUID `gorm:"type:uuid;not null" json:"violation_id"`
	FileRef     `gorm:"embedded"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (EvidenceFile) TableName() string {
	return "violation_evidence_files"
}

type Reporter struct {
	Name          string      `gorm:"type:varchar(100);not null" json:"name"`
	Phone         string      `gorm:"type:varchar(10);not null" json:"phone"`
	Email         string      `gorm:"type:varchar(255)" json:"email,omitempty"`
	IDProofType   IDProofType `gorm:"type:id_proof_type;not null" json:"id_proof_type"`
	IDProofNumber string      `gorm:"type:varchar(64);not null" json:"id_proof_number"`
	IDProofFile   FileRef     `gorm:"embedded;embeddedPrefix:id_proof_file_" json:"id_proof_file"`
	UPIID         string      `gorm:"column:upi_id;type:varchar(128)" json:"upi_id,omitempty"`
}

type ViolationReport struct {
	ID              uuid.UUID         `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Code            string            `gorm:"type:varchar(32);not null;uniqueIndex" json:"code"`
	Category        ViolationCategory `gorm:"type:varchar(32);not null" json:"category"`
	VehicleNumber   string            `gorm:"type:varchar(16);not null" json:"vehicle_number"`
	Date            time.Time         `gorm:"not null" json:"date"`
	LocationAddress string            `gorm:"type:text;not null" json:"location_address"`
	Lat             *float64          `json:"lat,omitempty"`
	Lng             *float64          `json:"lng,omitempty"`
	Details         string            `gorm:"type:varchar(500)" json:"details"`
	Reporter        Reporter          `gorm:"embedded;embeddedPrefix:reporter_" json:"reporter"`
	Status          ReportStatus      `gorm:"type:report_status;not null;default:'pending'" json:"status"`

	// Review outcome. Set exactly once, by the transition that leaves pending.
	FineAmount      *int64     `json:"fine_amount,omitempty"`
	ChallanCode     *string    `gorm:"type:varchar(32)" json:"challan_code,omitempty"`
	ReviewedBy      *uuid.UUID `gorm:"type:uuid" json:"reviewed_by,omitempty"`
	ReviewedAt      *time.Time `json:"reviewed_at,omitempty"`
	RejectionReason *string    `gorm:"type:text" json:"rejection_reason,omitempty"`

	// Payment tracking is owned by external collaborators; the lifecycle
	// manager only initializes these.
	PaymentStatus    PaymentStatus `gorm:"type:payment_status;not null;default:'unpaid'" json:"payment_status"`
	PaidAt           *time.Time    `json:"paid_at,omitempty"`
	CommissionPaid   bool          `gorm:"not null;default:false" json:"commission_paid"`
	CommissionPaidAt *time.Time    `json:"commission_paid_at,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Evidence []EvidenceFile `gorm:"foreignKey:ViolationID" json:"evidence"`
}

func (ViolationReport) TableName() string {
	return "violation_reports"
}
