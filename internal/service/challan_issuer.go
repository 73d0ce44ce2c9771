package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"roadguard-service/internal/model"
)

// ChallanIssuer builds the immutable challan for an approved violation. It
// copies the violation fields at approval time; later edits to the report
// can never change an issued challan.
type ChallanIssuer struct{}

func NewChallanIssuer() *ChallanIssuer {
	return &ChallanIssuer{}
}

func (ChallanIssuer) Issue(violation *model.ViolationReport, fineAmount int64, issuedBy uuid.UUID, at time.Time) *model.Challan {
	return &model.Challan{
		ID:              uuid.New(),
		Code:            fmt.Sprintf("CH%d", at.UnixMilli()),
		ViolationID:     violation.ID,
		VehicleNumber:   violation.VehicleNumber,
		Category:        violation.Category,
		LocationAddress: violation.LocationAddress,
		Date:            violation.Date,
		FineAmount:      fineAmount,
		IssuedBy:        issuedBy,
		IssuedAt:        at,
		PaymentStatus:   model.PaymentStatusUnpaid,
	}
}
