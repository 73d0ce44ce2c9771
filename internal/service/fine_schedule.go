package service

import (
	"math"

	"roadguard-service/internal/model"
)

// BaselineFine is charged when a category has no schedule entry. Submission
// rejects unknown categories, so this only matters if the enum grows ahead
// of the schedule.
const BaselineFine int64 = 500

const commissionRate = 0.15

// FineSchedule maps violation categories to fixed fine amounts.
type FineSchedule struct {
	amounts map[model.ViolationCategory]int64
}

func NewFineSchedule() *FineSchedule {
	return &FineSchedule{
		amounts: map[model.ViolationCategory]int64{
			model.CategorySignalJumping:      1000,
			model.CategoryWrongRoute:         500,
			model.CategoryNoHelmet:           500,
			model.CategoryOverSpeeding:       2000,
			model.CategoryWrongParking:       500,
			model.CategoryTripleRiding:       1000,
			model.CategoryNoSeatbelt:         500,
			model.CategoryMobileWhileDriving: 1000,
		},
	}
}

func (s *FineSchedule) Amount(category model.ViolationCategory) int64 {
	if amount, ok := s.amounts[category]; ok {
		return amount
	}
	return BaselineFine
}

// Commission is the reporter's share of a fine, rounded to the nearest whole
// unit. It is communicated in the approval notification, never persisted as
// an obligation.
func Commission(fineAmount int64) int64 {
	return int64(math.Round(float64(fineAmount) * commissionRate))
}
