package repository

import (
	"context"

	"gorm.io/gorm"

	"roadguard-service/internal/model"
)

type ChallanRepository struct {
	db *gorm.DB
}

func NewChallanRepository(db *gorm.DB) *ChallanRepository {
	return &ChallanRepository{db: db}
}

func (r *ChallanRepository) List(ctx context.Context, limit int) ([]model.Challan, error) {
	query := r.db.WithContext(ctx).Model(&model.Challan{})
	if limit > 0 {
		query = query.Limit(limit)
	}

	var challans []model.Challan
	if err := query.Order("issued_at DESC, id DESC").Find(&challans).Error; err != nil {
		return nil, err
	}
	return challans, nil
}

// FineTotals returns the sum of all issued fines and the sum of paid ones.
func (r *ChallanRepository) FineTotals(ctx context.Context) (total int64, collected int64, err error) {
	if err = r.db.WithContext(ctx).
		Model(&model.Challan{}).
		Select("COALESCE(SUM(fine_amount), 0)").
		Scan(&total).Error; err != nil {
		return 0, 0, err
	}

	if err = r.db.WithContext(ctx).
		Model(&model.Challan{}).
		Where("payment_status = ?", model.PaymentStatusPaid).
		Select("COALESCE(SUM(fine_amount), 0)").
		Scan(&collected).Error; err != nil {
		return 0, 0, err
	}

	return total, collected, nil
}
