package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roadguard-service/internal/model"
)

type ViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

type ViolationFilter struct {
	Statuses   []model.ReportStatus
	Categories []model.ViolationCategory
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

// ApproveUpdate carries the fields an approval sets on the report. The
// challan itself is created in the same transaction.
type ApproveUpdate struct {
	FineAmount  int64
	ChallanCode string
	ReviewedBy  uuid.UUID
	ReviewedAt  time.Time
}

type RejectUpdate struct {
	Reason     string
	ReviewedBy uuid.UUID
	ReviewedAt time.Time
}

func (r *ViolationRepository) Create(ctx context.Context, violation *model.ViolationReport) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

func (r *ViolationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ViolationReport, error) {
	var violation model.ViolationReport
	err := r.db.WithContext(ctx).
		Preload("Evidence").
		First(&violation, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &violation, nil
}

func (r *ViolationRepository) List(ctx context.Context, filter ViolationFilter) ([]model.ViolationReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.ViolationReport{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Categories) > 0 {
		query = query.Where("category IN ?", filter.Categories)
	}
	if filter.DateFrom != nil {
		query = query.Where("date >= ?", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		query = query.Where("date <= ?", *filter.DateTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(200)
	}

	var violations []model.ViolationReport
	if err := query.
		Order("created_at DESC, id DESC").
		Preload("Evidence").
		Find(&violations).Error; err != nil {
		return nil, 0, err
	}

	return violations, total, nil
}

// Approve flips a pending report to approved and creates its challan as one
// transaction. The status write is conditioned on the report still being
// pending; a concurrent reviewer losing the race gets ErrStatusConflict and
// nothing is written.
func (r *ViolationRepository) Approve(ctx context.Context, id uuid.UUID, upd ApproveUpdate, challan *model.Challan) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ViolationReport{}).
			Where("id = ? AND status = ?", id, model.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":       model.ReportStatusApproved,
				"fine_amount":  upd.FineAmount,
				"challan_code": upd.ChallanCode,
				"reviewed_by":  upd.ReviewedBy,
				"reviewed_at":  upd.ReviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		if err := tx.Create(challan).Error; err != nil {
			return err
		}

		prev := model.ReportStatusPending
		return tx.Create(&model.ViolationStatusLog{
			ViolationID: id,
			OldStatus:   &prev,
			NewStatus:   model.ReportStatusApproved,
			Note:        "challan " + upd.ChallanCode,
			ChangedBy:   &upd.ReviewedBy,
		}).Error
	})
}

func (r *ViolationRepository) Reject(ctx context.Context, id uuid.UUID, upd RejectUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.ViolationReport{}).
			Where("id = ? AND status = ?", id, model.ReportStatusPending).
			Updates(map[string]interface{}{
				"status":           model.ReportStatusRejected,
				"rejection_reason": upd.Reason,
				"reviewed_by":      upd.ReviewedBy,
				"reviewed_at":      upd.ReviewedAt,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		prev := model.ReportStatusPending
		return tx.Create(&model.ViolationStatusLog{
			ViolationID: id,
			OldStatus:   &prev,
			NewStatus:   model.ReportStatusRejected,
			Note:        upd.Reason,
			ChangedBy:   &upd.ReviewedBy,
		}).Error
	})
}

func (r *ViolationRepository) CountByStatus(ctx context.Context) (map[model.ReportStatus]int64, error) {
	var rows []struct {
		Status model.ReportStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.ViolationReport{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[model.ReportStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
