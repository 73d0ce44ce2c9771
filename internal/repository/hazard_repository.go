package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"roadguard-service/internal/model"
)

type HazardRepository struct {
	db *gorm.DB
}

func NewHazardRepository(db *gorm.DB) *HazardRepository {
	return &HazardRepository{db: db}
}

type HazardFilter struct {
	Statuses   []model.HazardStatus
	Types      []model.HazardType
	Severities []model.HazardSeverity
	Limit      int
	Offset     int
}

// HazardStats is the aggregate view the stats endpoint exposes.
type HazardStats struct {
	ByType     map[model.HazardType]int64     `json:"by_type"`
	BySeverity map[model.HazardSeverity]int64 `json:"by_severity"`
	ByStatus   map[model.HazardStatus]int64   `json:"by_status"`
	Recent     []model.HazardReport           `json:"recent"`
}

func (r *HazardRepository) Create(ctx context.Context, hazard *model.HazardReport) error {
	return r.db.WithContext(ctx).Create(hazard).Error
}

func (r *HazardRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.HazardReport, error) {
	var hazard model.HazardReport
	err := r.db.WithContext(ctx).First(&hazard, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &hazard, nil
}

func (r *HazardRepository) List(ctx context.Context, filter HazardFilter) ([]model.HazardReport, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.HazardReport{})

	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.Types) > 0 {
		query = query.Where("type IN ?", filter.Types)
	}
	if len(filter.Severities) > 0 {
		query = query.Where("severity IN ?", filter.Severities)
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

	var hazards []model.HazardReport
	if err := query.Order("created_at DESC, id DESC").Find(&hazards).Error; err != nil {
		return nil, 0, err
	}

	return hazards, total, nil
}

// Verify moves a reported hazard to verified. Conditioned on the current
// status so a duplicate verification observes ErrStatusConflict.
func (r *HazardRepository) Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.HazardReport{}).
			Where("id = ? AND status = ?", id, model.HazardStatusReported).
			Updates(map[string]interface{}{
				"status":         model.HazardStatusVerified,
				"verified_by":    verifiedBy,
				"verified_at":    at,
				"verified_count": gorm.Expr("verified_count + 1"),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		prev := model.HazardStatusReported
		return tx.Create(&model.HazardStatusLog{
			HazardID:  id,
			OldStatus: &prev,
			NewStatus: model.HazardStatusVerified,
			Note:      "hazard verified",
			ChangedBy: &verifiedBy,
		}).Error
	})
}

func (r *HazardRepository) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time, details string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.HazardReport{}).
			Where("id = ? AND status = ?", id, model.HazardStatusVerified).
			Updates(map[string]interface{}{
				"status":             model.HazardStatusResolved,
				"resolved_by":        resolvedBy,
				"resolved_at":        at,
				"resolution_details": details,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrStatusConflict
		}

		prev := model.HazardStatusVerified
		return tx.Create(&model.HazardStatusLog{
			HazardID:  id,
			OldStatus: &prev,
			NewStatus: model.HazardStatusResolved,
			Note:      details,
			ChangedBy: &resolvedBy,
		}).Error
	})
}

func (r *HazardRepository) Stats(ctx context.Context) (*HazardStats, error) {
	stats := &HazardStats{
		ByType:     make(map[model.HazardType]int64),
		BySeverity: make(map[model.HazardSeverity]int64),
		ByStatus:   make(map[model.HazardStatus]int64),
	}

	var typeRows []struct {
		Type  model.HazardType
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.HazardReport{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&typeRows).Error; err != nil {
		return nil, err
	}
	for _, row := range typeRows {
		stats.ByType[row.Type] = row.Count
	}

	var severityRows []struct {
		Severity model.HazardSeverity
		Count    int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.HazardReport{}).
		Select("severity, COUNT(*) AS count").
		Group("severity").
		Scan(&severityRows).Error; err != nil {
		return nil, err
	}
	for _, row := range severityRows {
		stats.BySeverity[row.Severity] = row.Count
	}

	var statusRows []struct {
		Status model.HazardStatus
		Count  int64
	}
	if err := r.db.WithContext(ctx).
		Model(&model.HazardReport{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&statusRows).Error; err != nil {
		return nil, err
	}
	for _, row := range statusRows {
		stats.ByStatus[row.Status] = row.Count
	}

	if err := r.db.WithContext(ctx).
		Model(&model.HazardReport{}).
		Order("created_at DESC, id DESC").
		Limit(5).
		Find(&stats.Recent).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
