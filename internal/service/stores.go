package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

// ViolationStore is the record store the violation lifecycle runs on.
// Approve and Reject are conditioned on the report still being pending and
// return repository.ErrStatusConflict when it is not; Approve writes the
// report and its challan as one unit.
type ViolationStore interface {
	Create(ctx context.Context, violation *model.ViolationReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ViolationReport, error)
	List(ctx context.Context, filter repository.ViolationFilter) ([]model.ViolationReport, int64, error)
	Approve(ctx context.Context, id uuid.UUID, upd repository.ApproveUpdate, challan *model.Challan) error
	Reject(ctx context.Context, id uuid.UUID, upd repository.RejectUpdate) error
	CountByStatus(ctx context.Context) (map[model.ReportStatus]int64, error)
}

type ChallanStore interface {
	List(ctx context.Context, limit int) ([]model.Challan, error)
	FineTotals(ctx context.Context) (total int64, collected int64, err error)
}

type HazardStore interface {
	Create(ctx context.Context, hazard *model.HazardReport) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.HazardReport, error)
	List(ctx context.Context, filter repository.HazardFilter) ([]model.HazardReport, int64, error)
	Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) error
	Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time, details string) error
	Stats(ctx context.Context) (*repository.HazardStats, error)
}

// Notifier delivers best-effort messages. Dispatch must return promptly and
// must never surface delivery failures to the caller.
type Notifier interface {
	Dispatch(recipient, subject, body string)
}
