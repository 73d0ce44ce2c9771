package service

import (
	"context"

	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

// ReportQueryService exposes the read-only projections the dashboard and
// export endpoints are built on. Aggregates are computed here, by the
// consumer of the lifecycle output, not by the lifecycle managers.
type ReportQueryService struct {
	violations ViolationStore
	challans   ChallanStore
}

func NewReportQueryService(violations ViolationStore, challans ChallanStore) *ReportQueryService {
	return &ReportQueryService{
		violations: violations,
		challans:   challans,
	}
}

type DashboardStats struct {
	TotalReports    int64 `json:"total_reports"`
	PendingReports  int64 `json:"pending_reports"`
	ApprovedReports int64 `json:"approved_reports"`
	RejectedReports int64 `json:"rejected_reports"`
	TotalFines      int64 `json:"total_fines"`
	CollectedFines  int64 `json:"collected_fines"`
}

func (s *ReportQueryService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	counts, err := s.violations.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	total, collected, err := s.challans.FineTotals(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		PendingReports:  counts[model.ReportStatusPending],
		ApprovedReports: counts[model.ReportStatusApproved],
		RejectedReports: counts[model.ReportStatusRejected],
		TotalFines:      total,
		CollectedFines:  collected,
	}
	stats.TotalReports = stats.PendingReports + stats.ApprovedReports + stats.RejectedReports
	return stats, nil
}

func (s *ReportQueryService) PendingViolations(ctx context.Context, limit int) ([]model.ViolationReport, error) {
	if limit <= 0 {
		limit = 10
	}
	violations, _, err := s.violations.List(ctx, repository.ViolationFilter{
		Statuses: []model.ReportStatus{model.ReportStatusPending},
		Limit:    limit,
	})
	return violations, err
}

func (s *ReportQueryService) Challans(ctx context.Context, limit int) ([]model.Challan, error) {
	return s.challans.List(ctx, limit)
}

// ViolationsForExport returns the filtered set without the interactive
// default page cap.
func (s *ReportQueryService) ViolationsForExport(ctx context.Context, filter repository.ViolationFilter) ([]model.ViolationReport, error) {
	filter.Offset = 0
	filter.Limit = 10000
	violations, _, err := s.violations.List(ctx, filter)
	return violations, err
}
