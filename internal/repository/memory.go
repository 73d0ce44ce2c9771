package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"roadguard-service/internal/model"
)

// memoryState backs the in-memory stores. One mutex guards everything, which
// gives the same per-record serialization the database provides and lets the
// approve path write the report and its challan as a single unit.
type memoryState struct {
	mu            sync.Mutex
	violations    map[uuid.UUID]model.ViolationReport
	challans      map[uuid.UUID]model.Challan
	hazards       map[uuid.UUID]model.HazardReport
	violationLogs []model.ViolationStatusLog
	hazardLogs    []model.HazardStatusLog
}

type InMemoryViolations struct{ state *memoryState }

type InMemoryChallans struct{ state *memoryState }

type InMemoryHazards struct{ state *memoryState }

// NewInMemory returns store implementations over shared state. They honor
// the same conditional-write contract as the GORM repositories; the
// lifecycle unit tests run against them.
func NewInMemory() (*InMemoryViolations, *InMemoryChallans, *InMemoryHazards) {
	state := &memoryState{
		violations: make(map[uuid.UUID]model.ViolationReport),
		challans:   make(map[uuid.UUID]model.Challan),
		hazards:    make(map[uuid.UUID]model.HazardReport),
	}
	return &InMemoryViolations{state: state},
		&InMemoryChallans{state: state},
		&InMemoryHazards{state: state}
}

func (s *InMemoryViolations) Create(ctx context.Context, violation *model.ViolationReport) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if violation.ID == uuid.Nil {
		violation.ID = uuid.New()
	}
	if violation.CreatedAt.IsZero() {
		violation.CreatedAt = time.Now()
	}
	violation.UpdatedAt = violation.CreatedAt
	for i := range violation.Evidence {
		if violation.Evidence[i].ID == uuid.Nil {
			violation.Evidence[i].ID = uuid.New()
		}
		violation.Evidence[i].ViolationID = violation.ID
	}

	s.state.violations[violation.ID] = *violation
	return nil
}

func (s *InMemoryViolations) GetByID(ctx context.Context, id uuid.UUID) (*model.ViolationReport, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	violation, ok := s.state.violations[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &violation, nil
}

func (s *InMemoryViolations) List(ctx context.Context, filter ViolationFilter) ([]model.ViolationReport, int64, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var matched []model.ViolationReport
	for _, violation := range s.state.violations {
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, violation.Status) {
			continue
		}
		if len(filter.Categories) > 0 && !contains(filter.Categories, violation.Category) {
			continue
		}
		if filter.DateFrom != nil && violation.Date.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && violation.Date.After(*filter.DateTo) {
			continue
		}
		matched = append(matched, violation)
	}

	sortNewestFirst(matched, func(v model.ViolationReport) (time.Time, uuid.UUID) {
		return v.CreatedAt, v.ID
	})

	total := int64(len(matched))
	return paginate(matched, filter.Offset, filter.Limit), total, nil
}

func (s *InMemoryViolations) Approve(ctx context.Context, id uuid.UUID, upd ApproveUpdate, challan *model.Challan) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	violation, ok := s.state.violations[id]
	if !ok {
		return ErrNotFound
	}
	if violation.Status != model.ReportStatusPending {
		return ErrStatusConflict
	}

	if challan.ID == uuid.Nil {
		challan.ID = uuid.New()
	}

	fine := upd.FineAmount
	code := upd.ChallanCode
	reviewer := upd.ReviewedBy
	reviewedAt := upd.ReviewedAt
	violation.Status = model.ReportStatusApproved
	violation.FineAmount = &fine
	violation.ChallanCode = &code
	violation.ReviewedBy = &reviewer
	violation.ReviewedAt = &reviewedAt
	violation.UpdatedAt = reviewedAt

	s.state.violations[id] = violation
	s.state.challans[challan.ID] = *challan

	prev := model.ReportStatusPending
	s.state.violationLogs = append(s.state.violationLogs, model.ViolationStatusLog{
		ID:          uuid.New(),
		ViolationID: id,
		OldStatus:   &prev,
		NewStatus:   model.ReportStatusApproved,
		Note:        "challan " + code,
		ChangedBy:   &reviewer,
		CreatedAt:   reviewedAt,
	})
	return nil
}

func (s *InMemoryViolations) Reject(ctx context.Context, id uuid.UUID, upd RejectUpdate) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	violation, ok := s.state.violations[id]
	if !ok {
		return ErrNotFound
	}
	if violation.Status != model.ReportStatusPending {
		return ErrStatusConflict
	}

	reason := upd.Reason
	reviewer := upd.ReviewedBy
	reviewedAt := upd.ReviewedAt
	violation.Status = model.ReportStatusRejected
	violation.RejectionReason = &reason
	violation.ReviewedBy = &reviewer
	violation.ReviewedAt = &reviewedAt
	violation.UpdatedAt = reviewedAt

	s.state.violations[id] = violation

	prev := model.ReportStatusPending
	s.state.violationLogs = append(s.state.violationLogs, model.ViolationStatusLog{
		ID:          uuid.New(),
		ViolationID: id,
		OldStatus:   &prev,
		NewStatus:   model.ReportStatusRejected,
		Note:        reason,
		ChangedBy:   &reviewer,
		CreatedAt:   reviewedAt,
	})
	return nil
}

func (s *InMemoryViolations) CountByStatus(ctx context.Context) (map[model.ReportStatus]int64, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	counts := make(map[model.ReportStatus]int64)
	for _, violation := range s.state.violations {
		counts[violation.Status]++
	}
	return counts, nil
}

// Logs returns a copy of the status log, oldest first.
func (s *InMemoryViolations) Logs() []model.ViolationStatusLog {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]model.ViolationStatusLog(nil), s.state.violationLogs...)
}

func (s *InMemoryChallans) List(ctx context.Context, limit int) ([]model.Challan, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	challans := make([]model.Challan, 0, len(s.state.challans))
	for _, challan := range s.state.challans {
		challans = append(challans, challan)
	}
	sortNewestFirst(challans, func(c model.Challan) (time.Time, uuid.UUID) {
		return c.IssuedAt, c.ID
	})
	if limit > 0 && len(challans) > limit {
		challans = challans[:limit]
	}
	return challans, nil
}

func (s *InMemoryChallans) FineTotals(ctx context.Context) (total int64, collected int64, err error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	for _, challan := range s.state.challans {
		total += challan.FineAmount
		if challan.PaymentStatus == model.PaymentStatusPaid {
			collected += challan.FineAmount
		}
	}
	return total, collected, nil
}

func (s *InMemoryHazards) Create(ctx context.Context, hazard *model.HazardReport) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	if hazard.ID == uuid.Nil {
		hazard.ID = uuid.New()
	}
	if hazard.CreatedAt.IsZero() {
		hazard.CreatedAt = time.Now()
	}
	hazard.UpdatedAt = hazard.CreatedAt

	s.state.hazards[hazard.ID] = *hazard
	return nil
}

func (s *InMemoryHazards) GetByID(ctx context.Context, id uuid.UUID) (*model.HazardReport, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	hazard, ok := s.state.hazards[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &hazard, nil
}

func (s *InMemoryHazards) List(ctx context.Context, filter HazardFilter) ([]model.HazardReport, int64, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	var matched []model.HazardReport
	for _, hazard := range s.state.hazards {
		if len(filter.Statuses) > 0 && !contains(filter.Statuses, hazard.Status) {
			continue
		}
		if len(filter.Types) > 0 && !contains(filter.Types, hazard.Type) {
			continue
		}
		if len(filter.Severities) > 0 && !contains(filter.Severities, hazard.Severity) {
			continue
		}
		matched = append(matched, hazard)
	}

	sortNewestFirst(matched, func(h model.HazardReport) (time.Time, uuid.UUID) {
		return h.CreatedAt, h.ID
	})

	total := int64(len(matched))
	return paginate(matched, filter.Offset, filter.Limit), total, nil
}

func (s *InMemoryHazards) Verify(ctx context.Context, id uuid.UUID, verifiedBy uuid.UUID, at time.Time) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	hazard, ok := s.state.hazards[id]
	if !ok {
		return ErrNotFound
	}
	if hazard.Status != model.HazardStatusReported {
		return ErrStatusConflict
	}

	verifier := verifiedBy
	verifiedAt := at
	hazard.Status = model.HazardStatusVerified
	hazard.VerifiedBy = &verifier
	hazard.VerifiedAt = &verifiedAt
	hazard.VerifiedCount++
	hazard.UpdatedAt = at

	s.state.hazards[id] = hazard

	prev := model.HazardStatusReported
	s.state.hazardLogs = append(s.state.hazardLogs, model.HazardStatusLog{
		ID:        uuid.New(),
		HazardID:  id,
		OldStatus: &prev,
		NewStatus: model.HazardStatusVerified,
		Note:      "hazard verified",
		ChangedBy: &verifier,
		CreatedAt: at,
	})
	return nil
}

func (s *InMemoryHazards) Resolve(ctx context.Context, id uuid.UUID, resolvedBy uuid.UUID, at time.Time, details string) error {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	hazard, ok := s.state.hazards[id]
	if !ok {
		return ErrNotFound
	}
	if hazard.Status != model.HazardStatusVerified {
		return ErrStatusConflict
	}

	resolver := resolvedBy
	resolvedAt := at
	resolution := details
	hazard.Status = model.HazardStatusResolved
	hazard.ResolvedBy = &resolver
	hazard.ResolvedAt = &resolvedAt
	hazard.ResolutionDetails = &resolution
	hazard.UpdatedAt = at

	s.state.hazards[id] = hazard

	prev := model.HazardStatusVerified
	s.state.hazardLogs = append(s.state.hazardLogs, model.HazardStatusLog{
		ID:        uuid.New(),
		HazardID:  id,
		OldStatus: &prev,
		NewStatus: model.HazardStatusResolved,
		Note:      details,
		ChangedBy: &resolver,
		CreatedAt: at,
	})
	return nil
}

func (s *InMemoryHazards) Stats(ctx context.Context) (*HazardStats, error) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	stats := &HazardStats{
		ByType:     make(map[model.HazardType]int64),
		BySeverity: make(map[model.HazardSeverity]int64),
		ByStatus:   make(map[model.HazardStatus]int64),
	}
	var all []model.HazardReport
	for _, hazard := range s.state.hazards {
		stats.ByType[hazard.Type]++
		stats.BySeverity[hazard.Severity]++
		stats.ByStatus[hazard.Status]++
		all = append(all, hazard)
	}

	sortNewestFirst(all, func(h model.HazardReport) (time.Time, uuid.UUID) {
		return h.CreatedAt, h.ID
	})
	if len(all) > 5 {
		all = all[:5]
	}
	stats.Recent = all
	return stats, nil
}

func (s *InMemoryHazards) Logs() []model.HazardStatusLog {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	return append([]model.HazardStatusLog(nil), s.state.hazardLogs...)
}

func sortNewestFirst[T any](items []T, key func(T) (time.Time, uuid.UUID)) {
	sort.SliceStable(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return idi.String() > idj.String()
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit <= 0 {
		limit = 200
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items
}

func contains[T comparable](haystack []T, needle T) bool {
	for _, item := range haystack {
		if item == needle {
			return true
		}
	}
	return false
}
