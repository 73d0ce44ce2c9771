package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roadguard-service/internal/metrics"
	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

// Patterns come from the submission rules: Indian plate format, 10-digit
// phone, basic email shape.
var (
	vehicleNumberPattern = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{2}[A-Za-z]{1,2}[0-9]{4}$`)
	phonePattern         = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern         = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
)

const maxDetailsLength = 500

const defaultRejectionReason = "Insufficient evidence"

type ViolationService struct {
	violations ViolationStore
	fines      *FineSchedule
	issuer     *ChallanIssuer
	notifier   Notifier
	metrics    *metrics.Metrics
	log        zerolog.Logger
}

func NewViolationService(
	violations ViolationStore,
	fines *FineSchedule,
	issuer *ChallanIssuer,
	notifier Notifier,
	m *metrics.Metrics,
	log zerolog.Logger,
) *ViolationService {
	return &ViolationService{
		violations: violations,
		fines:      fines,
		issuer:     issuer,
		notifier:   notifier,
		metrics:    m,
		log:        log,
	}
}

type ReporterInput struct {
	Name          string
	Phone         string
	Email         string
	IDProofType   model.IDProofType
	IDProofNumber string
	IDProofFile   model.FileRef
	UPIID         string
}

type SubmitViolationInput struct {
	Category        model.ViolationCategory
	VehicleNumber   string
	Date            time.Time
	LocationAddress string
	Lat             *float64
	Lng             *float64
	Details         string
	Evidence        []model.FileRef
	Reporter        ReporterInput
}

func (in SubmitViolationInput) validate() error {
	fields := fieldErrors{}

	if !in.Category.Valid() {
		fields.add("category", "unknown violation category")
	}
	if !vehicleNumberPattern.MatchString(in.VehicleNumber) {
		fields.add("vehicle_number", "must match the plate format, e.g. KA01AB1234")
	}
	if in.Date.IsZero() {
		fields.add("date", "date of occurrence is required")
	}
	if strings.TrimSpace(in.LocationAddress) == "" {
		fields.add("location_address", "location is required")
	}
	if len(in.Details) > maxDetailsLength {
		fields.add("details", fmt.Sprintf("must be at most %d characters", maxDetailsLength))
	}
	if strings.TrimSpace(in.Reporter.Name) == "" {
		fields.add("reporter.name", "name is required")
	}
	if !phonePattern.MatchString(in.Reporter.Phone) {
		fields.add("reporter.phone", "must be a 10-digit phone number")
	}
	if in.Reporter.Email != "" && !emailPattern.MatchString(in.Reporter.Email) {
		fields.add("reporter.email", "must be a valid email address")
	}
	if !in.Reporter.IDProofType.Valid() {
		fields.add("reporter.id_proof_type", "must be aadhaar or driving-license")
	}
	if strings.TrimSpace(in.Reporter.IDProofNumber) == "" {
		fields.add("reporter.id_proof_number", "id proof number is required")
	}

	return fields.toError()
}

// Submit validates the report and stores it in pending state. The
// acknowledgment mail is fire-and-forget; a failed send never rolls back the
// created record.
func (s *ViolationService) Submit(ctx context.Context, input SubmitViolationInput) (*model.ViolationReport, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	violation := &model.ViolationReport{
		ID:              uuid.New(),
		Code:            fmt.Sprintf("VR%d", now.UnixMilli()),
		Category:        input.Category,
		VehicleNumber:   strings.ToUpper(input.VehicleNumber),
		Date:            input.Date,
		LocationAddress: input.LocationAddress,
		Lat:             input.Lat,
		Lng:             input.Lng,
		Details:         input.Details,
		Reporter: model.Reporter{
			Name:          strings.TrimSpace(input.Reporter.Name),
			Phone:         input.Reporter.Phone,
			Email:         input.Reporter.Email,
			IDProofType:   input.Reporter.IDProofType,
			IDProofNumber: input.Reporter.IDProofNumber,
			IDProofFile:   input.Reporter.IDProofFile,
			UPIID:         input.Reporter.UPIID,
		},
		Status:        model.ReportStatusPending,
		PaymentStatus: model.PaymentStatusUnpaid,
	}
	for _, ref := range input.Evidence {
		violation.Evidence = append(violation.Evidence, model.EvidenceFile{
			ID:          uuid.New(),
			ViolationID: violation.ID,
			FileRef:     ref,
		})
	}

	if err := s.violations.Create(ctx, violation); err != nil {
		return nil, err
	}

	s.metrics.ViolationsSubmitted.Inc()

	if violation.Reporter.Email != "" {
		s.notifier.Dispatch(
			violation.Reporter.Email,
			"Violation report received",
			fmt.Sprintf(
				"Dear %s,\n\nYour violation report %s has been received and is awaiting review. You will be notified once it is processed.",
				violation.Reporter.Name, violation.Code,
			),
		)
	}

	return violation, nil
}

// Approve moves a pending report to approved, resolves the fine, and issues
// the challan in the same store transaction. A report that already left
// pending yields ErrInvalidTransition, so duplicate reviewer actions are
// surfaced rather than silently swallowed.
func (s *ViolationService) Approve(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.ViolationReport, *model.Challan, error) {
	if !principal.CanReview() {
		return nil, nil, ErrPermissionDenied
	}

	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}
	if violation.Status != model.ReportStatusPending {
		return nil, nil, ErrInvalidTransition
	}

	now := time.Now()
	fine := s.fines.Amount(violation.Category)
	challan := s.issuer.Issue(violation, fine, principal.UserID, now)

	err = s.violations.Approve(ctx, id, repository.ApproveUpdate{
		FineAmount:  fine,
		ChallanCode: challan.Code,
		ReviewedBy:  principal.UserID,
		ReviewedAt:  now,
	}, challan)
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, err
	}

	reviewer := principal.UserID
	violation.Status = model.ReportStatusApproved
	violation.FineAmount = &fine
	violation.ChallanCode = &challan.Code
	violation.ReviewedBy = &reviewer
	violation.ReviewedAt = &now

	s.metrics.ViolationsApproved.Inc()

	if violation.Reporter.Email != "" {
		commission := Commission(fine)
		s.notifier.Dispatch(
			violation.Reporter.Email,
			"Violation report approved",
			fmt.Sprintf(
				"Dear %s,\n\nYour violation report %s has been approved. Challan %s was issued for a fine of Rs. %d. Your reward of Rs. %d will be paid out once the fine is collected.",
				violation.Reporter.Name, violation.Code, challan.Code, fine, commission,
			),
		)
	}

	return violation, challan, nil
}

func (s *ViolationService) Reject(ctx context.Context, principal model.Principal, id uuid.UUID, reason string) (*model.ViolationReport, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if violation.Status != model.ReportStatusPending {
		return nil, ErrInvalidTransition
	}

	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultRejectionReason
	}

	now := time.Now()
	err = s.violations.Reject(ctx, id, repository.RejectUpdate{
		Reason:     reason,
		ReviewedBy: principal.UserID,
		ReviewedAt: now,
	})
	if err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	reviewer := principal.UserID
	violation.Status = model.ReportStatusRejected
	violation.RejectionReason = &reason
	violation.ReviewedBy = &reviewer
	violation.ReviewedAt = &now

	s.metrics.ViolationsRejected.Inc()

	if violation.Reporter.Email != "" {
		s.notifier.Dispatch(
			violation.Reporter.Email,
			"Violation report rejected",
			fmt.Sprintf(
				"Dear %s,\n\nYour violation report %s has been rejected. Reason: %s",
				violation.Reporter.Name, violation.Code, reason,
			),
		)
	}

	return violation, nil
}

func (s *ViolationService) Get(ctx context.Context, id uuid.UUID) (*model.ViolationReport, error) {
	violation, err := s.violations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return violation, nil
}

type ListViolationsOptions struct {
	Statuses   []model.ReportStatus
	Categories []model.ViolationCategory
	DateFrom   *time.Time
	DateTo     *time.Time
	Limit      int
	Offset     int
}

func (s *ViolationService) List(ctx context.Context, opts ListViolationsOptions) ([]model.ViolationReport, int64, error) {
	return s.violations.List(ctx, repository.ViolationFilter{
		Statuses:   opts.Statuses,
		Categories: opts.Categories,
		DateFrom:   opts.DateFrom,
		DateTo:     opts.DateTo,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}
