package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"roadguard-service/internal/metrics"
	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

const defaultResolutionDetails = "Hazard has been resolved"

type HazardService struct {
	hazards  HazardStore
	notifier Notifier
	metrics  *metrics.Metrics
	log      zerolog.Logger
}

func NewHazardService(hazards HazardStore, notifier Notifier, m *metrics.Metrics, log zerolog.Logger) *HazardService {
	return &HazardService{
		hazards:  hazards,
		notifier: notifier,
		metrics:  m,
		log:      log,
	}
}

type SubmitHazardInput struct {
	Type            model.HazardType
	Severity        model.HazardSeverity
	LocationAddress string
	Lat             *float64
	Lng             *float64
	Description     string
	Photo           *model.FileRef
	ReporterName    string
	ReporterPhone   string
	ReporterEmail   string
}

func (in SubmitHazardInput) validate() error {
	fields := fieldErrors{}

	if !in.Type.Valid() {
		fields.add("type", "unknown hazard type")
	}
	if !in.Severity.Valid() {
		fields.add("severity", "must be low, medium, high or critical")
	}
	if strings.TrimSpace(in.LocationAddress) == "" {
		fields.add("location_address", "location is required")
	}
	if strings.TrimSpace(in.Description) == "" {
		fields.add("description", "description is required")
	}
	if in.ReporterPhone != "" && !phonePattern.MatchString(in.ReporterPhone) {
		fields.add("reporter_phone", "must be a 10-digit phone number")
	}
	if in.ReporterEmail != "" && !emailPattern.MatchString(in.ReporterEmail) {
		fields.add("reporter_email", "must be a valid email address")
	}

	return fields.toError()
}

// Submit stores a hazard in reported state. Anonymous reports are fine; the
// contact block is optional.
func (s *HazardService) Submit(ctx context.Context, input SubmitHazardInput) (*model.HazardReport, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	now := time.Now()
	hazard := &model.HazardReport{
		ID:              uuid.New(),
		Code:            fmt.Sprintf("HZ%d", now.UnixMilli()),
		Type:            input.Type,
		Severity:        input.Severity,
		LocationAddress: input.LocationAddress,
		Lat:             input.Lat,
		Lng:             input.Lng,
		Description:     input.Description,
		Photo:           input.Photo,
		ReporterName:    strings.TrimSpace(input.ReporterName),
		ReporterPhone:   input.ReporterPhone,
		ReporterEmail:   input.ReporterEmail,
		Status:          model.HazardStatusReported,
	}

	if err := s.hazards.Create(ctx, hazard); err != nil {
		return nil, err
	}

	s.metrics.HazardsSubmitted.Inc()

	if hazard.ReporterEmail != "" {
		s.notifier.Dispatch(
			hazard.ReporterEmail,
			"Hazard report received",
			fmt.Sprintf("Your hazard report %s has been received. Thank you for helping keep the roads safe.", hazard.Code),
		)
	}

	return hazard, nil
}

// Verify moves a reported hazard to verified and bumps the verification
// count by exactly one. Hazards that already left reported yield
// ErrInvalidTransition.
func (s *HazardService) Verify(ctx context.Context, principal model.Principal, id uuid.UUID) (*model.HazardReport, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	hazard, err := s.hazards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hazard.Status != model.HazardStatusReported {
		return nil, ErrInvalidTransition
	}

	now := time.Now()
	if err := s.hazards.Verify(ctx, id, principal.UserID, now); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	verifier := principal.UserID
	hazard.Status = model.HazardStatusVerified
	hazard.VerifiedBy = &verifier
	hazard.VerifiedAt = &now
	hazard.VerifiedCount++

	s.metrics.HazardsVerified.Inc()

	return hazard, nil
}

// Resolve requires the hazard to be verified first; resolving straight from
// reported is not a legal transition.
func (s *HazardService) Resolve(ctx context.Context, principal model.Principal, id uuid.UUID, details string) (*model.HazardReport, error) {
	if !principal.CanReview() {
		return nil, ErrPermissionDenied
	}

	hazard, err := s.hazards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if hazard.Status != model.HazardStatusVerified {
		return nil, ErrInvalidTransition
	}

	details = strings.TrimSpace(details)
	if details == "" {
		details = defaultResolutionDetails
	}

	now := time.Now()
	if err := s.hazards.Resolve(ctx, id, principal.UserID, now, details); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, ErrInvalidTransition
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	resolver := principal.UserID
	hazard.Status = model.HazardStatusResolved
	hazard.ResolvedBy = &resolver
	hazard.ResolvedAt = &now
	hazard.ResolutionDetails = &details

	s.metrics.HazardsResolved.Inc()

	if hazard.ReporterEmail != "" {
		s.notifier.Dispatch(
			hazard.ReporterEmail,
			"Hazard report resolved",
			fmt.Sprintf("Your hazard report %s has been resolved. %s", hazard.Code, details),
		)
	}

	return hazard, nil
}

func (s *HazardService) Get(ctx context.Context, id uuid.UUID) (*model.HazardReport, error) {
	hazard, err := s.hazards.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return hazard, nil
}

type ListHazardsOptions struct {
	Statuses   []model.HazardStatus
	Types      []model.HazardType
	Severities []model.HazardSeverity
	Limit      int
	Offset     int
}

func (s *HazardService) List(ctx context.Context, opts ListHazardsOptions) ([]model.HazardReport, int64, error) {
	return s.hazards.List(ctx, repository.HazardFilter{
		Statuses:   opts.Statuses,
		Types:      opts.Types,
		Severities: opts.Severities,
		Limit:      opts.Limit,
		Offset:     opts.Offset,
	})
}

func (s *HazardService) Stats(ctx context.Context) (*repository.HazardStats, error) {
	return s.hazards.Stats(ctx)
}
