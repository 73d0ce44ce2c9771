package service

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"roadguard-service/internal/metrics"
	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

type HazardServiceSuite struct {
	suite.Suite

	hazards  *repository.InMemoryHazards
	notifier *captureNotifier
	svc      *HazardService
}

func (s *HazardServiceSuite) SetupTest() {
	_, _, s.hazards = repository.NewInMemory()
	s.notifier = &captureNotifier{}

	m := metrics.New(prometheus.NewRegistry())
	s.svc = NewHazardService(s.hazards, s.notifier, m, zerolog.Nop())
}

func TestHazardServiceSuite(t *testing.T) {
	suite.Run(t, new(HazardServiceSuite))
}

func validHazardInput() SubmitHazardInput {
	return SubmitHazardInput{
		Type:            model.HazardTypePothole,
		Severity:        model.HazardSeverityHigh,
		LocationAddress: "Outer Ring Road, near Marathahalli bridge",
		Description:     "Deep pothole across the left lane",
		ReporterName:    "Ravi Shankar",
		ReporterPhone:   "9876501234",
		ReporterEmail:   "ravi@example.com",
	}
}

func (s *HazardServiceSuite) TestSubmitCreatesReportedHazard() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	s.Equal(model.HazardStatusReported, hazard.Status)
	s.Regexp(`^HZ\d+$`, hazard.Code)
	s.Equal(0, hazard.VerifiedCount)
	s.Nil(hazard.VerifiedBy)
	s.Nil(hazard.ResolvedBy)
	s.Nil(hazard.ResolutionDetails)

	s.Contains(s.notifier.subjects(), "Hazard report received")
}

func (s *HazardServiceSuite) TestSubmitAnonymous() {
	input := validHazardInput()
	input.ReporterName = ""
	input.ReporterPhone = ""
	input.ReporterEmail = ""

	hazard, err := s.svc.Submit(context.Background(), input)
	s.Require().NoError(err)
	s.Equal(model.HazardStatusReported, hazard.Status)
	s.Empty(s.notifier.subjects())
}

func (s *HazardServiceSuite) TestSubmitValidation() {
	input := validHazardInput()
	input.Type = "falling-meteor"
	input.Severity = "apocalyptic"
	input.Description = ""
	input.ReporterPhone = "42"

	_, err := s.svc.Submit(context.Background(), input)
	s.Require().Error(err)

	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Contains(vErr.Fields, "type")
	s.Contains(vErr.Fields, "severity")
	s.Contains(vErr.Fields, "description")
	s.Contains(vErr.Fields, "reporter_phone")
}

func (s *HazardServiceSuite) TestVerifyThenResolve() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	officer := reviewer()
	verified, err := s.svc.Verify(context.Background(), officer, hazard.ID)
	s.Require().NoError(err)
	s.Equal(model.HazardStatusVerified, verified.Status)
	s.Equal(1, verified.VerifiedCount)
	s.Require().NotNil(verified.VerifiedBy)
	s.Equal(officer.UserID, *verified.VerifiedBy)

	resolved, err := s.svc.Resolve(context.Background(), officer, hazard.ID, "Patched by the road crew")
	s.Require().NoError(err)
	s.Equal(model.HazardStatusResolved, resolved.Status)
	s.Require().NotNil(resolved.ResolutionDetails)
	s.Equal("Patched by the road crew", *resolved.ResolutionDetails)

	s.Contains(s.notifier.subjects(), "Hazard report resolved")

	logs := s.hazards.Logs()
	s.Len(logs, 2)
}

func (s *HazardServiceSuite) TestResolveDefaultsDetails() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	officer := reviewer()
	_, err = s.svc.Verify(context.Background(), officer, hazard.ID)
	s.Require().NoError(err)

	resolved, err := s.svc.Resolve(context.Background(), officer, hazard.ID, "")
	s.Require().NoError(err)
	s.Require().NotNil(resolved.ResolutionDetails)
	s.Equal("Hazard has been resolved", *resolved.ResolutionDetails)
}

func (s *HazardServiceSuite) TestResolveRequiresVerified() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	_, err = s.svc.Resolve(context.Background(), reviewer(), hazard.ID, "done")
	s.ErrorIs(err, ErrInvalidTransition)
}

func (s *HazardServiceSuite) TestVerifyIsOneShot() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	officer := reviewer()
	_, err = s.svc.Verify(context.Background(), officer, hazard.ID)
	s.Require().NoError(err)

	_, err = s.svc.Verify(context.Background(), officer, hazard.ID)
	s.ErrorIs(err, ErrInvalidTransition)

	current, err := s.svc.Get(context.Background(), hazard.ID)
	s.Require().NoError(err)
	s.Equal(1, current.VerifiedCount)
}

func (s *HazardServiceSuite) TestVerifyRequiresReviewerRole() {
	hazard, err := s.svc.Submit(context.Background(), validHazardInput())
	s.Require().NoError(err)

	citizen := model.Principal{Role: model.UserRoleReporter}
	_, err = s.svc.Verify(context.Background(), citizen, hazard.ID)
	s.ErrorIs(err, ErrPermissionDenied)
}

func (s *HazardServiceSuite) TestStats() {
	first := validHazardInput()
	_, err := s.svc.Submit(context.Background(), first)
	s.Require().NoError(err)

	second := validHazardInput()
	second.Type = model.HazardTypeWaterlogging
	second.Severity = model.HazardSeverityCritical
	hazard, err := s.svc.Submit(context.Background(), second)
	s.Require().NoError(err)

	_, err = s.svc.Verify(context.Background(), reviewer(), hazard.ID)
	s.Require().NoError(err)

	stats, err := s.svc.Stats(context.Background())
	s.Require().NoError(err)

	s.Equal(int64(1), stats.ByType[model.HazardTypePothole])
	s.Equal(int64(1), stats.ByType[model.HazardTypeWaterlogging])
	s.Equal(int64(1), stats.BySeverity[model.HazardSeverityCritical])
	s.Equal(int64(1), stats.ByStatus[model.HazardStatusReported])
	s.Equal(int64(1), stats.ByStatus[model.HazardStatusVerified])
	s.Len(stats.Recent, 2)
}
