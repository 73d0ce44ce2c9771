package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"roadguard-service/internal/metrics"
	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

type captureNotifier struct {
	mu   sync.Mutex
	sent []string
}

func (n *captureNotifier) Dispatch(recipient, subject, body string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, subject)
}

func (n *captureNotifier) subjects() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.sent...)
}

type ViolationServiceSuite struct {
	suite.Suite

	violations *repository.InMemoryViolations
	challans   *repository.InMemoryChallans
	notifier   *captureNotifier
	svc        *ViolationService
	query      *ReportQueryService
}

func (s *ViolationServiceSuite) SetupTest() {
	s.violations, s.challans, _ = repository.NewInMemory()
	s.notifier = &captureNotifier{}

	m := metrics.New(prometheus.NewRegistry())
	s.svc = NewViolationService(s.violations, NewFineSchedule(), NewChallanIssuer(), s.notifier, m, zerolog.Nop())
	s.query = NewReportQueryService(s.violations, s.challans)
}

func TestViolationServiceSuite(t *testing.T) {
	suite.Run(t, new(ViolationServiceSuite))
}

func validSubmitInput() SubmitViolationInput {
	return SubmitViolationInput{
		Category:        model.CategoryOverSpeeding,
		VehicleNumber:   "ka01ab1234",
		Date:            time.Now().Add(-time.Hour),
		LocationAddress: "MG Road, Bengaluru",
		Details:         "Sedan well above the limit near the school zone",
		Evidence: []model.FileRef{
			{URL: "https://files.example/evidence1.jpg", OriginalName: "evidence1.jpg", Size: 1024, MimeType: "image/jpeg"},
		},
		Reporter: ReporterInput{
			Name:          "Asha Rao",
			Phone:         "9876543210",
			Email:         "asha@example.com",
			IDProofType:   model.IDProofAadhaar,
			IDProofNumber: "1234-5678-9012",
			IDProofFile:   model.FileRef{URL: "https://files.example/aadhaar.pdf"},
		},
	}
}

func reviewer() model.Principal {
	return model.Principal{UserID: uuid.New(), Name: "Officer Kumar", Role: model.UserRolePolice}
}

func (s *ViolationServiceSuite) TestSubmitCreatesPendingReport() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	s.Equal(model.ReportStatusPending, violation.Status)
	s.Regexp(`^VR\d+$`, violation.Code)
	s.Equal("KA01AB1234", violation.VehicleNumber)
	s.Nil(violation.FineAmount)
	s.Nil(violation.ChallanCode)
	s.Nil(violation.ReviewedBy)
	s.Nil(violation.ReviewedAt)
	s.Nil(violation.RejectionReason)
	s.Equal(model.PaymentStatusUnpaid, violation.PaymentStatus)
	s.Len(violation.Evidence, 1)

	s.Contains(s.notifier.subjects(), "Violation report received")
}

func (s *ViolationServiceSuite) TestSubmitValidation() {
	input := validSubmitInput()
	input.Category = "dancing-on-road"
	input.VehicleNumber = "NOT-A-PLATE"
	input.Reporter.Phone = "12345"
	input.Reporter.Email = "not-an-email"

	_, err := s.svc.Submit(context.Background(), input)
	s.Require().Error(err)

	var vErr *ValidationError
	s.Require().ErrorAs(err, &vErr)
	s.Contains(vErr.Fields, "category")
	s.Contains(vErr.Fields, "vehicle_number")
	s.Contains(vErr.Fields, "reporter.phone")
	s.Contains(vErr.Fields, "reporter.email")
}

func (s *ViolationServiceSuite) TestSubmitWithoutEmailSkipsNotification() {
	input := validSubmitInput()
	input.Reporter.Email = ""

	_, err := s.svc.Submit(context.Background(), input)
	s.Require().NoError(err)
	s.Empty(s.notifier.subjects())
}

func (s *ViolationServiceSuite) TestApproveIssuesChallan() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	approved, challan, err := s.svc.Approve(context.Background(), reviewer(), violation.ID)
	s.Require().NoError(err)

	s.Equal(model.ReportStatusApproved, approved.Status)
	s.Require().NotNil(approved.FineAmount)
	s.Equal(int64(2000), *approved.FineAmount)
	s.Require().NotNil(approved.ChallanCode)
	s.Equal(challan.Code, *approved.ChallanCode)

	s.Regexp(`^CH\d+$`, challan.Code)
	s.Equal(violation.ID, challan.ViolationID)
	s.Equal("KA01AB1234", challan.VehicleNumber)
	s.Equal(model.CategoryOverSpeeding, challan.Category)
	s.Equal(int64(2000), challan.FineAmount)
	s.Equal(model.PaymentStatusUnpaid, challan.PaymentStatus)

	stored, err := s.challans.List(context.Background(), 10)
	s.Require().NoError(err)
	s.Require().Len(stored, 1)
	s.Equal(challan.Code, stored[0].Code)

	s.Contains(s.notifier.subjects(), "Violation report approved")
}

func (s *ViolationServiceSuite) TestApproveRequiresReviewerRole() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	citizen := model.Principal{UserID: uuid.New(), Role: model.UserRoleReporter}
	_, _, err = s.svc.Approve(context.Background(), citizen, violation.ID)
	s.ErrorIs(err, ErrPermissionDenied)
}

func (s *ViolationServiceSuite) TestApprovedIsTerminal() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	_, _, err = s.svc.Approve(context.Background(), reviewer(), violation.ID)
	s.Require().NoError(err)

	_, _, err = s.svc.Approve(context.Background(), reviewer(), violation.ID)
	s.ErrorIs(err, ErrInvalidTransition)

	_, err = s.svc.Reject(context.Background(), reviewer(), violation.ID, "late objection")
	s.ErrorIs(err, ErrInvalidTransition)

	stored, err := s.challans.List(context.Background(), 10)
	s.Require().NoError(err)
	s.Len(stored, 1)
}

func (s *ViolationServiceSuite) TestRejectDefaultsReason() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	rejected, err := s.svc.Reject(context.Background(), reviewer(), violation.ID, "   ")
	s.Require().NoError(err)

	s.Equal(model.ReportStatusRejected, rejected.Status)
	s.Require().NotNil(rejected.RejectionReason)
	s.Equal("Insufficient evidence", *rejected.RejectionReason)
	s.Nil(rejected.FineAmount)
	s.Nil(rejected.ChallanCode)

	stored, err := s.challans.List(context.Background(), 10)
	s.Require().NoError(err)
	s.Empty(stored)
}

func (s *ViolationServiceSuite) TestConcurrentReviewExactlyOneWins() {
	violation, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%2 == 0 {
				_, _, err := s.svc.Approve(context.Background(), reviewer(), violation.ID)
				results <- err
			} else {
				_, err := s.svc.Reject(context.Background(), reviewer(), violation.ID, "")
				results <- err
			}
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			s.ErrorIs(err, ErrInvalidTransition)
		}
	}
	s.Equal(1, succeeded)

	final, err := s.svc.Get(context.Background(), violation.ID)
	s.Require().NoError(err)
	s.Contains([]model.ReportStatus{model.ReportStatusApproved, model.ReportStatusRejected}, final.Status)

	logs := s.violations.Logs()
	s.Len(logs, 1)
}

func (s *ViolationServiceSuite) TestListFiltersByStatus() {
	first, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	second := validSubmitInput()
	second.Category = model.CategoryNoHelmet
	_, err = s.svc.Submit(context.Background(), second)
	s.Require().NoError(err)

	_, _, err = s.svc.Approve(context.Background(), reviewer(), first.ID)
	s.Require().NoError(err)

	pending, total, err := s.svc.List(context.Background(), ListViolationsOptions{
		Statuses: []model.ReportStatus{model.ReportStatusPending},
	})
	s.Require().NoError(err)
	s.Equal(int64(1), total)
	s.Require().Len(pending, 1)
	s.Equal(model.CategoryNoHelmet, pending[0].Category)
}

func (s *ViolationServiceSuite) TestDashboardStats() {
	first, err := s.svc.Submit(context.Background(), validSubmitInput())
	s.Require().NoError(err)

	second := validSubmitInput()
	second.Category = model.CategoryNoHelmet
	secondReport, err := s.svc.Submit(context.Background(), second)
	s.Require().NoError(err)

	third := validSubmitInput()
	third.Category = model.CategorySignalJumping
	_, err = s.svc.Submit(context.Background(), third)
	s.Require().NoError(err)

	_, _, err = s.svc.Approve(context.Background(), reviewer(), first.ID)
	s.Require().NoError(err)
	_, err = s.svc.Reject(context.Background(), reviewer(), secondReport.ID, "blurry photo")
	s.Require().NoError(err)

	stats, err := s.query.DashboardStats(context.Background())
	s.Require().NoError(err)

	s.Equal(int64(3), stats.TotalReports)
	s.Equal(int64(1), stats.PendingReports)
	s.Equal(int64(1), stats.ApprovedReports)
	s.Equal(int64(1), stats.RejectedReports)
	s.Equal(int64(2000), stats.TotalFines)
	s.Equal(int64(0), stats.CollectedFines)
}
