package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/suite"

	"roadguard-service/internal/auth"
	"roadguard-service/internal/http/middleware"
	"roadguard-service/internal/metrics"
	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
	"roadguard-service/internal/service"
)

const testSecret = "test-secret"

type noopNotifier struct{}

func (noopNotifier) Dispatch(recipient, subject, body string) {}

type HandlerSuite struct {
	suite.Suite

	router     *gin.Engine
	violations *repository.InMemoryViolations
}

func (s *HandlerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	violations, challans, hazards := repository.NewInMemory()
	s.violations = violations

	m := metrics.New(prometheus.NewRegistry())
	log := zerolog.Nop()

	violationService := service.NewViolationService(violations, service.NewFineSchedule(), service.NewChallanIssuer(), noopNotifier{}, m, log)
	hazardService := service.NewHazardService(hazards, noopNotifier{}, m, log)
	queryService := service.NewReportQueryService(violations, challans)

	handler := NewHandler(violationService, hazardService, queryService, log)
	parser := auth.NewParser(testSecret)
	s.router = NewRouter(handler, middleware.Auth(parser), "test")
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) signToken(role model.UserRole) string {
	claims := auth.Claims{
		UserID: uuid.New(),
		Name:   "Test User",
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	s.Require().NoError(err)
	return signed
}

func (s *HandlerSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload *bytes.Buffer
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		payload = bytes.NewBuffer(raw)
	} else {
		payload = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func violationPayload() map[string]interface{} {
	return map[string]interface{}{
		"category":         "over-speeding",
		"vehicle_number":   "KA01AB1234",
		"date":             time.Now().Add(-time.Hour).Format(time.RFC3339),
		"location_address": "MG Road, Bengaluru",
		"details":          "Well above the limit",
		"reporter": map[string]interface{}{
			"name":            "Asha Rao",
			"phone":           "9876543210",
			"email":           "asha@example.com",
			"id_proof_type":   "aadhaar",
			"id_proof_number": "1234-5678-9012",
		},
	}
}

func (s *HandlerSuite) submitViolation() uuid.UUID {
	rec := s.do(http.MethodPost, "/api/v1/violations", "", violationPayload())
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data model.ViolationReport `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.ID
}

func (s *HandlerSuite) TestSubmitViolationPublic() {
	id := s.submitViolation()
	s.NotEqual(uuid.Nil, id)
}

func (s *HandlerSuite) TestSubmitViolationValidationErrors() {
	payload := violationPayload()
	payload["vehicle_number"] = "BAD"

	rec := s.do(http.MethodPost, "/api/v1/violations", "", payload)
	s.Equal(http.StatusBadRequest, rec.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Contains(resp.Fields, "vehicle_number")
}

func (s *HandlerSuite) TestListViolationsRequiresToken() {
	rec := s.do(http.MethodGet, "/api/v1/violations", "", nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestUpdateStatusRequiresReviewerRole() {
	id := s.submitViolation()

	token := s.signToken(model.UserRoleReporter)
	rec := s.do(http.MethodPut, fmt.Sprintf("/api/v1/violations/%s/status", id), token, map[string]string{"status": "approved"})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestApproveFlow() {
	id := s.submitViolation()
	token := s.signToken(model.UserRolePolice)

	rec := s.do(http.MethodPut, fmt.Sprintf("/api/v1/violations/%s/status", id), token, map[string]string{"status": "approved"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Violation model.ViolationReport `json:"violation"`
			Challan   model.Challan         `json:"challan"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(model.ReportStatusApproved, resp.Data.Violation.Status)
	s.Equal(int64(2000), resp.Data.Challan.FineAmount)

	// second approval hits a terminal report
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/v1/violations/%s/status", id), token, map[string]string{"status": "approved"})
	s.Equal(http.StatusConflict, rec.Code)
}

func (s *HandlerSuite) TestGetUnknownViolation() {
	token := s.signToken(model.UserRoleAdmin)
	rec := s.do(http.MethodGet, "/api/v1/violations/"+uuid.NewString(), token, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestHazardLifecycleOverHTTP() {
	rec := s.do(http.MethodPost, "/api/v1/hazards", "", map[string]interface{}{
		"type":             "pothole",
		"severity":         "high",
		"location_address": "Outer Ring Road",
		"description":      "Deep pothole across the left lane",
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		Data model.HazardReport `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &created))

	token := s.signToken(model.UserRolePolice)
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/v1/hazards/%s/status", created.Data.ID), token, map[string]string{"status": "verified"})
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	// resolving twice is rejected once the hazard is terminal
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/v1/hazards/%s/status", created.Data.ID), token, map[string]string{"status": "resolved"})
	s.Require().Equal(http.StatusOK, rec.Code)
	rec = s.do(http.MethodPut, fmt.Sprintf("/api/v1/hazards/%s/status", created.Data.ID), token, map[string]string{"status": "resolved"})
	s.Equal(http.StatusConflict, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/hazards/stats", "", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestDashboardStats() {
	id := s.submitViolation()
	token := s.signToken(model.UserRoleAdmin)

	rec := s.do(http.MethodPut, fmt.Sprintf("/api/v1/violations/%s/status", id), token, map[string]string{"status": "approved"})
	s.Require().Equal(http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/dashboard/stats", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data service.DashboardStats `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(1), resp.Data.TotalReports)
	s.Equal(int64(1), resp.Data.ApprovedReports)
	s.Equal(int64(2000), resp.Data.TotalFines)
}

func (s *HandlerSuite) TestPaginationRejectsBadValues() {
	rec := s.do(http.MethodGet, "/api/v1/hazards?offset=-1", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/hazards?limit=abc", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/v1/hazards?page=0", "", nil)
	s.Equal(http.StatusBadRequest, rec.Code)

	token := s.signToken(model.UserRoleAdmin)
	rec = s.do(http.MethodGet, "/api/v1/violations?offset=-1", token, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestPageAliasPaginates() {
	for i := 0; i < 3; i++ {
		rec := s.do(http.MethodPost, "/api/v1/hazards", "", map[string]interface{}{
			"type":             "pothole",
			"severity":         "low",
			"location_address": fmt.Sprintf("Street %d", i),
			"description":      "Pothole",
		})
		s.Require().Equal(http.StatusCreated, rec.Code)
	}

	rec := s.do(http.MethodGet, "/api/v1/hazards?page=2&limit=2", "", nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			Items []model.HazardReport `json:"items"`
			Count int                  `json:"count"`
			Total int64                `json:"total"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal(int64(3), resp.Data.Total)
	s.Equal(1, resp.Data.Count)
}

func (s *HandlerSuite) TestExportViolationsCSV() {
	s.submitViolation()
	token := s.signToken(model.UserRoleAdmin)

	rec := s.do(http.MethodGet, "/api/v1/violations/export", token, nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Equal("text/csv", rec.Header().Get("Content-Type"))
	s.Contains(rec.Body.String(), "KA01AB1234")
}
