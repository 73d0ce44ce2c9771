package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roadguard-service/internal/http/middleware"
	"roadguard-service/internal/model"
	"roadguard-service/internal/service"
)

func (h *Handler) createViolation(c *gin.Context) {
	var req struct {
		Category        string           `json:"category" binding:"required"`
		VehicleNumber   string           `json:"vehicle_number" binding:"required"`
		Date            time.Time        `json:"date" binding:"required"`
		LocationAddress string           `json:"location_address" binding:"required"`
		Lat             *float64         `json:"lat"`
		Lng             *float64         `json:"lng"`
		Details         string           `json:"details"`
		Evidence        []fileRefPayload `json:"evidence"`
		Reporter        struct {
			Name          string         `json:"name" binding:"required"`
			Phone         string         `json:"phone" binding:"required"`
			Email         string         `json:"email"`
			IDProofType   string         `json:"id_proof_type" binding:"required"`
			IDProofNumber string         `json:"id_proof_number" binding:"required"`
			IDProofFile   fileRefPayload `json:"id_proof_file"`
			UPIID         string         `json:"upi_id"`
		} `json:"reporter" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	evidence := make([]model.FileRef, 0, len(req.Evidence))
	for _, p := range req.Evidence {
		evidence = append(evidence, p.toModel())
	}

	input := service.SubmitViolationInput{
		Category:        model.ViolationCategory(strings.ToLower(strings.TrimSpace(req.Category))),
		VehicleNumber:   strings.TrimSpace(req.VehicleNumber),
		Date:            req.Date,
		LocationAddress: req.LocationAddress,
		Lat:             req.Lat,
		Lng:             req.Lng,
		Details:         req.Details,
		Evidence:        evidence,
		Reporter: service.ReporterInput{
			Name:          req.Reporter.Name,
			Phone:         strings.TrimSpace(req.Reporter.Phone),
			Email:         strings.TrimSpace(req.Reporter.Email),
			IDProofType:   model.IDProofType(strings.ToLower(strings.TrimSpace(req.Reporter.IDProofType))),
			IDProofNumber: strings.TrimSpace(req.Reporter.IDProofNumber),
			IDProofFile:   req.Reporter.IDProofFile.toModel(),
			UPIID:         strings.TrimSpace(req.Reporter.UPIID),
		},
	}

	violation, err := h.violationService.Submit(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(violation))
}

func (h *Handler) listViolations(c *gin.Context) {
	opts, err := parseViolationQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	violations, total, err := h.violationService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(violations, len(violations), total))
}

func (h *Handler) getViolation(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	violation, err := h.violationService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(violation))
}

func (h *Handler) updateViolationStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid violation id"))
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	switch model.ReportStatus(strings.ToLower(strings.TrimSpace(req.Status))) {
	case model.ReportStatusApproved:
		violation, challan, err := h.violationService.Approve(c.Request.Context(), principal, id)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse(gin.H{
			"violation": violation,
			"challan":   challan,
		}))
	case model.ReportStatusRejected:
		violation, err := h.violationService.Reject(c.Request.Context(), principal, id, req.Reason)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse(violation))
	default:
		c.JSON(http.StatusBadRequest, errorResponse("status must be approved or rejected"))
	}
}

func parseViolationQuery(c *gin.Context) (service.ListViolationsOptions, error) {
	var opts service.ListViolationsOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.ReportStatus(strings.ToLower(val)))
		}
	}
	if categoryParam := c.Query("category"); categoryParam != "" {
		for _, val := range splitCSV(categoryParam) {
			opts.Categories = append(opts.Categories, model.ViolationCategory(strings.ToLower(val)))
		}
	}

	from, to, err := parseDateRange(c)
	if err != nil {
		return opts, err
	}
	opts.DateFrom = from
	opts.DateTo = to

	opts.Limit, opts.Offset, err = parsePagination(c)
	if err != nil {
		return opts, err
	}

	return opts, nil
}
