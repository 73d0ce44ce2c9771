package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"roadguard-service/internal/http/middleware"
	"roadguard-service/internal/model"
	"roadguard-service/internal/service"
)

func (h *Handler) createHazard(c *gin.Context) {
	var req struct {
		Type            string          `json:"type" binding:"required"`
		Severity        string          `json:"severity" binding:"required"`
		LocationAddress string          `json:"location_address" binding:"required"`
		Lat             *float64        `json:"lat"`
		Lng             *float64        `json:"lng"`
		Description     string          `json:"description" binding:"required"`
		Photo           *fileRefPayload `json:"photo"`
		ReporterName    string          `json:"reporter_name"`
		ReporterPhone   string          `json:"reporter_phone"`
		ReporterEmail   string          `json:"reporter_email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	input := service.SubmitHazardInput{
		Type:            model.HazardType(strings.ToLower(strings.TrimSpace(req.Type))),
		Severity:        model.HazardSeverity(strings.ToLower(strings.TrimSpace(req.Severity))),
		LocationAddress: req.LocationAddress,
		Lat:             req.Lat,
		Lng:             req.Lng,
		Description:     req.Description,
		ReporterName:    req.ReporterName,
		ReporterPhone:   strings.TrimSpace(req.ReporterPhone),
		ReporterEmail:   strings.TrimSpace(req.ReporterEmail),
	}
	if req.Photo != nil {
		photo := req.Photo.toModel()
		input.Photo = &photo
	}

	hazard, err := h.hazardService.Submit(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, successResponse(hazard))
}

func (h *Handler) listHazards(c *gin.Context) {
	var opts service.ListHazardsOptions

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			opts.Statuses = append(opts.Statuses, model.HazardStatus(strings.ToLower(val)))
		}
	}
	if typeParam := c.Query("type"); typeParam != "" {
		for _, val := range splitCSV(typeParam) {
			opts.Types = append(opts.Types, model.HazardType(strings.ToLower(val)))
		}
	}
	if severityParam := c.Query("severity"); severityParam != "" {
		for _, val := range splitCSV(severityParam) {
			opts.Severities = append(opts.Severities, model.HazardSeverity(strings.ToLower(val)))
		}
	}
	limit, offset, err := parsePagination(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	opts.Limit = limit
	opts.Offset = offset

	hazards, total, err := h.hazardService.List(c.Request.Context(), opts)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(hazards, len(hazards), total))
}

func (h *Handler) getHazard(c *gin.Context) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid hazard id"))
		return
	}

	hazard, err := h.hazardService.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(hazard))
}

func (h *Handler) hazardStats(c *gin.Context) {
	stats, err := h.hazardService.Stats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) updateHazardStatus(c *gin.Context) {
	principal, ok := middleware.MustPrincipal(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse("principal missing"))
		return
	}

	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid hazard id"))
		return
	}

	var req struct {
		Status            string `json:"status" binding:"required"`
		ResolutionDetails string `json:"resolution_details"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}

	switch model.HazardStatus(strings.ToLower(strings.TrimSpace(req.Status))) {
	case model.HazardStatusVerified:
		hazard, err := h.hazardService.Verify(c.Request.Context(), principal, id)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse(hazard))
	case model.HazardStatusResolved:
		hazard, err := h.hazardService.Resolve(c.Request.Context(), principal, id, req.ResolutionDetails)
		if err != nil {
			h.handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, successResponse(hazard))
	default:
		c.JSON(http.StatusBadRequest, errorResponse("status must be verified or resolved"))
	}
}
