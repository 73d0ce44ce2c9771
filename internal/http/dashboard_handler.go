package http

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"roadguard-service/internal/model"
	"roadguard-service/internal/repository"
)

func (h *Handler) dashboardStats(c *gin.Context) {
	stats, err := h.queryService.DashboardStats(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, successResponse(stats))
}

func (h *Handler) dashboardPendingViolations(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	violations, err := h.queryService.PendingViolations(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(violations, len(violations), int64(len(violations))))
}

func (h *Handler) dashboardChallans(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			limit = v
		}
	}

	challans, err := h.queryService.Challans(c.Request.Context(), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(challans, len(challans), int64(len(challans))))
}

// exportChallans streams the issued challans as CSV.
func (h *Handler) exportChallans(c *gin.Context) {
	challans, err := h.queryService.Challans(c.Request.Context(), 0)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("challans-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	header := []string{
		"code", "vehicle_number", "category", "location",
		"date", "fine_amount", "payment_status", "issued_at",
	}
	if err := w.Write(header); err != nil {
		h.log.Error().Err(err).Msg("csv export write failed")
		return
	}
	for _, ch := range challans {
		row := []string{
			ch.Code,
			ch.VehicleNumber,
			string(ch.Category),
			ch.LocationAddress,
			ch.Date.Format(time.RFC3339),
			strconv.FormatInt(ch.FineAmount, 10),
			string(ch.PaymentStatus),
			ch.IssuedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			h.log.Error().Err(err).Msg("csv export write failed")
			return
		}
	}
	w.Flush()
}

// exportViolations streams the filtered violation set as CSV for offline
// reconciliation.
func (h *Handler) exportViolations(c *gin.Context) {
	var filter repository.ViolationFilter

	if statusParam := c.Query("status"); statusParam != "" {
		for _, val := range splitCSV(statusParam) {
			filter.Statuses = append(filter.Statuses, model.ReportStatus(strings.ToLower(val)))
		}
	}
	if categoryParam := c.Query("category"); categoryParam != "" {
		for _, val := range splitCSV(categoryParam) {
			filter.Categories = append(filter.Categories, model.ViolationCategory(strings.ToLower(val)))
		}
	}
	from, to, err := parseDateRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse(err.Error()))
		return
	}
	filter.DateFrom = from
	filter.DateTo = to

	violations, err := h.queryService.ViolationsForExport(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	filename := fmt.Sprintf("violations-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	w := csv.NewWriter(c.Writer)
	header := []string{
		"code", "category", "vehicle_number", "date", "location",
		"status", "fine_amount", "challan_code", "payment_status",
		"reporter_name", "reporter_phone", "created_at",
	}
	if err := w.Write(header); err != nil {
		h.log.Error().Err(err).Msg("csv export write failed")
		return
	}

	for _, v := range violations {
		fine := ""
		if v.FineAmount != nil {
			fine = strconv.FormatInt(*v.FineAmount, 10)
		}
		challanCode := ""
		if v.ChallanCode != nil {
			challanCode = *v.ChallanCode
		}
		row := []string{
			v.Code,
			string(v.Category),
			v.VehicleNumber,
			v.Date.Format(time.RFC3339),
			v.LocationAddress,
			string(v.Status),
			fine,
			challanCode,
			string(v.PaymentStatus),
			v.Reporter.Name,
			v.Reporter.Phone,
			v.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			h.log.Error().Err(err).Msg("csv export write failed")
			return
		}
	}
	w.Flush()
}
