package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rs/zerolog"

	"roadguard-service/internal/model"
	"roadguard-service/internal/service"
)

type Handler struct {
	violationService *service.ViolationService
	hazardService    *service.HazardService
	queryService     *service.ReportQueryService
	log              zerolog.Logger
}

func NewHandler(
	violationService *service.ViolationService,
	hazardService *service.HazardService,
	queryService *service.ReportQueryService,
	log zerolog.Logger,
) *Handler {
	return &Handler{
		violationService: violationService,
		hazardService:    hazardService,
		queryService:     queryService,
		log:              log,
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	var vErr *service.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": vErr.Fields})
		return
	}

	switch {
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, errorResponse(err.Error()))
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, errorResponse(err.Error()))
	case errors.Is(err, service.ErrInvalidTransition):
		c.JSON(http.StatusConflict, errorResponse(err.Error()))
	default:
		h.log.Error().Err(err).Msg("handler error")
		c.JSON(http.StatusInternalServerError, errorResponse("internal error"))
	}
}

type fileRefPayload struct {
	URL          string `json:"url" binding:"required"`
	OriginalName string `json:"original_name"`
	Size         int64  `json:"size"`
	MimeType     string `json:"mime_type"`
}

func (p fileRefPayload) toModel() model.FileRef {
	return model.FileRef{
		URL:          p.URL,
		OriginalName: p.OriginalName,
		Size:         p.Size,
		MimeType:     p.MimeType,
	}
}

// defaultPageSize applies when the page alias is used without a limit.
const defaultPageSize = 10

func parsePagination(c *gin.Context) (limit, offset int, err error) {
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return 0, 0, fmt.Errorf("invalid limit %q", raw)
		}
	}
	if raw := strings.TrimSpace(c.Query("offset")); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, fmt.Errorf("invalid offset %q", raw)
		}
	}
	// page is a convenience alias; offset wins when both are present.
	if offset == 0 {
		if raw := strings.TrimSpace(c.Query("page")); raw != "" {
			page, pageErr := strconv.Atoi(raw)
			if pageErr != nil || page < 1 {
				return 0, 0, fmt.Errorf("invalid page %q", raw)
			}
			if limit <= 0 {
				limit = defaultPageSize
			}
			offset = (page - 1) * limit
		}
	}
	return limit, offset, nil
}

func parseDateRange(c *gin.Context) (from, to *time.Time, err error) {
	if raw := strings.TrimSpace(c.Query("date_from")); raw != "" {
		ts, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		from = &ts
	}
	if raw := strings.TrimSpace(c.Query("date_to")); raw != "" {
		ts, parseErr := time.Parse(time.RFC3339, raw)
		if parseErr != nil {
			return nil, nil, parseErr
		}
		to = &ts
	}
	return from, to, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

type responseEnvelope struct {
	Data interface{} `json:"data"`
}

func successResponse(data interface{}) responseEnvelope {
	return responseEnvelope{Data: data}
}

func listResponse(items interface{}, count int, total int64) responseEnvelope {
	return responseEnvelope{Data: gin.H{
		"items": items,
		"count": count,
		"total": total,
	}}
}

func errorResponse(msg string) gin.H {
	return gin.H{"error": msg}
}
