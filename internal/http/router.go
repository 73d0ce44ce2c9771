package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"roadguard-service/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"*"},
		ExposeHeaders:   []string{"Content-Type", "Content-Disposition"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Submission and hazard browsing are open to citizens; no token needed.
	public := router.Group("/api/v1")
	{
		public.POST("/violations", handler.createViolation)
		public.POST("/hazards", handler.createHazard)
		public.GET("/hazards", handler.listHazards)
		public.GET("/hazards/stats", handler.hazardStats)
		public.GET("/hazards/:id", handler.getHazard)
	}

	protected := router.Group("/api/v1")
	protected.Use(authMiddleware)
	{
		protected.GET("/violations", handler.listViolations)
		protected.GET("/violations/export", handler.exportViolations)
		protected.GET("/violations/:id", handler.getViolation)

		reviewer := protected.Group("")
		reviewer.Use(middleware.RequireReviewer())
		{
			reviewer.PUT("/violations/:id/status", handler.updateViolationStatus)
			reviewer.PUT("/hazards/:id/status", handler.updateHazardStatus)

			reviewer.GET("/dashboard/stats", handler.dashboardStats)
			reviewer.GET("/dashboard/pending-violations", handler.dashboardPendingViolations)
			reviewer.GET("/dashboard/challans", handler.dashboardChallans)
			reviewer.GET("/dashboard/export", handler.exportChallans)
		}
	}

	return router
}
