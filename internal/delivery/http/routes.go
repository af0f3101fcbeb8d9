package http

import (
	"github.com/gin-gonic/gin"

	"github.com/pantrylens/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP, cfg.RateLimit.Burst))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// One-shot extraction endpoints
		extract := v1.Group("/extract")
		{
			extract.POST("/date", handler.ExtractDate)
			extract.POST("/dates", handler.FindAllDates)
			extract.POST("/nutrition", handler.ParseNutrition)
			extract.POST("/shopping", handler.ParseShopping)
		}

		// Live scanning session endpoints
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handler.OpenSession)
			sessions.GET("/:id", handler.GetSession)
			sessions.POST("/:id/observe", handler.ObserveSession)
			sessions.POST("/:id/select", handler.SelectSession)
			sessions.POST("/:id/reset", handler.ResetSession)
			sessions.DELETE("/:id", handler.CloseSession)
		}
	}

	return router
}
