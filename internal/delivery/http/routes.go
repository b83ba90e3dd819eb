package http

import (
	"github.com/celebco/backend/config"
	"github.com/celebco/backend/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, limiters domain.LimiterStore) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Client identity comes from the socket unless a trusted proxy forwards it
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		log.Warn().Err(err).Strs("trusted_proxies", cfg.Server.TrustedProxies).Msg("ignoring invalid trusted proxies")
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware
	router.Use(RequestIDMiddleware())
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())

	router.GET("/", handler.Home)
	router.GET("/health", handler.HealthCheck)

	search := router.Group("/search",
		CORSMiddleware(cfg.Server.AllowedOrigins),
		RateLimitMiddleware(limiters, cfg.RateLimit.Requests),
	)
	{
		search.GET("", handler.Search)
		search.OPTIONS("", handler.Preflight)
	}

	return router
}
