package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumvida/lumvida-backend/internal/config"
	"github.com/lumvida/lumvida-backend/internal/http/handlers"
	"github.com/lumvida/lumvida-backend/internal/http/middleware"
	"github.com/lumvida/lumvida-backend/internal/service"
)

func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	reportHandler *handlers.ReportHandler,
	statsHandler *handlers.StatsHandler,
	geocodeHandler *handlers.GeocodeHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)
	r.StaticFS("/media", http.Dir(cfg.MediaStoragePath))

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/login", authHandler.Login)
	}

	// Citizen submissions come from the mobile app without an account.
	submitGroup := api.Group("")
	submitGroup.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
	{
		submitGroup.POST("/reports", reportHandler.Create)
		submitGroup.POST("/reports/:id/photo", middleware.UUIDValidator("id"), reportHandler.UploadPhoto)
	}

	// The websocket upgrade authenticates via query token inside the
	// handler.
	api.GET("/ws", wsHandler.Handle)

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/reports", reportHandler.List)
		protected.GET("/reports/latest", reportHandler.Latest)
		protected.GET("/reports/:id", middleware.UUIDValidator("id"), reportHandler.Get)
		protected.GET("/reports/:id/pdf", middleware.UUIDValidator("id"), reportHandler.PDF)
		protected.PUT("/reports/:id/status", middleware.UUIDValidator("id"), reportHandler.SetStatus)

		protected.GET("/stats", statsHandler.Summary)
		protected.GET("/stats/colonias", statsHandler.Neighborhoods)

		geocodeLimited := protected.Group("")
		geocodeLimited.Use(middleware.RateLimitMiddleware(cfg.RateLimitLimit, cfg.RateLimitPeriod))
		geocodeLimited.GET("/geocode", geocodeHandler.Lookup)
	}

	return r
}
