package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/boxtrail/loyalty-backend/internal/http/handlers"
	httpMW "github.com/boxtrail/loyalty-backend/internal/http/middleware"
	"github.com/boxtrail/loyalty-backend/internal/platform/envutil"
	"github.com/boxtrail/loyalty-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware
	LoyaltyHandler *httpH.LoyaltyHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if envutil.Bool("OTEL_ENABLED", false) {
		r.Use(otelgin.Middleware("loyalty-backend"))
	}
	r.Use(httpMW.AttachRequestContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.CORS())

	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api/loyalty")

	// Service-to-service surface: the main application and external webhook
	// sources, never end users.
	service := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			service.Use(cfg.AuthMiddleware.RequireService())
		}
		if cfg.LoyaltyHandler != nil {
			service.POST("/points", cfg.LoyaltyHandler.AwardPoints)
			service.POST("/webhook", cfg.LoyaltyHandler.Webhook)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}
		if cfg.LoyaltyHandler != nil {
			protected.GET("/summary", cfg.LoyaltyHandler.Summary)
			protected.GET("/transactions", cfg.LoyaltyHandler.Transactions)
			protected.GET("/achievements", cfg.LoyaltyHandler.Achievements)
			protected.GET("/challenges", cfg.LoyaltyHandler.Challenges)
			protected.GET("/rewards", cfg.LoyaltyHandler.Rewards)
			protected.POST("/rewards/:id/redeem", cfg.LoyaltyHandler.Redeem)
			protected.GET("/redemptions", cfg.LoyaltyHandler.Redemptions)
			protected.GET("/leaderboard", cfg.LoyaltyHandler.Leaderboard)
		}
	}

	return r
}
