package routes

import (
	"github.com/gin-gonic/gin"

	"tablier/internal/interfaces/http/handlers"
	"tablier/internal/interfaces/http/middleware"
	"tablier/internal/shared/authorization"
)

// SubscriptionRouteConfig contains dependencies for subscription routes.
type SubscriptionRouteConfig struct {
	SubscriptionHandler *handlers.SubscriptionHandler
	AuthMiddleware      *middleware.AuthMiddleware
}

// SetupSubscriptionRoutes configures the self-service and administrative
// subscription routes.
func SetupSubscriptionRoutes(engine *gin.Engine, cfg *SubscriptionRouteConfig) {
	subscriptions := engine.Group("/subscriptions")
	subscriptions.Use(cfg.AuthMiddleware.RequireAuth())
	{
		subscriptions.GET("/me", cfg.SubscriptionHandler.GetCurrent)

		admin := subscriptions.Group("")
		admin.Use(authorization.RequireAdmin())
		{
			admin.GET("", cfg.SubscriptionHandler.List)
			admin.POST("", cfg.SubscriptionHandler.Create)
			admin.POST("/refresh-statuses", cfg.SubscriptionHandler.RefreshStatuses)
			admin.PUT("/:id", cfg.SubscriptionHandler.Update)
			admin.PUT("/:id/block", cfg.SubscriptionHandler.Block)
			admin.PUT("/:id/unblock", cfg.SubscriptionHandler.Unblock)
		}
	}
}
