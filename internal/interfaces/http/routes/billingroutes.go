// Package routes provides HTTP route configurations.
package routes

import (
	"github.com/gin-gonic/gin"

	"tablier/internal/interfaces/http/handlers"
	"tablier/internal/interfaces/http/middleware"
)

// BillingRouteConfig contains dependencies for billing routes.
type BillingRouteConfig struct {
	BillingHandler *handlers.BillingHandler
	AuthMiddleware *middleware.AuthMiddleware
	RateLimiter    *middleware.RateLimiter
}

// SetupBillingRoutes configures checkout, confirmation, portal and
// webhook routes. The webhook is unauthenticated; its payload is
// verified by signature instead.
func SetupBillingRoutes(engine *gin.Engine, cfg *BillingRouteConfig) {
	billing := engine.Group("/billing")
	{
		authed := billing.Group("")
		authed.Use(cfg.AuthMiddleware.RequireAuth())
		if cfg.RateLimiter != nil {
			authed.Use(cfg.RateLimiter.Limit())
		}
		{
			authed.POST("/checkout", cfg.BillingHandler.StartCheckout)
			authed.GET("/confirm", cfg.BillingHandler.ConfirmCheckout)
			authed.POST("/portal", cfg.BillingHandler.CreatePortalSession)
		}

		billing.POST("/webhook", cfg.BillingHandler.HandleWebhook)
	}
}
