package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tablier/internal/interfaces/http/middleware"
	"tablier/internal/interfaces/http/routes"
)

// SetupRoutes installs middleware and registers every route group.
func (c *Container) SetupRoutes() {
	c.engine.Use(middleware.Recovery())
	c.engine.Use(middleware.Logger(c.log))
	if c.cfg.Server.FrontendURL != "" {
		c.engine.Use(middleware.CORS([]string{c.cfg.Server.FrontendURL}))
	}

	c.engine.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.SetupBillingRoutes(c.engine, &routes.BillingRouteConfig{
		BillingHandler: c.billingHandler,
		AuthMiddleware: c.authMiddleware,
		RateLimiter:    c.rateLimiter,
	})

	routes.SetupSubscriptionRoutes(c.engine, &routes.SubscriptionRouteConfig{
		SubscriptionHandler: c.subscriptionHandler,
		AuthMiddleware:      c.authMiddleware,
	})
}
