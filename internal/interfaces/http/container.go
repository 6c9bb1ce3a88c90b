package http

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	billingUsecases "tablier/internal/application/billing/usecases"
	subscriptionUsecases "tablier/internal/application/subscription/usecases"
	domainSubscription "tablier/internal/domain/subscription"
	"tablier/internal/infrastructure/auth"
	infraBilling "tablier/internal/infrastructure/billing"
	"tablier/internal/infrastructure/config"
	"tablier/internal/infrastructure/email"
	"tablier/internal/infrastructure/ratelimit"
	"tablier/internal/infrastructure/repository"
	"tablier/internal/infrastructure/scheduler"
	"tablier/internal/interfaces/http/handlers"
	"tablier/internal/interfaces/http/middleware"
	"tablier/internal/shared/logger"
)

// Container wires infrastructure, use cases, handlers and background
// services, and owns their graceful shutdown.
type Container struct {
	engine *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
	log    logger.Interface
	redis  *redis.Client

	subscriptionRepo domainSubscription.Repository

	billingHandler      *handlers.BillingHandler
	subscriptionHandler *handlers.SubscriptionHandler

	authMiddleware *middleware.AuthMiddleware
	rateLimiter    *middleware.RateLimiter

	subscriptionScheduler *scheduler.SubscriptionScheduler
	schedulerCancel       context.CancelFunc
}

// NewContainer builds the full dependency graph.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface) *Container {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
	}

	c.redis = initRedis(cfg, log)

	c.subscriptionRepo = repository.NewSubscriptionRepository(db, log)

	catalog := domainSubscription.NewCatalog(cfg.Billing.PriceIDs)
	gateway := infraBilling.NewStripeGateway(cfg.Billing.StripeSecretKey, cfg.Billing.StripeWebhookSecret, log)

	reconcileUC := billingUsecases.NewReconcileCheckoutUseCase(c.subscriptionRepo, gateway, catalog, log)
	if cfg.Email.SMTPHost != "" {
		reconcileUC.SetNotifier(email.NewSMTPNotifier(cfg.Email))
	}

	startCheckoutUC := billingUsecases.NewStartCheckoutUseCase(catalog, gateway, cfg.Server.FrontendURL, log)
	confirmCheckoutUC := billingUsecases.NewConfirmCheckoutUseCase(gateway, reconcileUC, log)
	portalUC := billingUsecases.NewCreatePortalSessionUseCase(c.subscriptionRepo, gateway, cfg.Server.FrontendURL, log)
	webhookUC := billingUsecases.NewHandleWebhookEventUseCase(gateway, reconcileUC, log)

	getCurrentUC := subscriptionUsecases.NewGetCurrentSubscriptionUseCase(c.subscriptionRepo, log)
	refreshStatusesUC := subscriptionUsecases.NewRefreshStatusesUseCase(c.subscriptionRepo, log)
	listUC := subscriptionUsecases.NewListSubscriptionsUseCase(c.subscriptionRepo, log)
	createUC := subscriptionUsecases.NewCreateSubscriptionUseCase(c.subscriptionRepo, log)
	updateUC := subscriptionUsecases.NewUpdateSubscriptionUseCase(c.subscriptionRepo, log)
	blockUC := subscriptionUsecases.NewBlockSubscriptionUseCase(c.subscriptionRepo, log)
	unblockUC := subscriptionUsecases.NewUnblockSubscriptionUseCase(c.subscriptionRepo, log)

	c.billingHandler = handlers.NewBillingHandler(startCheckoutUC, confirmCheckoutUC, portalUC, webhookUC, log)
	c.subscriptionHandler = handlers.NewSubscriptionHandler(
		getCurrentUC, refreshStatusesUC, listUC, createUC, updateUC, blockUC, unblockUC, log,
	)

	jwtSvc := auth.NewJWTService(cfg.Auth.JWT.Secret)
	c.authMiddleware = middleware.NewAuthMiddleware(jwtSvc, log)

	if c.redis != nil {
		c.rateLimiter = middleware.NewRateLimiter(ratelimit.NewRedisRateLimiter(c.redis), 30, log)
	}

	c.subscriptionScheduler = scheduler.NewSubscriptionScheduler(refreshStatusesUC, log)

	return c
}

// StartBackgroundServices launches the periodic status sweep.
func (c *Container) StartBackgroundServices() {
	ctx, cancel := context.WithCancel(context.Background())
	c.schedulerCancel = cancel
	c.subscriptionScheduler.Start(ctx)
}

// Shutdown stops background services and closes shared connections.
func (c *Container) Shutdown() {
	if c.schedulerCancel != nil {
		c.schedulerCancel()
	}
	c.subscriptionScheduler.Stop()

	if c.redis != nil {
		if err := c.redis.Close(); err != nil {
			c.log.Errorw("failed to close Redis connection", "error", err)
		}
	}
}

// Engine exposes the gin engine for the HTTP server.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// initRedis creates the Redis client, or returns nil when Redis is not
// configured. Rate limiting degrades to a no-op without it.
func initRedis(cfg *config.Config, log logger.Interface) *redis.Client {
	if cfg.Redis.Host == "" {
		log.Warnw("Redis not configured, rate limiting disabled")
		return nil
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Warnw("failed to connect to Redis, rate limiting disabled", "error", err)
		return nil
	}
	log.Infow("Redis connection established")

	return redisClient
}
