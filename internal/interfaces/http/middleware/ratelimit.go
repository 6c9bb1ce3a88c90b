package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tablier/internal/infrastructure/ratelimit"
	"tablier/internal/shared/logger"
	"tablier/internal/shared/utils"
)

// RateLimiter throttles the billing endpoints per client IP so a
// misbehaving client cannot hammer the payment processor through us.
type RateLimiter struct {
	limiter ratelimit.RateLimiter
	config  ratelimit.RateLimitConfig
	logger  logger.Interface
}

func NewRateLimiter(limiter ratelimit.RateLimiter, requestsPerMinute int, logger logger.Interface) *RateLimiter {
	return &RateLimiter{
		limiter: limiter,
		config: ratelimit.RateLimitConfig{
			RequestsPerMinute: requestsPerMinute,
			RequestsPerHour:   requestsPerMinute * 60,
			RequestsPerDay:    requestsPerMinute * 60 * 24,
		},
		logger: logger,
	}
}

// Limit returns a gin middleware that enforces the rate limit per
// client IP.
func (m *RateLimiter) Limit() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := fmt.Sprintf("ip:%s", c.ClientIP())

		allowed, err := m.limiter.Allow(key, m.config)
		if err != nil {
			// If the limiter backend is unavailable, allow the request
			// rather than blocking all traffic.
			m.logger.Warnw("rate limiter unavailable, allowing request", "error", err)
			c.Next()
			return
		}

		if !allowed {
			m.logger.Warnw("rate limit exceeded", "client_ip", c.ClientIP(), "path", c.Request.URL.Path)
			utils.ErrorResponse(c, http.StatusTooManyRequests, "rate limit exceeded, please try again later")
			c.Abort()
			return
		}

		c.Next()
	}
}
