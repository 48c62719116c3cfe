package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/seu-repo/voxwallet/pkg/config"
)

// NewRateLimit creates a rate limiting middleware from application config.
// Authenticated requests are limited per user, anonymous ones per IP.
func NewRateLimit(cfg config.RateLimitConfig) fiber.Handler {
	maxRequests := 60
	if cfg.MaxRequests > 0 {
		maxRequests = cfg.MaxRequests
	}

	window := time.Minute
	if cfg.Window > 0 {
		window = cfg.Window
	}

	return limiter.New(limiter.Config{
		Max:        maxRequests,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			if userID, ok := c.Locals("user_id").(string); ok && userID != "" {
				return userID
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, slow down",
			})
		},
	})
}

// DefaultRateLimit creates a rate limiting middleware with sensible defaults
func DefaultRateLimit() fiber.Handler {
	return NewRateLimit(config.RateLimitConfig{
		MaxRequests: 60,
		Window:      time.Minute,
	})
}
