package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	fibercors "github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/seu-repo/voxwallet/pkg/config"
)

// NewCORS builds the CORS policy for the browser wallet UI. Every
// list-valued setting falls back to a working default when the config
// leaves it empty, so a minimal config file still serves browsers.
func NewCORS(cfg config.CORSConfig) fiber.Handler {
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 86400
	}

	return fibercors.New(fibercors.Config{
		AllowOrigins:     listOr(cfg.AllowedOrigins, "*"),
		AllowMethods:     listOr(cfg.AllowedMethods, "GET,POST,PUT,PATCH,DELETE,OPTIONS"),
		AllowHeaders:     listOr(cfg.AllowedHeaders, "Origin,Content-Type,Accept,Authorization,X-Request-ID"),
		ExposeHeaders:    listOr(cfg.ExposeHeaders, "Content-Length,Content-Range"),
		AllowCredentials: cfg.Credentials,
		MaxAge:           maxAge,
	})
}

// DefaultCORS is the permissive policy used when the cors section is
// absent from config. Development only: any origin may call the API.
func DefaultCORS() fiber.Handler {
	return NewCORS(config.CORSConfig{MaxAge: 86400})
}

func listOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ",")
}
