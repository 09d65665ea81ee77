package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sangkips/billbook-api/internal/config"
)

var requiredHeaders = []string{"Authorization", "Content-Type", IdempotencyKeyHeader, "X-Request-ID"}

// CORSMiddleware creates a CORS middleware with the provided configuration
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	corsConfig := cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     cfg.AllowedMethods,
		AllowHeaders:     withRequiredHeaders(cfg.AllowedHeaders),
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "X-Request-ID", idempotencyReplayedHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	// If no origins are configured, allow common development origins
	if len(corsConfig.AllowOrigins) == 0 {
		corsConfig.AllowOrigins = []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://127.0.0.1:3000",
		}
	}

	if len(corsConfig.AllowMethods) == 0 {
		corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	}

	return cors.New(corsConfig)
}

func withRequiredHeaders(configured []string) []string {
	headers := append([]string{"Accept", "Origin"}, configured...)
	for _, required := range requiredHeaders {
		found := false
		for _, h := range headers {
			if h == required {
				found = true
				break
			}
		}
		if !found {
			headers = append(headers, required)
		}
	}
	return headers
}
