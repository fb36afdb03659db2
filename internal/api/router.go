package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/headlines-digest-api/internal/config"
	"github.com/headlines-digest-api/internal/service"
	"github.com/headlines-digest-api/pkg/logger"
	"github.com/rs/zerolog"
)

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware())

	chatHandler := NewChatHandler(services, cfg, log)
	sessionHandler := NewSessionHandler(services, log)

	router.GET("/health", healthCheck)
	router.GET("/metrics", metricsHandler(services, cfg))

	v1 := router.Group("/v1")
	{
		v1.POST("/chat", chatHandler.Digest)

		sessions := v1.Group("/sessions/:session_id")
		{
			sessions.GET("/preferences", sessionHandler.GetPreferences)
			sessions.GET("/seen", sessionHandler.GetSeen)
		}
	}

	// unmatched routes, OPTIONS preflights included, still run the middleware chain
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	})

	return router
}

// healthCheck returns the health status
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   logger.ServiceName,
	})
}

// metricsHandler returns pipeline counters
func metricsHandler(services *service.Services, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats := services.Digest.Stats()

		c.JSON(http.StatusOK, gin.H{
			"store": gin.H{
				"driver": cfg.Store.Driver,
			},
			"digest":    stats,
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", time.Since(start)).
			Str("client_ip", c.ClientIP()).
			Str("session_id", c.Writer.Header().Get(SessionHeader)).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS. The session header is exposed so browser
// clients on another origin can persist it.
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, "+SessionHeader)
		h.Set("Access-Control-Expose-Headers", SessionHeader)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
