package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wms-platform/fulfillment-service/pkg/errors"
)

// Config holds middleware configuration
type Config struct {
	Logger         *slog.Logger
	ServiceName    string
	EnableCORS     bool
	TrustedProxies []string
	LogSkipPaths   []string
}

// DefaultConfig returns a default middleware configuration
func DefaultConfig(serviceName string, logger *slog.Logger) *Config {
	return &Config{
		Logger:       logger,
		ServiceName:  serviceName,
		EnableCORS:   true,
		LogSkipPaths: []string{"/health", "/ready", "/metrics"},
	}
}

// Setup applies the standard middleware chain to a Gin router
func Setup(router *gin.Engine, config *Config) {
	InitValidator()

	if len(config.TrustedProxies) > 0 {
		_ = router.SetTrustedProxies(config.TrustedProxies)
	}

	router.Use(Recovery(config.Logger))
	router.Use(RequestID())
	router.Use(CorrelationID())
	router.Use(LoggerWithConfig(&LoggerConfig{Logger: config.Logger, ExcludePaths: config.LogSkipPaths}))

	if config.EnableCORS {
		router.Use(CORS())
	}

	router.Use(ContentType())
	router.Use(ErrorHandler(config.Logger))

	router.NoRoute(NoRoute())
	router.NoMethod(NoMethod())
	router.HandleMethodNotAllowed = true
}

// CORS middleware for the dashboards calling the API from the browser
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Request-ID, X-Correlation-ID")
		c.Header("Access-Control-Expose-Headers", "X-Request-ID, X-Correlation-ID")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// HealthCheck creates a liveness handler
func HealthCheck(serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	}
}

// DependencyCheck probes one backing service for readiness
type DependencyCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// ReadinessCheck runs every check under timeout and reports each dependency.
// Any failing dependency makes the service not ready.
func ReadinessCheck(serviceName string, timeout time.Duration, checks ...DependencyCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		ready := true
		deps := make(gin.H, len(checks))
		for _, dep := range checks {
			if err := dep.Check(ctx); err != nil {
				ready = false
				deps[dep.Name] = err.Error()
				continue
			}
			deps[dep.Name] = "ok"
		}

		code, state := http.StatusOK, "ready"
		if !ready {
			code, state = http.StatusServiceUnavailable, "not ready"
		}
		c.JSON(code, gin.H{
			"status":       state,
			"service":      serviceName,
			"dependencies": deps,
		})
	}
}

// NoRoute handles 404 errors with the standard error body
func NoRoute() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, newErrorResponse(c, errors.NewAppError("ROUTE_NOT_FOUND", "The requested resource was not found", http.StatusNotFound)))
	}
}

// NoMethod handles 405 errors with the standard error body
func NoMethod() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, newErrorResponse(c, errors.NewAppError(errors.CodeMethodNotAllowed, "The request method is not supported for this resource", http.StatusMethodNotAllowed)))
	}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
