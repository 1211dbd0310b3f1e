package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dirtboard/internal/logger"
)

// Logger creates a middleware that logs each request once it completes and
// stores a request-scoped child logger for handlers. Server errors log at
// error level, client errors at warn.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		requestLogger := log.WithRequestID(GetRequestID(c))
		c.Set(loggerKey, requestLogger)

		c.Next()

		fields := logger.Fields{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if len(c.Request.URL.RawQuery) > 0 {
			fields["query"] = c.Request.URL.RawQuery
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			if len(c.Errors) > 0 {
				fields["errors"] = c.Errors.String()
			}
			requestLogger.Error("Request completed with server error", nil, fields)
		case statusCode >= 400:
			if len(c.Errors) > 0 {
				fields["errors"] = c.Errors.String()
			}
			requestLogger.Warn("Request completed with client error", fields)
		default:
			requestLogger.Info("Request completed", fields)
		}
	}
}

// loggerKey is the context key for the request-scoped logger.
const loggerKey = "logger"

// GetLogger retrieves the logger from the Gin context.
// Returns nil if not found.
func GetLogger(c *gin.Context) *logger.Logger {
	if log, exists := c.Get(loggerKey); exists {
		if logger, ok := log.(*logger.Logger); ok {
			return logger
		}
	}
	return nil
}
