package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dirtboard/internal/logger"
)

// Recovery turns a handler panic into a logged 500 response.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)

				requestLogger := GetLogger(c)
				if requestLogger == nil {
					requestLogger = log
				}
				requestLogger.Error("Panic recovered", fmt.Errorf("panic: %v", err), logger.Fields{
					"method": c.Request.Method,
					"path":   c.Request.URL.Path,
					"stack":  string(debug.Stack()),
				})

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": gin.H{
						"code":       "INTERNAL_SERVER_ERROR",
						"message":    "An unexpected error occurred",
						"request_id": requestID,
					},
				})
			}
		}()

		c.Next()
	}
}
