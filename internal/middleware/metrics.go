package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stwalsh4118/dirtboard/internal/metrics"
)

// Metrics records request count and latency per matched route. Routes are
// labelled by their pattern so ids do not explode label cardinality.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveRequest(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}
