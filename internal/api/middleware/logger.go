package middleware

import (
	"time"

	"bess-degradation/internal/logger"
	"bess-degradation/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Logger logs every request and records it on rec.
func Logger(log logger.Logger, rec metrics.Recorder) gin.HandlerFunc {
	if rec == nil {
		rec = metrics.NopRecorder{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		rec.RecordRequest(c.Request.Method, route, status, elapsed)

		fields := map[string]any{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     status,
			"latency_ms": elapsed.Milliseconds(),
			"client_ip":  c.ClientIP(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		if status >= 500 {
			log.Errorw("request failed", fields)
			return
		}
		log.Debugw("request", fields)
	}
}
