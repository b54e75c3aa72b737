package config

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const slowRequest = 200 * time.Millisecond

func PerformanceLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		latency := time.Since(start)
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
		}
		// SSE streams are long-lived.
		if latency > slowRequest && c.Writer.Header().Get("Content-Type") != "text/event-stream" {
			Log.Warn("slow request", fields...)
			return
		}
		Log.Info("request", fields...)
	}
}
