package httpserver

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/PratikDhanave/lightscan-service/pkg/logger"
	"github.com/PratikDhanave/lightscan-service/pkg/metrics"
)

// requestObserver logs each request and records its latency by route.
func requestObserver(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		status := c.Writer.Status()
		elapsed := float64(time.Since(start).Microseconds()) / 1000
		metrics.RecordHTTPRequest(endpoint, c.Request.Method, strconv.Itoa(status), elapsed)

		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", endpoint),
			logger.Int("status", status),
			logger.Float64("duration_ms", elapsed),
		}
		if status >= http.StatusInternalServerError {
			log.Error(c.Request.Context(), "request failed", fields...)
			return
		}
		log.Debug(c.Request.Context(), "request", fields...)
	}
}

// rateLimit shares one token bucket across the group. rps <= 0 disables it.
func rateLimit(rps float64, burst int) gin.HandlerFunc {
	if rps <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if burst < 1 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
