package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PratikDhanave/lightscan-service/internal/auth"
	"github.com/PratikDhanave/lightscan-service/internal/config"
	"github.com/PratikDhanave/lightscan-service/internal/handlers"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
	"github.com/PratikDhanave/lightscan-service/pkg/metrics"
)

// NewRouter wires probes, metrics and the JSON API.
// Public: /health, /ready, /metrics and every GET under /api
// Guarded: mutating /api routes (X-API-Key when keys are configured)
func NewRouter(cfg *config.Config, d handlers.Deps) (*gin.Engine, error) {
	keys, err := cfg.KeyClients()
	if err != nil {
		return nil, err
	}

	gin.SetMode(gin.ReleaseMode)
	log := d.Log.Named("http")

	r := gin.New()
	r.Use(gin.Recovery(), requestObserver(log))

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the store is reachable.
	r.GET("/ready", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := d.Store.Ping(ctx); err != nil {
			log.Warn(ctx, "readiness check failed", logger.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})))

	read := r.Group("/")

	write := r.Group("/")
	write.Use(auth.APIKeyMiddleware(keys))
	write.Use(rateLimit(cfg.IngestRPS, cfg.IngestBurst))

	handlers.RegisterScanRoutes(read, write, d)
	handlers.RegisterLightRoutes(read, write, d)
	handlers.RegisterAnalyticsRoutes(read, d)

	return r, nil
}
