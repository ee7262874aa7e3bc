package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/lightscan-service/internal/analytics"
	"github.com/PratikDhanave/lightscan-service/pkg/metrics"
)

// RegisterAnalyticsRoutes serves the derived dashboard views. Each request
// reads a fresh snapshot and recomputes everything.
//
// GET /api/analytics          full dashboard
// GET /api/analytics/lights   per-light summary rows
func RegisterAnalyticsRoutes(r gin.IRoutes, d Deps) {
	log := d.Log.Named("analytics")

	snapshot := func(c *gin.Context) (analytics.Snapshot, bool) {
		ctx := c.Request.Context()
		lights, err := d.Store.ListLights(ctx)
		if err != nil {
			internalError(c, log, "error fetching lights", err)
			return analytics.Snapshot{}, false
		}
		scans, err := d.Store.ListScans(ctx)
		if err != nil {
			internalError(c, log, "error fetching scans", err)
			return analytics.Snapshot{}, false
		}
		metrics.UpdateLightsRegistered(len(lights))
		return analytics.Snapshot{Lights: lights, Scans: scans}, true
	}

	r.GET("/api/analytics", func(c *gin.Context) {
		snap, ok := snapshot(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, analytics.BuildDashboard(snap, d.now(), d.location()))
	})

	r.GET("/api/analytics/lights", func(c *gin.Context) {
		snap, ok := snapshot(c)
		if !ok {
			return
		}
		rows := analytics.LightSummaries(snap.Lights, snap.Scans, d.now(), d.location())
		c.JSON(http.StatusOK, gin.H{"success": true, "lights": rows})
	})
}
