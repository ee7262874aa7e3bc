package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/lightscan-service/internal/auth"
	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/internal/models"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

// RegisterScanRoutes registers the ingestion endpoint and its read companion.
//
// POST /api/scans (write group)
// - Validates lightId, date, latency, error in that order (400)
// - Resolves lightId to a light (404) and stores the scan (201)
//
// GET /api/scans (read group)
// - Returns every stored scan
func RegisterScanRoutes(read, write gin.IRoutes, d Deps) {
	log := d.Log.Named("scans")

	write.POST("/api/scans", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ingest.MsgInvalidPayload})
			return
		}

		scanID, err := d.Ingest.Ingest(c.Request.Context(), ingest.SourceHTTP, body)
		if err != nil {
			var ie *ingest.Error
			if !errors.As(err, &ie) || ie.Kind == ingest.KindInternal {
				internalError(c, log, "error adding scan", err)
				return
			}
			status := http.StatusBadRequest
			if ie.Kind == ingest.KindNotFound {
				status = http.StatusNotFound
			}
			c.JSON(status, gin.H{"error": ie.Message})
			return
		}

		log.Debug(c.Request.Context(), "scan added",
			logger.String("scanId", scanID),
			logger.String("client", auth.Client(c)),
		)
		c.JSON(http.StatusCreated, models.ScanIngestResponse{
			Success: true,
			ScanID:  scanID,
			Message: "Scan added successfully",
		})
	})

	read.GET("/api/scans", func(c *gin.Context) {
		scans, err := d.Store.ListScans(c.Request.Context())
		if err != nil {
			internalError(c, log, "error fetching scans", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "scans": scans})
	})
}
