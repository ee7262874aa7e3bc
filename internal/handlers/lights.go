package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/internal/models"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

// RegisterLightRoutes exposes the light half of the data access layer.
//
// GET    /api/lights            list
// POST   /api/lights            create; lightId and name are generated when omitted
// GET    /api/lights/:id        point lookup by internal id
// DELETE /api/lights/:id        delete; scans are kept
// GET    /api/lights/:id/scans  scans referencing the light
func RegisterLightRoutes(read, write gin.IRoutes, d Deps) {
	log := d.Log.Named("lights")

	read.GET("/api/lights", func(c *gin.Context) {
		lights, err := d.Store.ListLights(c.Request.Context())
		if err != nil {
			internalError(c, log, "error fetching lights", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "lights": lights})
	})

	read.GET("/api/lights/:id", func(c *gin.Context) {
		light, err := d.Store.GetLight(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "light not found"})
			return
		}
		if err != nil {
			internalError(c, log, "error fetching light", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "light": light})
	})

	read.GET("/api/lights/:id/scans", func(c *gin.Context) {
		scans, err := d.Store.ListScansForLight(c.Request.Context(), c.Param("id"))
		if err != nil {
			internalError(c, log, "error fetching scans for light", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "scans": scans})
	})

	write.POST("/api/lights", func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": ingest.MsgInvalidPayload})
			return
		}
		var req models.CreateLightRequest
		if len(bytes.TrimSpace(body)) > 0 {
			if err := json.Unmarshal(body, &req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": ingest.MsgInvalidPayload})
				return
			}
		}

		ctx := c.Request.Context()
		if req.LightID == "" {
			req.LightID = newExternalID()
		}
		if req.Name == "" {
			lights, err := d.Store.ListLights(ctx)
			if err != nil {
				internalError(c, log, "error counting lights", err)
				return
			}
			req.Name = fmt.Sprintf("Light %d", len(lights)+1)
		}

		id, err := d.Store.AddLight(ctx, req.LightID, req.Name)
		if err != nil {
			internalError(c, log, "error adding light", err)
			return
		}
		log.Info(ctx, "light added", logger.String("id", id), logger.String("lightId", req.LightID))
		c.JSON(http.StatusCreated, gin.H{"success": true, "id": id, "lightId": req.LightID, "name": req.Name})
	})

	write.DELETE("/api/lights/:id", func(c *gin.Context) {
		err := d.Store.DeleteLight(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "light not found"})
			return
		}
		if err != nil {
			internalError(c, log, "error deleting light", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

// newExternalID returns an identifier of the form LGT-XXXXXX.
func newExternalID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "LGT-" + strings.ToUpper(raw[:6])
}
