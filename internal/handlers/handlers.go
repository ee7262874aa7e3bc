// Package handlers implements the JSON API over lights, scans and analytics.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/lightscan-service/internal/ingest"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/logger"
)

// Deps are the collaborators shared by every route.
type Deps struct {
	Store    store.Store
	Ingest   *ingest.Service
	Log      logger.Logger
	Now      func() time.Time
	Location *time.Location
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}

func (d Deps) location() *time.Location {
	if d.Location == nil {
		return time.UTC
	}
	return d.Location
}

// internalError logs the cause and answers with an opaque 500.
func internalError(c *gin.Context, log logger.Logger, msg string, err error) {
	log.Error(c.Request.Context(), msg,
		logger.Error(err),
		logger.String("method", c.Request.Method),
		logger.String("path", c.FullPath()),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": ingest.MsgInternal})
}
