package store

import (
	"context"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// Store is the data access contract for lights and scans. Every backend
// returns rows in insertion order and reports absent rows as ErrNotFound.
type Store interface {
	ListLights(ctx context.Context) ([]models.Light, error)
	GetLight(ctx context.Context, id string) (models.Light, error)
	// GetLightByExternalID returns the earliest light with the given
	// human-facing identifier. Duplicates are allowed and hidden.
	GetLightByExternalID(ctx context.Context, lightID string) (models.Light, error)
	AddLight(ctx context.Context, lightID, name string) (string, error)
	// DeleteLight removes the light only; its scans are left in place.
	DeleteLight(ctx context.Context, id string) error

	ListScans(ctx context.Context) ([]models.Scan, error)
	ListScansForLight(ctx context.Context, lightID string) ([]models.Scan, error)
	// AddScan does not check that the referenced light exists.
	AddScan(ctx context.Context, s models.NewScan) (string, error)

	// Reset removes every light and scan.
	Reset(ctx context.Context) error
	Ping(ctx context.Context) error
	Close()
}
