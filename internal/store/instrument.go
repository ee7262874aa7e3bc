package store

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/PratikDhanave/lightscan-service/internal/models"
	"github.com/PratikDhanave/lightscan-service/pkg/metrics"
)

// Instrumented decorates a Store with per-operation duration metrics.
type Instrumented struct {
	next Store
}

var _ Store = (*Instrumented)(nil)

// Instrument wraps st so every call is timed.
func Instrument(st Store) *Instrumented {
	return &Instrumented{next: st}
}

func observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(op, err, float64(time.Since(start).Microseconds())/1000)
}

func (i *Instrumented) ListLights(ctx context.Context) (out []models.Light, err error) {
	defer func(start time.Time) { observe("list_lights", start, err) }(time.Now())
	return i.next.ListLights(ctx)
}

func (i *Instrumented) GetLight(ctx context.Context, id string) (out models.Light, err error) {
	defer func(start time.Time) { observe("get_light", start, ignoreNotFound(err)) }(time.Now())
	return i.next.GetLight(ctx, id)
}

func (i *Instrumented) GetLightByExternalID(ctx context.Context, lightID string) (out models.Light, err error) {
	defer func(start time.Time) { observe("get_light_by_external_id", start, ignoreNotFound(err)) }(time.Now())
	return i.next.GetLightByExternalID(ctx, lightID)
}

func (i *Instrumented) AddLight(ctx context.Context, lightID, name string) (id string, err error) {
	defer func(start time.Time) { observe("add_light", start, err) }(time.Now())
	return i.next.AddLight(ctx, lightID, name)
}

func (i *Instrumented) DeleteLight(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete_light", start, ignoreNotFound(err)) }(time.Now())
	return i.next.DeleteLight(ctx, id)
}

func (i *Instrumented) ListScans(ctx context.Context) (out []models.Scan, err error) {
	defer func(start time.Time) { observe("list_scans", start, err) }(time.Now())
	return i.next.ListScans(ctx)
}

func (i *Instrumented) ListScansForLight(ctx context.Context, lightID string) (out []models.Scan, err error) {
	defer func(start time.Time) { observe("list_scans_for_light", start, err) }(time.Now())
	return i.next.ListScansForLight(ctx, lightID)
}

func (i *Instrumented) AddScan(ctx context.Context, s models.NewScan) (id string, err error) {
	defer func(start time.Time) { observe("add_scan", start, err) }(time.Now())
	return i.next.AddScan(ctx, s)
}

func (i *Instrumented) Reset(ctx context.Context) (err error) {
	defer func(start time.Time) { observe("reset", start, err) }(time.Now())
	return i.next.Reset(ctx)
}

func (i *Instrumented) Ping(ctx context.Context) (err error) {
	defer func(start time.Time) { observe("ping", start, err) }(time.Now())
	return i.next.Ping(ctx)
}

func (i *Instrumented) Close() { i.next.Close() }

// ignoreNotFound keeps absent rows out of the error series.
func ignoreNotFound(err error) error {
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}
