// Package ingest validates scan submissions, resolves the light they refer
// to and stores them. It is shared by the HTTP and MQTT transports.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/PratikDhanave/lightscan-service/internal/models"
	"github.com/PratikDhanave/lightscan-service/internal/store"
	"github.com/PratikDhanave/lightscan-service/pkg/metrics"
)

// Sources label where a submission came from.
const (
	SourceHTTP = "http"
	SourceMQTT = "mqtt"
)

// Service writes scans through a store.
type Service struct {
	st  store.Store
	now func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source used for default scan dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService returns a Service writing to st.
func NewService(st store.Store, opts ...Option) *Service {
	s := &Service{st: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit resolves sub.LightID to a light and inserts the scan, returning the
// new scan id. The lookup and the insert are separate round trips.
func (s *Service) Submit(ctx context.Context, sub Submission) (string, error) {
	light, err := s.st.GetLightByExternalID(ctx, sub.LightID)
	if errors.Is(err, store.ErrNotFound) {
		return "", newError(KindNotFound, fmt.Sprintf("Light with lightId \"%s\" not found", sub.LightID))
	}
	if err != nil {
		return "", &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}

	id, err := s.st.AddScan(ctx, models.NewScan{
		LightID: light.ID,
		Date:    sub.Date,
		Latency: sub.Latency,
		Error:   sub.Error,
	})
	if err != nil {
		return "", &Error{Kind: KindInternal, Message: MsgInternal, Err: err}
	}
	return id, nil
}

// Ingest decodes payload, submits it and records the outcome under source.
func (s *Service) Ingest(ctx context.Context, source string, payload []byte) (string, error) {
	sub, err := Decode(payload, s.now())
	if err == nil {
		var id string
		if id, err = s.Submit(ctx, sub); err == nil {
			metrics.RecordScanIngested(source, sub.Error, sub.Latency)
			return id, nil
		}
	}

	var ie *Error
	if errors.As(err, &ie) {
		metrics.RecordIngestRejection(source, string(ie.Kind))
	}
	return "", err
}
