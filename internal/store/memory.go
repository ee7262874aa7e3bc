package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// MemoryStore keeps lights and scans in process memory. It backs tests and
// the "memory" driver; nothing survives a restart.
type MemoryStore struct {
	mu     sync.RWMutex
	lights []models.Light
	scans  []models.Scan
	now    func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

func (m *MemoryStore) ListLights(_ context.Context) ([]models.Light, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Light, len(m.lights))
	copy(out, m.lights)
	return out, nil
}

func (m *MemoryStore) GetLight(_ context.Context, id string) (models.Light, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lights {
		if l.ID == id {
			return l, nil
		}
	}
	return models.Light{}, ErrNotFound
}

func (m *MemoryStore) GetLightByExternalID(_ context.Context, lightID string) (models.Light, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, l := range m.lights {
		if l.LightID == lightID {
			return l, nil
		}
	}
	return models.Light{}, ErrNotFound
}

func (m *MemoryStore) AddLight(_ context.Context, lightID, name string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l := models.Light{
		ID:        uuid.NewString(),
		LightID:   lightID,
		Name:      name,
		CreatedAt: m.now().UTC(),
	}
	m.lights = append(m.lights, l)
	return l.ID, nil
}

func (m *MemoryStore) DeleteLight(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.lights {
		if l.ID == id {
			m.lights = append(m.lights[:i], m.lights[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *MemoryStore) ListScans(_ context.Context) ([]models.Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Scan, len(m.scans))
	for i, s := range m.scans {
		out[i] = cloneScan(s)
	}
	return out, nil
}

func (m *MemoryStore) ListScansForLight(_ context.Context, lightID string) ([]models.Scan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []models.Scan{}
	for _, s := range m.scans {
		if s.LightID == lightID {
			out = append(out, cloneScan(s))
		}
	}
	return out, nil
}

func (m *MemoryStore) AddScan(_ context.Context, s models.NewScan) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	scan := models.Scan{
		ID:        uuid.NewString(),
		LightID:   s.LightID,
		Date:      append(models.Dates{}, s.Date...),
		Latency:   s.Latency,
		Error:     s.Error,
		CreatedAt: m.now().UTC(),
	}
	m.scans = append(m.scans, scan)
	return scan.ID, nil
}

func (m *MemoryStore) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lights = nil
	m.scans = nil
	return nil
}

func (m *MemoryStore) Ping(_ context.Context) error { return nil }

func (m *MemoryStore) Close() {}

func cloneScan(s models.Scan) models.Scan {
	s.Date = append(models.Dates{}, s.Date...)
	return s
}
