package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"github.com/PratikDhanave/lightscan-service/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the durable persistence layer for lights and scans.
type PostgresStore struct {
	pool *pgxpool.Pool
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(ctx context.Context, dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, errors.Wrap(err, "create pool")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "ping postgres")
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, schemaSQL)
	return errors.Wrap(err, "apply schema")
}

// Ping is used by readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

const lightColumns = `id::text, light_id, name, created_at`

func (p *PostgresStore) ListLights(ctx context.Context) ([]models.Light, error) {
	rows, err := p.pool.Query(ctx, `SELECT `+lightColumns+` FROM lights ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "list lights")
	}
	defer rows.Close()

	out := []models.Light{}
	for rows.Next() {
		var l models.Light
		if err := rows.Scan(&l.ID, &l.LightID, &l.Name, &l.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan light row")
		}
		out = append(out, l)
	}
	return out, errors.Wrap(rows.Err(), "list lights")
}

func (p *PostgresStore) GetLight(ctx context.Context, id string) (models.Light, error) {
	// Ids that are not UUIDs cannot exist; avoid a driver-level cast error.
	if _, err := uuid.Parse(id); err != nil {
		return models.Light{}, ErrNotFound
	}
	return p.getLight(ctx, `SELECT `+lightColumns+` FROM lights WHERE id = $1`, id)
}

func (p *PostgresStore) GetLightByExternalID(ctx context.Context, lightID string) (models.Light, error) {
	return p.getLight(ctx, `SELECT `+lightColumns+` FROM lights WHERE light_id = $1 ORDER BY seq LIMIT 1`, lightID)
}

func (p *PostgresStore) getLight(ctx context.Context, query string, arg string) (models.Light, error) {
	var l models.Light
	err := p.pool.QueryRow(ctx, query, arg).Scan(&l.ID, &l.LightID, &l.Name, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Light{}, ErrNotFound
	}
	if err != nil {
		return models.Light{}, errors.Wrap(err, "get light")
	}
	return l, nil
}

func (p *PostgresStore) AddLight(ctx context.Context, lightID, name string) (string, error) {
	id := uuid.NewString()
	_, err := p.pool.Exec(ctx, `INSERT INTO lights (id, light_id, name) VALUES ($1, $2, $3)`, id, lightID, name)
	if err != nil {
		return "", errors.Wrap(err, "insert light")
	}
	return id, nil
}

func (p *PostgresStore) DeleteLight(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrNotFound
	}
	tag, err := p.pool.Exec(ctx, `DELETE FROM lights WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete light")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const scanColumns = `id::text, light_id, dates, latency, is_error, created_at`

func (p *PostgresStore) ListScans(ctx context.Context) ([]models.Scan, error) {
	return p.queryScans(ctx, `SELECT `+scanColumns+` FROM scans ORDER BY seq`)
}

func (p *PostgresStore) ListScansForLight(ctx context.Context, lightID string) ([]models.Scan, error) {
	return p.queryScans(ctx, `SELECT `+scanColumns+` FROM scans WHERE light_id = $1 ORDER BY seq`, lightID)
}

func (p *PostgresStore) queryScans(ctx context.Context, query string, args ...any) ([]models.Scan, error) {
	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list scans")
	}
	defer rows.Close()

	out := []models.Scan{}
	for rows.Next() {
		var (
			s     models.Scan
			dates []string
		)
		if err := rows.Scan(&s.ID, &s.LightID, &dates, &s.Latency, &s.Error, &s.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan scan row")
		}
		s.Date = dates
		out = append(out, s)
	}
	return out, errors.Wrap(rows.Err(), "list scans")
}

func (p *PostgresStore) AddScan(ctx context.Context, s models.NewScan) (string, error) {
	id := uuid.NewString()
	dates := s.Date
	if dates == nil {
		dates = []string{}
	}
	_, err := p.pool.Exec(ctx, `
		INSERT INTO scans (id, light_id, dates, latency, is_error)
		VALUES ($1, $2, $3, $4, $5)
	`, id, s.LightID, dates, s.Latency, s.Error)
	if err != nil {
		return "", errors.Wrap(err, "insert scan")
	}
	return id, nil
}

func (p *PostgresStore) Reset(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, `TRUNCATE scans, lights`)
	return errors.Wrap(err, "reset")
}
