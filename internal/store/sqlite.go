package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/PratikDhanave/lightscan-service/internal/models"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists lights and scans in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database file at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create db directory")
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}

	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(5 * time.Minute)

	return &SQLiteStore{db: db}, nil
}

// InitSchema ensures the lights and scans tables exist.
func (s *SQLiteStore) InitSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS lights (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			light_id TEXT NOT NULL,
			name TEXT NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS lights_by_light_id ON lights(light_id, seq);`,
		`CREATE TABLE IF NOT EXISTS scans (
			seq INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			light_id TEXT NOT NULL,
			dates TEXT NOT NULL,
			latency REAL NOT NULL,
			is_error INTEGER NOT NULL,
			created_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS scans_by_light_id ON scans(light_id, seq);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() { _ = s.db.Close() }

func (s *SQLiteStore) ListLights(ctx context.Context) ([]models.Light, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, light_id, name, created_at FROM lights ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, "list lights")
	}
	defer rows.Close()

	out := []models.Light{}
	for rows.Next() {
		l, err := scanLight(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, errors.Wrap(rows.Err(), "list lights")
}

func (s *SQLiteStore) GetLight(ctx context.Context, id string) (models.Light, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, light_id, name, created_at FROM lights WHERE id = ?`, id)
	return s.oneLight(row)
}

func (s *SQLiteStore) GetLightByExternalID(ctx context.Context, lightID string) (models.Light, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, light_id, name, created_at FROM lights WHERE light_id = ? ORDER BY seq LIMIT 1`, lightID)
	return s.oneLight(row)
}

func (s *SQLiteStore) oneLight(row *sql.Row) (models.Light, error) {
	l, err := scanLight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Light{}, ErrNotFound
	}
	return l, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanLight(r rowScanner) (models.Light, error) {
	var (
		l       models.Light
		created string
	)
	if err := r.Scan(&l.ID, &l.LightID, &l.Name, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return l, err
		}
		return l, errors.Wrap(err, "scan light row")
	}
	l.CreatedAt = parseStamp(created)
	return l, nil
}

func (s *SQLiteStore) AddLight(ctx context.Context, lightID, name string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO lights (id, light_id, name, created_at) VALUES (?, ?, ?, ?)`,
		id, lightID, name, nowStamp())
	if err != nil {
		return "", errors.Wrap(err, "insert light")
	}
	return id, nil
}

func (s *SQLiteStore) DeleteLight(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM lights WHERE id = ?`, id)
	if err != nil {
		return errors.Wrap(err, "delete light")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete light")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListScans(ctx context.Context) ([]models.Scan, error) {
	return s.queryScans(ctx, `SELECT id, light_id, dates, latency, is_error, created_at FROM scans ORDER BY seq`)
}

func (s *SQLiteStore) ListScansForLight(ctx context.Context, lightID string) ([]models.Scan, error) {
	return s.queryScans(ctx,
		`SELECT id, light_id, dates, latency, is_error, created_at FROM scans WHERE light_id = ? ORDER BY seq`, lightID)
}

func (s *SQLiteStore) queryScans(ctx context.Context, query string, args ...any) ([]models.Scan, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list scans")
	}
	defer rows.Close()

	out := []models.Scan{}
	for rows.Next() {
		var (
			sc      models.Scan
			dates   string
			created string
		)
		if err := rows.Scan(&sc.ID, &sc.LightID, &dates, &sc.Latency, &sc.Error, &created); err != nil {
			return nil, errors.Wrap(err, "scan scan row")
		}
		// Rows written before the array-only schema may hold a bare string.
		if err := json.Unmarshal([]byte(dates), &sc.Date); err != nil {
			return nil, errors.Wrapf(err, "decode dates of scan %s", sc.ID)
		}
		sc.CreatedAt = parseStamp(created)
		out = append(out, sc)
	}
	return out, errors.Wrap(rows.Err(), "list scans")
}

func (s *SQLiteStore) AddScan(ctx context.Context, sc models.NewScan) (string, error) {
	dates := sc.Date
	if dates == nil {
		dates = []string{}
	}
	encoded, err := json.Marshal(dates)
	if err != nil {
		return "", errors.Wrap(err, "encode dates")
	}
	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scans (id, light_id, dates, latency, is_error, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		id, sc.LightID, string(encoded), sc.Latency, sc.Error, nowStamp())
	if err != nil {
		return "", errors.Wrap(err, "insert scan")
	}
	return id, nil
}

func (s *SQLiteStore) Reset(ctx context.Context) error {
	for _, stmt := range []string{`DELETE FROM scans`, `DELETE FROM lights`} {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "reset")
		}
	}
	return nil
}

func nowStamp() string { return time.Now().UTC().Format(time.RFC3339Nano) }

func parseStamp(v string) time.Time {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}
	}
	return t
}
