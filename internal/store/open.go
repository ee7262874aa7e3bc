package store

import (
	"context"

	"github.com/pkg/errors"
)

// Options selects and configures a backend.
type Options struct {
	Driver     string // postgres, sqlite or memory
	DBURL      string
	SQLitePath string
}

// Open connects the configured backend, ensures its schema and wraps it
// with metrics instrumentation.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Driver {
	case "postgres":
		pg, err := NewPostgresStore(ctx, opts.DBURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return Instrument(pg), nil
	case "sqlite":
		sq, err := OpenSQLite(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := sq.InitSchema(ctx); err != nil {
			sq.Close()
			return nil, err
		}
		return Instrument(sq), nil
	case "memory":
		return Instrument(NewMemoryStore()), nil
	default:
		return nil, errors.Wrapf(ErrUnknownDriver, "driver %q", opts.Driver)
	}
}
