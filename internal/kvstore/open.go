package kvstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Options selects and configures a Store implementation.
type Options struct {
	Driver     string
	SQLitePath string
	Pool       *pgxpool.Pool // required for DriverPostgres
	Namespace  string        // postgres partition, e.g. "app" or "worker"
}

// Open builds the Store described by opts. The returned close func releases
// driver resources owned by the store (never the shared pool).
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), noop, nil
	case DriverSQLite:
		s, db, err := OpenSQLite(ctx, opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return s, db.Close, nil
	case DriverPostgres:
		if opts.Pool == nil {
			return nil, nil, fmt.Errorf("postgres store requires a connection pool")
		}
		s, err := OpenPostgres(ctx, opts.Pool, opts.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return s, noop, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
