package kvstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps keys in a shared kv_store table partitioned by
// namespace, so the app and the worker each own an independent copy even
// when they point at the same database.
type PostgresStore struct {
	pool      *pgxpool.Pool
	namespace string
}

func NewPostgresStore(pool *pgxpool.Pool, namespace string) *PostgresStore {
	return &PostgresStore{pool: pool, namespace: namespace}
}

// OpenPostgres applies migrations through a database/sql view of pool and
// returns a store bound to namespace.
func OpenPostgres(ctx context.Context, pool *pgxpool.Pool, namespace string) (*PostgresStore, error) {
	if err := Migrate(ctx, stdlib.OpenDBFromPool(pool), DriverPostgres); err != nil {
		return nil, err
	}
	return NewPostgresStore(pool, namespace), nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := p.pool.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE namespace = $1 AND key = $2`,
		p.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get kv[%s/%s]: %w", p.namespace, key, err)
	}
	return value, nil
}

func (p *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO kv_store (namespace, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.namespace, key, value)
	if err != nil {
		return fmt.Errorf("set kv[%s/%s]: %w", p.namespace, key, err)
	}
	return nil
}

func (p *PostgresStore) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx,
		`DELETE FROM kv_store WHERE namespace = $1 AND key = $2`, p.namespace, key)
	if err != nil {
		return fmt.Errorf("delete kv[%s/%s]: %w", p.namespace, key, err)
	}
	return nil
}

func (p *PostgresStore) List(ctx context.Context) (map[string][]byte, error) {
	rows, err := p.pool.Query(ctx,
		`SELECT key, value FROM kv_store WHERE namespace = $1`, p.namespace)
	if err != nil {
		return nil, fmt.Errorf("list kv[%s]: %w", p.namespace, err)
	}
	defer rows.Close()

	result := make(map[string][]byte)
	for rows.Next() {
		var key string
		var value []byte
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan kv row: %w", err)
		}
		result[key] = value
	}
	return result, rows.Err()
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM kv_store WHERE namespace = $1`, p.namespace); err != nil {
		return fmt.Errorf("clear kv[%s]: %w", p.namespace, err)
	}
	return nil
}
