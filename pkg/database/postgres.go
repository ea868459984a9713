package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dappvotes/pkg/kv"
)

// PostgresDB is a kv.Backend over a single PostgreSQL table.
type PostgresDB struct {
	Pool *pgxpool.Pool
}

var _ kv.Backend = (*PostgresDB)(nil)

// NewPostgresDB creates a new PostgreSQL connection pool
func NewPostgresDB(ctx context.Context, databaseURL string) (*PostgresDB, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = time.Minute * 30
	config.HealthCheckPeriod = time.Minute
	config.ConnConfig.ConnectTimeout = time.Second * 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{Pool: pool}, nil
}

// EnsureSchema creates the ledger table if it does not exist.
func (db *PostgresDB) EnsureSchema(ctx context.Context) error {
	if _, err := db.Pool.Exec(ctx, PostgresSchema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// Get returns the value at key or kv.ErrNotFound.
func (db *PostgresDB) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := db.Pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres get: %w", err)
	}
	return value, nil
}

// Scan returns every pair under prefix in ascending key order.
func (db *PostgresDB) Scan(ctx context.Context, prefix []byte) ([]kv.Pair, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if end := kv.PrefixEnd(prefix); end != nil {
		rows, err = db.Pool.Query(ctx,
			`SELECT key, value FROM kv_store WHERE key >= $1 AND key < $2 ORDER BY key`,
			prefix, end)
	} else {
		rows, err = db.Pool.Query(ctx,
			`SELECT key, value FROM kv_store WHERE key >= $1 ORDER BY key`,
			prefixOrEmpty(prefix))
	}
	if err != nil {
		return nil, fmt.Errorf("postgres scan: %w", err)
	}

	pairs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (kv.Pair, error) {
		var p kv.Pair
		err := row.Scan(&p.Key, &p.Value)
		return p, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres scan rows: %w", err)
	}
	return pairs, nil
}

// Apply writes ops in one transaction.
func (db *PostgresDB) Apply(ctx context.Context, ops []kv.Op) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("postgres begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, op := range ops {
		if op.IsDelete() {
			if _, err := tx.Exec(ctx, `DELETE FROM kv_store WHERE key = $1`, op.Key); err != nil {
				return fmt.Errorf("postgres delete: %w", err)
			}
			continue
		}
		_, err := tx.Exec(ctx,
			`INSERT INTO kv_store (key, value) VALUES ($1, $2)
			 ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`,
			op.Key, op.Value)
		if err != nil {
			return fmt.Errorf("postgres upsert: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("postgres commit: %w", err)
	}
	return nil
}

// Health checks the database connection
func (db *PostgresDB) Health(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Close closes the database connection pool
func (db *PostgresDB) Close() error {
	if db.Pool != nil {
		db.Pool.Close()
	}
	return nil
}

// prefixOrEmpty keeps an empty prefix from binding as NULL.
func prefixOrEmpty(prefix []byte) []byte {
	if prefix == nil {
		return []byte{}
	}
	return prefix
}
