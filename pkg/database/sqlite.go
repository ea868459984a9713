package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"dappvotes/pkg/kv"
)

// SQLiteDB is a kv.Backend over a single SQLite table.
type SQLiteDB struct {
	db *sql.DB
}

var _ kv.Backend = (*SQLiteDB)(nil)

// NewSQLiteDB opens (or creates) the database at path and its schema.
// ":memory:" gives a private in-process database.
func NewSQLiteDB(ctx context.Context, path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// one writer; an in-memory database would otherwise be per connection
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.ExecContext(ctx, SQLiteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Get returns the value at key or kv.ErrNotFound.
func (s *SQLiteDB) Get(ctx context.Context, key []byte) ([]byte, error) {
	var value []byte
	err := s.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite get: %w", err)
	}
	return value, nil
}

// Scan returns every pair under prefix in ascending key order.
func (s *SQLiteDB) Scan(ctx context.Context, prefix []byte) ([]kv.Pair, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if end := kv.PrefixEnd(prefix); end != nil {
		rows, err = s.db.QueryContext(ctx,
			`SELECT key, value FROM kv_store WHERE key >= ? AND key < ? ORDER BY key`,
			prefix, end)
	} else {
		rows, err = s.db.QueryContext(ctx,
			`SELECT key, value FROM kv_store WHERE key >= ? ORDER BY key`,
			prefixOrEmpty(prefix))
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite scan: %w", err)
	}
	defer rows.Close()

	var pairs []kv.Pair
	for rows.Next() {
		var p kv.Pair
		if err := rows.Scan(&p.Key, &p.Value); err != nil {
			return nil, fmt.Errorf("sqlite scan row: %w", err)
		}
		pairs = append(pairs, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite scan rows: %w", err)
	}
	return pairs, nil
}

// Apply writes ops in one transaction.
func (s *SQLiteDB) Apply(ctx context.Context, ops []kv.Op) error {
	if len(ops) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite begin: %w", err)
	}
	defer tx.Rollback()

	for _, op := range ops {
		if op.IsDelete() {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv_store WHERE key = ?`, op.Key); err != nil {
				return fmt.Errorf("sqlite delete: %w", err)
			}
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO kv_store (key, value) VALUES (?, ?)
			 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
			op.Key, op.Value)
		if err != nil {
			return fmt.Errorf("sqlite upsert: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite commit: %w", err)
	}
	return nil
}

// Health reports whether the store is reachable.
func (s *SQLiteDB) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the store.
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}
