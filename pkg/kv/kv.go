// Package kv defines the ordered byte-key store the ledger persists into.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key is absent.
var ErrNotFound = errors.New("kv: key not found")

// Pair is one stored entry.
type Pair struct {
	Key   []byte
	Value []byte
}

// Op is a single buffered mutation. A nil Value deletes the key.
type Op struct {
	Key   []byte
	Value []byte
}

// IsDelete reports whether the op removes its key.
func (o Op) IsDelete() bool {
	return o.Value == nil
}

// Reader is the read side of a store.
type Reader interface {
	// Get returns the value stored under key or ErrNotFound.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Scan returns every pair whose key starts with prefix, ascending by key.
	Scan(ctx context.Context, prefix []byte) ([]Pair, error)
}

// Store is what command handlers read from and write to.
type Store interface {
	Reader
	Set(ctx context.Context, key, value []byte) error
	Delete(ctx context.Context, key []byte) error
}

// Backend is a durable store that commits batches atomically.
type Backend interface {
	Reader

	// Apply commits all ops or none of them.
	Apply(ctx context.Context, ops []Op) error

	Health(ctx context.Context) error
	Close() error
}

// PrefixEnd returns the smallest key greater than every key with the given
// prefix, or nil when no such key exists (prefix is empty or all 0xff).
func PrefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func clone(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
