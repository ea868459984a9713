package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dappvotes/pkg/kv"
)

// Backend stores ledger pairs in Redis. Values live in one hash; every key is
// also a member of a score-0 sorted set so ZRANGEBYLEX yields byte-ordered
// prefix scans.
type Backend struct {
	client   *Client
	dataKey  string
	indexKey string
}

var _ kv.Backend = (*Backend)(nil)

// NewBackend creates a backend whose Redis keys start with namespace.
func NewBackend(client *Client, namespace string) *Backend {
	if namespace == "" {
		namespace = "dappvotes"
	}
	return &Backend{
		client:   client,
		dataKey:  namespace + ":kv:data",
		indexKey: namespace + ":kv:index",
	}
}

// Get returns the value at key or kv.ErrNotFound.
func (b *Backend) Get(ctx context.Context, key []byte) ([]byte, error) {
	val, err := b.client.HGet(ctx, b.dataKey, string(key))
	if errors.Is(err, redis.Nil) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return val, nil
}

// Scan returns every pair under prefix in ascending key order.
func (b *Backend) Scan(ctx context.Context, prefix []byte) ([]kv.Pair, error) {
	min := "-"
	if len(prefix) > 0 {
		min = "[" + string(prefix)
	}
	max := "+"
	if end := kv.PrefixEnd(prefix); end != nil {
		max = "(" + string(end)
	}

	members, err := b.client.ZRangeByLex(ctx, b.indexKey, min, max)
	if err != nil {
		return nil, fmt.Errorf("redis scan index: %w", err)
	}
	if len(members) == 0 {
		return nil, nil
	}

	vals, err := b.client.HMGet(ctx, b.dataKey, members...)
	if err != nil {
		return nil, fmt.Errorf("redis scan values: %w", err)
	}

	pairs := make([]kv.Pair, 0, len(members))
	for i, member := range members {
		s, ok := vals[i].(string)
		if !ok {
			// indexed but without a value; Apply writes both in one transaction
			return nil, fmt.Errorf("redis scan: key %q missing from data hash", member)
		}
		pairs = append(pairs, kv.Pair{Key: []byte(member), Value: []byte(s)})
	}
	return pairs, nil
}

// Apply writes ops in one MULTI/EXEC.
func (b *Backend) Apply(ctx context.Context, ops []kv.Op) error {
	if len(ops) == 0 {
		return nil
	}
	err := b.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, op := range ops {
			field := string(op.Key)
			if op.IsDelete() {
				pipe.HDel(ctx, b.dataKey, field)
				pipe.ZRem(ctx, b.indexKey, field)
				continue
			}
			pipe.HSet(ctx, b.dataKey, field, op.Value)
			pipe.ZAdd(ctx, b.indexKey, redis.Z{Score: 0, Member: field})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis apply: %w", err)
	}
	return nil
}

// Health reports whether the store is reachable.
func (b *Backend) Health(ctx context.Context) error {
	return b.client.Health(ctx)
}

// Close releases the store.
func (b *Backend) Close() error {
	return b.client.Close()
}
