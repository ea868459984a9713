package kv

import (
	"bytes"
	"context"
	"errors"
	"sort"
)

// Cache buffers the writes of one command on top of a Reader. Reads observe
// the buffered writes; nothing reaches the parent until the owner applies
// Ops() to a Backend. A Cache is not safe for concurrent use.
type Cache struct {
	parent  Reader
	pending map[string]Op
}

// NewCache creates an empty write buffer over parent.
func NewCache(parent Reader) *Cache {
	return &Cache{
		parent:  parent,
		pending: make(map[string]Op),
	}
}

// Get returns the buffered value for key, falling back to the parent.
func (c *Cache) Get(ctx context.Context, key []byte) ([]byte, error) {
	if op, ok := c.pending[string(key)]; ok {
		if op.IsDelete() {
			return nil, ErrNotFound
		}
		return clone(op.Value), nil
	}
	return c.parent.Get(ctx, key)
}

// Scan merges the parent's pairs under prefix with the buffered writes.
func (c *Cache) Scan(ctx context.Context, prefix []byte) ([]Pair, error) {
	base, err := c.parent.Scan(ctx, prefix)
	if err != nil {
		return nil, err
	}

	merged := make(map[string][]byte, len(base))
	for _, p := range base {
		merged[string(p.Key)] = p.Value
	}
	for k, op := range c.pending {
		if !bytes.HasPrefix([]byte(k), prefix) {
			continue
		}
		if op.IsDelete() {
			delete(merged, k)
			continue
		}
		merged[k] = clone(op.Value)
	}

	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: []byte(k), Value: merged[k]})
	}
	return pairs, nil
}

// Set buffers a write.
func (c *Cache) Set(_ context.Context, key, value []byte) error {
	if len(key) == 0 {
		return errors.New("kv: empty key")
	}
	if value == nil {
		value = []byte{}
	}
	c.pending[string(key)] = Op{Key: clone(key), Value: clone(value)}
	return nil
}

// Delete buffers a removal.
func (c *Cache) Delete(_ context.Context, key []byte) error {
	if len(key) == 0 {
		return errors.New("kv: empty key")
	}
	c.pending[string(key)] = Op{Key: clone(key)}
	return nil
}

// Ops returns the buffered writes ordered by key.
func (c *Cache) Ops() []Op {
	ops := make([]Op, 0, len(c.pending))
	for _, op := range c.pending {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool {
		return bytes.Compare(ops[i].Key, ops[j].Key) < 0
	})
	return ops
}

// Len returns the number of buffered writes.
func (c *Cache) Len() int {
	return len(c.pending)
}

// Discard drops every buffered write.
func (c *Cache) Discard() {
	c.pending = make(map[string]Op)
}
