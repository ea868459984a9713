package kv

import (
	"bytes"
	"context"
	"sync"

	"github.com/google/btree"
)

const memoryDegree = 32

type memItem struct {
	key   []byte
	value []byte
}

func lessMemItem(a, b memItem) bool {
	return bytes.Compare(a.key, b.key) < 0
}

// MemoryBackend keeps all pairs in an in-process btree.
type MemoryBackend struct {
	mu   sync.RWMutex
	tree *btree.BTreeG[memItem]
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		tree: btree.NewG[memItem](memoryDegree, lessMemItem),
	}
}

// Get returns the value at key or kv.ErrNotFound.
func (m *MemoryBackend) Get(_ context.Context, key []byte) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, ok := m.tree.Get(memItem{key: key})
	if !ok {
		return nil, ErrNotFound
	}
	return clone(it.value), nil
}

// Scan returns every pair under prefix in ascending key order.
func (m *MemoryBackend) Scan(_ context.Context, prefix []byte) ([]Pair, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pairs []Pair
	m.tree.AscendGreaterOrEqual(memItem{key: prefix}, func(it memItem) bool {
		if !bytes.HasPrefix(it.key, prefix) {
			return false
		}
		pairs = append(pairs, Pair{Key: clone(it.key), Value: clone(it.value)})
		return true
	})
	return pairs, nil
}

// Apply writes ops under the write lock.
func (m *MemoryBackend) Apply(_ context.Context, ops []Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, op := range ops {
		if op.IsDelete() {
			m.tree.Delete(memItem{key: op.Key})
			continue
		}
		m.tree.ReplaceOrInsert(memItem{key: clone(op.Key), value: clone(op.Value)})
	}
	return nil
}

// Len returns the number of stored pairs.
func (m *MemoryBackend) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tree.Len()
}

// Health always succeeds.
func (m *MemoryBackend) Health(context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryBackend) Close() error { return nil }
