package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/pkg/kv"
	"dappvotes/pkg/kv/kvtest"
)

func TestBackend_Contract(t *testing.T) {
	kvtest.RunBackendSuite(t, func(t *testing.T) kv.Backend {
		_, client := setupTestRedis(t)
		return NewBackend(client, "test")
	})
}

func TestBackend_UsesNamespacedKeys(t *testing.T) {
	mr, client := setupTestRedis(t)
	b := NewBackend(client, "staging")
	ctx := context.Background()

	require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: []byte("v")}}))

	assert.True(t, mr.Exists("staging:kv:data"))
	assert.True(t, mr.Exists("staging:kv:index"))
	assert.Equal(t, "v", mr.HGet("staging:kv:data", "k"))
}

func TestBackend_NamespacesAreIsolated(t *testing.T) {
	_, client := setupTestRedis(t)
	prod := NewBackend(client, "prod")
	staging := NewBackend(client, "staging")
	ctx := context.Background()

	require.NoError(t, prod.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: []byte("prod")}}))

	_, err := staging.Get(ctx, []byte("k"))
	assert.ErrorIs(t, err, kv.ErrNotFound)

	pairs, err := staging.Scan(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, pairs)
}

func TestBackend_DefaultNamespace(t *testing.T) {
	_, client := setupTestRedis(t)
	b := NewBackend(client, "")
	assert.Equal(t, "dappvotes:kv:data", b.dataKey)
	assert.Equal(t, "dappvotes:kv:index", b.indexKey)
}

func TestBackend_StorageErrorsAreWrapped(t *testing.T) {
	mr, client := setupTestRedis(t)
	b := NewBackend(client, "test")
	ctx := context.Background()

	mr.SetError("ERR backend unavailable")
	defer mr.SetError("")

	_, err := b.Get(ctx, []byte("k"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, kv.ErrNotFound)

	err = b.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: []byte("v")}})
	assert.Error(t, err)
}
