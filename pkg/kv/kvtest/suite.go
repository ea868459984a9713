// Package kvtest holds the behaviour every kv.Backend must share.
package kvtest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/pkg/kv"
)

// RunBackendSuite runs the backend contract against fresh backends from newBackend.
func RunBackendSuite(t *testing.T, newBackend func(t *testing.T) kv.Backend) {
	t.Helper()

	t.Run("get missing key", func(t *testing.T) {
		b := newBackend(t)
		_, err := b.Get(context.Background(), []byte("missing"))
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("apply then get", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Apply(ctx, []kv.Op{
			{Key: []byte("k1"), Value: []byte("v1")},
			{Key: []byte{0x00, 0xff, 0x10}, Value: []byte{0x01, 0x02}},
		}))

		v, err := b.Get(ctx, []byte("k1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("v1"), v)

		v, err = b.Get(ctx, []byte{0x00, 0xff, 0x10})
		require.NoError(t, err)
		assert.Equal(t, []byte{0x01, 0x02}, v)
	})

	t.Run("overwrite and delete", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: []byte("old")}}))
		require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: []byte("new")}}))

		v, err := b.Get(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), v)

		require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("k")}}))
		_, err = b.Get(ctx, []byte("k"))
		assert.ErrorIs(t, err, kv.ErrNotFound)

		pairs, err := b.Scan(ctx, []byte("k"))
		require.NoError(t, err)
		assert.Empty(t, pairs)
	})

	t.Run("empty value", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("empty"), Value: []byte{}}}))
		v, err := b.Get(ctx, []byte("empty"))
		require.NoError(t, err)
		assert.Len(t, v, 0)
	})

	t.Run("scan is ordered and scoped to prefix", func(t *testing.T) {
		b := newBackend(t)
		ctx := context.Background()

		require.NoError(t, b.Apply(ctx, []kv.Op{
			{Key: []byte("c:\x00\x02"), Value: []byte("2")},
			{Key: []byte("b:"), Value: []byte("other")},
			{Key: []byte("c:\x00\x01"), Value: []byte("1")},
			{Key: []byte("c:\x01\x00"), Value: []byte("3")},
			{Key: []byte("c:\xff"), Value: []byte("4")},
			{Key: []byte("d:"), Value: []byte("after")},
		}))

		pairs, err := b.Scan(ctx, []byte("c:\x00"))
		require.NoError(t, err)
		require.Len(t, pairs, 2)
		assert.Equal(t, []byte("c:\x00\x01"), pairs[0].Key)
		assert.Equal(t, []byte("1"), pairs[0].Value)
		assert.Equal(t, []byte("c:\x00\x02"), pairs[1].Key)

		pairs, err = b.Scan(ctx, []byte("c:"))
		require.NoError(t, err)
		require.Len(t, pairs, 4)
		assert.Equal(t, []byte("c:\xff"), pairs[3].Key)

		pairs, err = b.Scan(ctx, nil)
		require.NoError(t, err)
		assert.Len(t, pairs, 6)
		assert.Equal(t, []byte("b:"), pairs[0].Key)
		assert.Equal(t, []byte("d:"), pairs[5].Key)
	})

	t.Run("health", func(t *testing.T) {
		b := newBackend(t)
		assert.NoError(t, b.Health(context.Background()))
	})
}
