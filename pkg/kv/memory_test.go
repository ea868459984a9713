package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/pkg/kv"
	"dappvotes/pkg/kv/kvtest"
)

func TestMemoryBackend(t *testing.T) {
	kvtest.RunBackendSuite(t, func(t *testing.T) kv.Backend {
		return kv.NewMemoryBackend()
	})
}

func TestMemoryBackend_ReturnsCopies(t *testing.T) {
	b := kv.NewMemoryBackend()
	ctx := context.Background()

	value := []byte("abc")
	require.NoError(t, b.Apply(ctx, []kv.Op{{Key: []byte("k"), Value: value}}))
	value[0] = 'x'

	got, err := b.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), got)

	got[1] = 'y'
	again, err := b.Get(ctx, []byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
	assert.Equal(t, 1, b.Len())
}

func TestPrefixEnd(t *testing.T) {
	tests := []struct {
		name     string
		prefix   []byte
		expected []byte
	}{
		{"simple", []byte("abc"), []byte("abd")},
		{"trailing ff", []byte{0x01, 0xff}, []byte{0x02}},
		{"all ff", []byte{0xff, 0xff}, nil},
		{"empty", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, kv.PrefixEnd(tt.prefix))
		})
	}
}
