package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Client) {
	mr := miniredis.RunT(t)

	client, err := NewClient("redis://"+mr.Addr(), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestNewClient(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		url         string
		expectError bool
	}{
		{
			name:        "Valid Redis URL",
			url:         "redis://" + mr.Addr(),
			expectError: false,
		},
		{
			name:        "Invalid URL",
			url:         "invalid://url",
			expectError: true,
		},
		{
			name:        "Empty URL",
			url:         "",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.url, nil)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				require.NoError(t, err)
				assert.NotNil(t, client)
				assert.NoError(t, client.Close())
			}
		})
	}
}

func TestClient_HGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	mr.HSet("h", "field", "value")

	val, err := client.HGet(ctx, "h", "field")
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	_, err = client.HGet(ctx, "h", "missing")
	assert.ErrorIs(t, err, goredis.Nil)
}

func TestClient_HMGet(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	mr.HSet("h", "a", "1")
	mr.HSet("h", "c", "3")

	vals, err := client.HMGet(ctx, "h", "a", "b", "c")
	require.NoError(t, err)
	require.Len(t, vals, 3)
	assert.Equal(t, "1", vals[0])
	assert.Nil(t, vals[1])
	assert.Equal(t, "3", vals[2])

	vals, err = client.HMGet(ctx, "h")
	assert.NoError(t, err)
	assert.Nil(t, vals)
}

func TestClient_ZRangeByLex(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	for _, m := range []string{"b", "a", "ab", "c"} {
		_, err := mr.ZAdd("z", 0, m)
		require.NoError(t, err)
	}

	members, err := client.ZRangeByLex(ctx, "z", "[a", "(b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab"}, members)

	members, err = client.ZRangeByLex(ctx, "z", "-", "+")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "ab", "b", "c"}, members)
}

func TestClient_TxPipelined(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	err := client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HSet(ctx, "h", "k", "v")
		pipe.ZAdd(ctx, "z", goredis.Z{Score: 0, Member: "k"})
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, "v", mr.HGet("h", "k"))
	members, err := mr.ZMembers("z")
	require.NoError(t, err)
	assert.Equal(t, []string{"k"}, members)
}

func TestClient_Health(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()

	assert.NoError(t, client.Health(ctx))

	mr.SetError("server down")
	assert.Error(t, client.Health(ctx))
	mr.SetError("")
}

func TestPrefixForLog(t *testing.T) {
	assert.Equal(t, "short", prefixForLog("short"))
	long := "dappvotes:kv:data:with-a-long-tail"
	assert.Equal(t, long[:24]+"…", prefixForLog(long))
}
