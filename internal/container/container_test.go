package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/internal/config"
	"dappvotes/internal/domain"
	"dappvotes/pkg/events"
	"dappvotes/pkg/logger"
)

func TestNew(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name        string
		config      *config.Config
		expectRedis bool
		expectError bool
	}{
		{
			name:   "Container with memory store",
			config: &config.Config{Environment: "test", StoreDriver: config.StoreMemory},
		},
		{
			name: "Container with Redis store",
			config: &config.Config{
				Environment:    "test",
				StoreDriver:    config.StoreRedis,
				RedisURL:       "redis://" + mr.Addr(),
				RedisNamespace: "container-test",
			},
			expectRedis: true,
		},
		{
			name: "Container with SQLite store",
			config: &config.Config{
				Environment: "test",
				StoreDriver: config.StoreSQLite,
				SQLitePath:  filepath.Join(t.TempDir(), "ledger.db"),
			},
		},
		{
			name: "Container with invalid Redis URL",
			config: &config.Config{
				Environment: "test",
				StoreDriver: config.StoreRedis,
				RedisURL:    "invalid://redis-url",
			},
			expectError: true,
		},
		{
			name:        "Container with unknown driver",
			config:      &config.Config{Environment: "test", StoreDriver: "etcd"},
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			container, err := New(context.Background(), tt.config, logger.NewNop())

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, container)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, container)
			t.Cleanup(func() { _ = container.Close() })

			assert.Equal(t, tt.expectRedis, container.HasRedis())
			assert.NotNil(t, container.GetLedger())
			assert.Equal(t, tt.config, container.GetConfig())
			assert.NotNil(t, container.GetLogger())
			assert.IsType(t, events.NoopPublisher{}, container.Publisher)
			assert.Equal(t, "staging", container.KeyBuilder.GetPrefix())

			// the wired ledger works end to end
			ctx := context.Background()
			resp, err := container.GetLedger().Execute(ctx, domain.Env{Caller: "alice"}, domain.CreatePoll{Title: "T"})
			require.NoError(t, err)
			assert.Equal(t, "create_poll", resp.Action())
			assert.NoError(t, container.GetLedger().Health(ctx))
		})
	}
}

func TestNew_KafkaPublisher(t *testing.T) {
	cfg := &config.Config{
		Environment:  "production",
		StoreDriver:  config.StoreMemory,
		KafkaBrokers: []string{"localhost:9092"},
		KafkaTopic:   "ledger",
	}

	container, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	assert.IsType(t, &events.KafkaPublisher{}, container.Publisher)
	assert.Equal(t, "prod", container.KeyBuilder.GetPrefix())
	assert.NoError(t, container.Close())
}

func TestNew_KafkaWithoutTopic(t *testing.T) {
	cfg := &config.Config{
		StoreDriver:  config.StoreMemory,
		KafkaBrokers: []string{"localhost:9092"},
	}

	container, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
	assert.Nil(t, container)
}
