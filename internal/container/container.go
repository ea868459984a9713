package container

import (
	"context"
	"fmt"

	"dappvotes/internal/config"
	"dappvotes/internal/keys"
	"dappvotes/internal/ledger"
	"dappvotes/pkg/database"
	"dappvotes/pkg/events"
	"dappvotes/pkg/kv"
	"dappvotes/pkg/logger"
	"dappvotes/pkg/redis"
)

// Container holds all application dependencies
type Container struct {
	Config      *config.Config
	Logger      *logger.Logger
	KeyBuilder  *keys.KeyBuilder
	Backend     kv.Backend
	RedisClient *redis.Client
	Publisher   events.Publisher
	Ledger      *ledger.Ledger
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Container, error) {
	c := &Container{
		Config:     cfg,
		Logger:     log,
		KeyBuilder: keys.NewKeyBuilder(cfg.Environment),
	}

	backend, err := c.openBackend(ctx)
	if err != nil {
		return nil, err
	}
	c.Backend = backend

	// Kafka is optional; without brokers committed events are dropped
	if cfg.KafkaEnabled() {
		publisher, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic, log.Logger)
		if err != nil {
			_ = c.Close()
			return nil, fmt.Errorf("failed to initialize kafka publisher: %w", err)
		}
		c.Publisher = publisher
		log.WithFields(map[string]interface{}{
			"brokers": cfg.KafkaBrokers,
			"topic":   cfg.KafkaTopic,
		}).Info("Kafka publisher initialized")
	} else {
		c.Publisher = events.NoopPublisher{}
		log.Info("Kafka brokers not configured, ledger events will not be published")
	}

	c.Ledger = ledger.New(c.Backend, c.KeyBuilder, c.Publisher, log.Logger)
	return c, nil
}

func (c *Container) openBackend(ctx context.Context) (kv.Backend, error) {
	log := c.Logger.WithField("store_driver", c.Config.StoreDriver)

	switch c.Config.StoreDriver {
	case config.StoreMemory:
		log.Warn("Using in-memory store, state is lost on restart")
		return kv.NewMemoryBackend(), nil

	case config.StoreRedis:
		client, err := redis.NewClient(c.Config.RedisURL, c.Logger.Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis client: %w", err)
		}
		c.RedisClient = client
		log.Info("Redis client initialized successfully")
		return redis.NewBackend(client, c.Config.RedisNamespace), nil

	case config.StorePostgres:
		db, err := database.NewPostgresDB(ctx, c.Config.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if err := db.EnsureSchema(ctx); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare postgres schema: %w", err)
		}
		log.Info("PostgreSQL store initialized successfully")
		return db, nil

	case config.StoreSQLite:
		db, err := database.NewSQLiteDB(ctx, c.Config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		log.WithField("path", c.Config.SQLitePath).Info("SQLite store initialized successfully")
		return db, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", c.Config.StoreDriver)
	}
}

// GetLedger returns the ledger host
func (c *Container) GetLedger() *ledger.Ledger {
	return c.Ledger
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if the store runs on Redis
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close releases the publisher and the store
func (c *Container) Close() error {
	var firstErr error
	if c.Publisher != nil {
		if err := c.Publisher.Close(); err != nil {
			firstErr = err
		}
	}
	if c.Backend != nil {
		if err := c.Backend.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
