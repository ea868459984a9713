// Package ledger hosts the poll core: it runs one command at a time against
// a buffered view of the store and commits the buffer only on success.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"dappvotes/internal/domain"
	"dappvotes/internal/keys"
	"dappvotes/internal/repository"
	"dappvotes/internal/service"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/events"
	"dappvotes/pkg/kv"

	"go.uber.org/zap"
)

// Ledger runs commands one at a time against a backend. Each command sees
// its own overlay and is committed in a single batch or not at all.
type Ledger struct {
	mu        sync.RWMutex
	backend   kv.Backend
	keys      *keys.KeyBuilder
	publisher events.Publisher
	logger    *zap.Logger
}

// New creates a ledger over backend. A nil publisher drops events.
func New(backend kv.Backend, kb *keys.KeyBuilder, publisher events.Publisher, logger *zap.Logger) *Ledger {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ledger{
		backend:   backend,
		keys:      kb,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute runs cmd on behalf of env.Caller. Either every write of the command
// reaches the backend or none does.
func (l *Ledger) Execute(ctx context.Context, env domain.Env, cmd domain.Command) (*domain.Response, error) {
	start := time.Now()

	resp, writes, err := l.execute(ctx, env, cmd)
	if err != nil {
		l.logger.Info("Command rejected",
			zap.String("action", cmd.Action()),
			zap.String("caller", string(env.Caller)),
			zap.Error(err))
		return nil, err
	}

	l.logger.Info("Command committed",
		zap.String("action", cmd.Action()),
		zap.String("caller", string(env.Caller)),
		zap.Int("writes", writes),
		zap.Duration("duration", time.Since(start)))

	if err := l.publisher.Publish(ctx, toEvent(env, resp)); err != nil {
		l.logger.Warn("Failed to publish ledger event",
			zap.String("action", cmd.Action()),
			zap.Error(err))
	}
	return resp, nil
}

func (l *Ledger) execute(ctx context.Context, env domain.Env, cmd domain.Command) (*domain.Response, int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	cache := kv.NewCache(l.backend)
	svcs := service.New(repository.New(cache, l.keys), l.logger)

	resp, err := dispatch(ctx, svcs, env, cmd)
	if err != nil {
		cache.Discard()
		return nil, 0, err
	}

	ops := cache.Ops()
	if len(ops) > 0 {
		if err := l.backend.Apply(ctx, ops); err != nil {
			return nil, 0, errors.NewStorageFailureError("failed to commit command", err)
		}
	}
	return resp, len(ops), nil
}

func dispatch(ctx context.Context, s *service.Services, env domain.Env, cmd domain.Command) (*domain.Response, error) {
	switch c := cmd.(type) {
	case domain.CreatePoll:
		id, err := s.Polls.Create(ctx, env.Caller, c, env.BlockTime)
		if err != nil {
			return nil, err
		}
		return domain.NewResponse(c.Action()).AddUint("id", id).Add("director", string(env.Caller)), nil

	case domain.UpdatePoll:
		if err := s.Polls.Update(ctx, c); err != nil {
			return nil, err
		}
		return domain.NewResponse(c.Action()).AddUint("id", c.ID), nil

	case domain.DeletePoll:
		if err := s.Polls.SoftDelete(ctx, c.ID); err != nil {
			return nil, err
		}
		return domain.NewResponse(c.Action()).AddUint("id", c.ID), nil

	case domain.Contest:
		id, err := s.Contestants.Register(ctx, c, env.Caller)
		if err != nil {
			return nil, err
		}
		return domain.NewResponse(c.Action()).
			AddUint("poll_id", c.PollID).
			AddUint("contestant_id", id), nil

	case domain.Vote:
		if err := s.Voting.CastVote(ctx, c, env.Caller); err != nil {
			return nil, err
		}
		return domain.NewResponse(c.Action()).
			AddUint("poll_id", c.PollID).
			AddUint("contestant_id", c.ContestantID).
			Add("voter", string(env.Caller)), nil

	default:
		return nil, errors.NewValidationError("unsupported command", map[string]interface{}{
			"command": fmt.Sprintf("%T", cmd),
		})
	}
}

// Query answers q from committed state.
func (l *Ledger) Query(ctx context.Context, q domain.Query) (any, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	// the cache is only a read-through view here; it is never applied
	view := kv.NewCache(l.backend)
	return service.New(repository.New(view, l.keys), l.logger).Query.Run(ctx, q)
}

// Health reports whether the backend is reachable
func (l *Ledger) Health(ctx context.Context) error {
	return l.backend.Health(ctx)
}

func toEvent(env domain.Env, resp *domain.Response) events.Event {
	attrs := make([]events.Attribute, 0, len(resp.Attributes))
	for _, a := range resp.Attributes {
		attrs = append(attrs, events.Attribute{Key: a.Key, Value: a.Value})
	}
	return events.Event{
		Action:      resp.Action(),
		Caller:      string(env.Caller),
		BlockTime:   env.BlockTime,
		Attributes:  attrs,
		CommittedAt: time.Now().UTC(),
	}
}
