package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"dappvotes/internal/codec"
	"dappvotes/internal/domain"
	"dappvotes/internal/keys"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/kv"
)

type pollRepository struct {
	store kv.Store
	keys  *keys.KeyBuilder
}

// NewPollRepository creates a poll repository over store
func NewPollRepository(store kv.Store, kb *keys.KeyBuilder) PollRepository {
	return &pollRepository{store: store, keys: kb}
}

// Get retrieves a poll by ID
func (r *pollRepository) Get(ctx context.Context, id uint64) (*domain.Poll, error) {
	raw, err := r.store.Get(ctx, r.keys.PollKey(id))
	if stderrors.Is(err, kv.ErrNotFound) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("poll %d not found", id))
	}
	if err != nil {
		return nil, errors.NewStorageFailureError("failed to get poll", err)
	}
	return codec.DecodePoll(raw)
}

// Save creates or overwrites a poll
func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	data, err := codec.EncodePoll(poll)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.keys.PollKey(poll.ID), data); err != nil {
		return errors.NewStorageFailureError("failed to save poll", err)
	}
	return nil
}

// List scans the poll keyspace. A record whose body disagrees with its key
// is reported as malformed.
func (r *pollRepository) List(ctx context.Context) ([]*domain.Poll, error) {
	pairs, err := r.store.Scan(ctx, r.keys.PollsPrefix())
	if err != nil {
		return nil, errors.NewStorageFailureError("failed to list polls", err)
	}

	polls := make([]*domain.Poll, 0, len(pairs))
	for _, pair := range pairs {
		poll, err := codec.DecodePoll(pair.Value)
		if err != nil {
			return nil, err
		}
		if id, ok := r.keys.PollIDFromKey(pair.Key); !ok || id != poll.ID {
			return nil, errors.NewMalformedRecordError("poll record is malformed",
				fmt.Errorf("record id %d stored under key %x", poll.ID, pair.Key))
		}
		polls = append(polls, poll)
	}
	return polls, nil
}
