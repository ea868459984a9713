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

type contestantRepository struct {
	store kv.Store
	keys  *keys.KeyBuilder
}

// NewContestantRepository creates a contestant repository over store
func NewContestantRepository(store kv.Store, kb *keys.KeyBuilder) ContestantRepository {
	return &contestantRepository{store: store, keys: kb}
}

// Get retrieves a contestant of a poll
func (r *contestantRepository) Get(ctx context.Context, pollID, id uint64) (*domain.Contestant, error) {
	raw, err := r.store.Get(ctx, r.keys.ContestantKey(pollID, id))
	if stderrors.Is(err, kv.ErrNotFound) {
		return nil, errors.NewNotFoundError(fmt.Sprintf("contestant %d not found in poll %d", id, pollID))
	}
	if err != nil {
		return nil, errors.NewStorageFailureError("failed to get contestant", err)
	}
	return codec.DecodeContestant(raw)
}

// Save creates or overwrites a contestant under its poll
func (r *contestantRepository) Save(ctx context.Context, pollID uint64, contestant *domain.Contestant) error {
	data, err := codec.EncodeContestant(contestant)
	if err != nil {
		return err
	}
	if err := r.store.Set(ctx, r.keys.ContestantKey(pollID, contestant.ID), data); err != nil {
		return errors.NewStorageFailureError("failed to save contestant", err)
	}
	return nil
}

// List scans only pollID's contestant range. A record whose ID disagrees
// with its key is reported as malformed.
func (r *contestantRepository) List(ctx context.Context, pollID uint64) ([]*domain.Contestant, error) {
	pairs, err := r.store.Scan(ctx, r.keys.ContestantsPrefix(pollID))
	if err != nil {
		return nil, errors.NewStorageFailureError("failed to list contestants", err)
	}

	contestants := make([]*domain.Contestant, 0, len(pairs))
	for _, pair := range pairs {
		c, err := codec.DecodeContestant(pair.Value)
		if err != nil {
			return nil, err
		}
		if id, ok := r.keys.ContestantIDFromKey(pollID, pair.Key); !ok || id != c.ID {
			return nil, errors.NewMalformedRecordError("contestant record is malformed",
				fmt.Errorf("record id %d stored under key %x", c.ID, pair.Key))
		}
		contestants = append(contestants, c)
	}
	return contestants, nil
}
