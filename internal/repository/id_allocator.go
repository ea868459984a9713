package repository

import (
	"context"
	"encoding/binary"
	stderrors "errors"
	"fmt"

	"dappvotes/internal/keys"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/kv"
)

type idAllocator struct {
	store kv.Store
	keys  *keys.KeyBuilder
}

// NewIDAllocator creates a counter-backed allocator
func NewIDAllocator(store kv.Store, kb *keys.KeyBuilder) IDAllocator {
	return &idAllocator{store: store, keys: kb}
}

// NextPollID reads the last allocated ID (0 when unset), increments it and
// writes it back.
func (a *idAllocator) NextPollID(ctx context.Context) (uint64, error) {
	key := a.keys.PollCountKey()

	var last uint64
	raw, err := a.store.Get(ctx, key)
	switch {
	case stderrors.Is(err, kv.ErrNotFound):
	case err != nil:
		return 0, errors.NewStorageFailureError("failed to read poll counter", err)
	case len(raw) != 8:
		return 0, errors.NewMalformedRecordError("poll counter is malformed",
			fmt.Errorf("expected 8 bytes, got %d", len(raw)))
	default:
		last = binary.BigEndian.Uint64(raw)
	}

	if last == ^uint64(0) {
		return 0, errors.NewInternalError("poll IDs exhausted", nil)
	}
	next := last + 1

	if err := a.store.Set(ctx, key, binary.BigEndian.AppendUint64(nil, next)); err != nil {
		return 0, errors.NewStorageFailureError("failed to write poll counter", err)
	}
	return next, nil
}
