package repository

import (
	"context"

	"dappvotes/internal/domain"
	"dappvotes/internal/keys"
	"dappvotes/pkg/kv"
)

// IDAllocator hands out poll IDs
type IDAllocator interface {
	// NextPollID returns the next unused poll ID, starting at 1
	NextPollID(ctx context.Context) (uint64, error)
}

// PollRepository defines the interface for poll data operations
type PollRepository interface {
	// Get retrieves a poll by ID
	Get(ctx context.Context, id uint64) (*domain.Poll, error)

	// Save creates or overwrites a poll
	Save(ctx context.Context, poll *domain.Poll) error

	// List returns every poll ascending by ID, deleted ones included
	List(ctx context.Context) ([]*domain.Poll, error)
}

// ContestantRepository defines the interface for contestant data operations
type ContestantRepository interface {
	// Get retrieves a contestant of a poll
	Get(ctx context.Context, pollID, id uint64) (*domain.Contestant, error)

	// Save creates or overwrites a contestant under its poll
	Save(ctx context.Context, pollID uint64, contestant *domain.Contestant) error

	// List returns the poll's contestants ascending by ID
	List(ctx context.Context, pollID uint64) ([]*domain.Contestant, error)
}

// Repositories aggregates all repository interfaces
type Repositories struct {
	IDs         IDAllocator
	Polls       PollRepository
	Contestants ContestantRepository
}

// New binds every repository to one store. The ledger builds a fresh set per
// command so that all writes land in that command's cache.
func New(store kv.Store, kb *keys.KeyBuilder) *Repositories {
	return &Repositories{
		IDs:         NewIDAllocator(store, kb),
		Polls:       NewPollRepository(store, kb),
		Contestants: NewContestantRepository(store, kb),
	}
}
