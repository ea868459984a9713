package service

import (
	"context"
	"fmt"

	"dappvotes/internal/domain"
	"dappvotes/internal/repository"

	"go.uber.org/zap"
)

// PollService manages the poll lifecycle
type PollService struct {
	ids    repository.IDAllocator
	polls  repository.PollRepository
	logger *zap.Logger
}

// NewPollService creates a new poll service
func NewPollService(repos *repository.Repositories, logger *zap.Logger) *PollService {
	return &PollService{
		ids:    repos.IDs,
		polls:  repos.Polls,
		logger: logger,
	}
}

// Create allocates an ID and stores a fresh poll owned by director. Fields
// are stored as given; the voting window is not validated.
func (s *PollService) Create(ctx context.Context, director domain.Address, req domain.CreatePoll, now uint64) (uint64, error) {
	id, err := s.ids.NextPollID(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate poll id: %w", err)
	}

	poll := &domain.Poll{
		ID:          id,
		Image:       req.Image,
		Title:       req.Title,
		Description: req.Description,
		Director:    director,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Timestamp:   now,
		Voters:      []domain.Address{},
		Avatars:     []string{},
		Options:     []string{},
	}
	if err := s.polls.Save(ctx, poll); err != nil {
		return 0, err
	}

	s.logger.Debug("Poll created", zap.Uint64("poll_id", id), zap.String("director", string(director)))
	return id, nil
}

// Update overwrites the display and window fields. Anyone may update any
// poll, deleted or not.
func (s *PollService) Update(ctx context.Context, req domain.UpdatePoll) error {
	poll, err := s.polls.Get(ctx, req.ID)
	if err != nil {
		return err
	}

	poll.Image = req.Image
	poll.Title = req.Title
	poll.Description = req.Description
	poll.StartsAt = req.StartsAt
	poll.EndsAt = req.EndsAt

	return s.polls.Save(ctx, poll)
}

// SoftDelete flags the poll as deleted. Deleting twice is a no-op.
func (s *PollService) SoftDelete(ctx context.Context, id uint64) error {
	poll, err := s.polls.Get(ctx, id)
	if err != nil {
		return err
	}
	if poll.Deleted {
		return nil
	}

	poll.Deleted = true
	return s.polls.Save(ctx, poll)
}

// Get retrieves a single poll
func (s *PollService) Get(ctx context.Context, id uint64) (*domain.Poll, error) {
	return s.polls.Get(ctx, id)
}

// List returns all polls, deleted ones included
func (s *PollService) List(ctx context.Context) ([]*domain.Poll, error) {
	return s.polls.List(ctx)
}
