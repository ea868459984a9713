package service

import (
	"context"

	"dappvotes/internal/domain"
	"dappvotes/internal/repository"

	"go.uber.org/zap"
)

// ContestantService registers contestants under polls
type ContestantService struct {
	polls       repository.PollRepository
	contestants repository.ContestantRepository
	logger      *zap.Logger
}

// NewContestantService creates a new contestant service
func NewContestantService(repos *repository.Repositories, logger *zap.Logger) *ContestantService {
	return &ContestantService{
		polls:       repos.Polls,
		contestants: repos.Contestants,
		logger:      logger,
	}
}

// Register adds a contestant created by caller. Its ID is the poll's bumped
// contestant counter; the poll and the contestant are saved in the same
// command.
func (s *ContestantService) Register(ctx context.Context, req domain.Contest, caller domain.Address) (uint64, error) {
	poll, err := s.polls.Get(ctx, req.PollID)
	if err != nil {
		return 0, err
	}

	poll.Contestants++
	if err := s.polls.Save(ctx, poll); err != nil {
		return 0, err
	}

	contestant := &domain.Contestant{
		ID:     poll.Contestants,
		Image:  req.Avatar,
		Name:   req.Name,
		Voter:  caller,
		Voters: []domain.Address{},
	}
	if err := s.contestants.Save(ctx, poll.ID, contestant); err != nil {
		return 0, err
	}

	s.logger.Debug("Contestant registered",
		zap.Uint64("poll_id", poll.ID),
		zap.Uint64("contestant_id", contestant.ID))
	return contestant.ID, nil
}

// Get retrieves one contestant of a poll
func (s *ContestantService) Get(ctx context.Context, pollID, id uint64) (*domain.Contestant, error) {
	return s.contestants.Get(ctx, pollID, id)
}

// List returns the contestants of one poll
func (s *ContestantService) List(ctx context.Context, pollID uint64) ([]*domain.Contestant, error) {
	return s.contestants.List(ctx, pollID)
}
