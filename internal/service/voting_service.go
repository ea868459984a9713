package service

import (
	"context"
	"fmt"

	"dappvotes/internal/domain"
	"dappvotes/internal/repository"
	"dappvotes/pkg/errors"

	"go.uber.org/zap"
)

// VotingService handles vote casting
type VotingService struct {
	polls       repository.PollRepository
	contestants repository.ContestantRepository
	logger      *zap.Logger
}

// NewVotingService creates a new voting service
func NewVotingService(repos *repository.Repositories, logger *zap.Logger) *VotingService {
	return &VotingService{
		polls:       repos.Polls,
		contestants: repos.Contestants,
		logger:      logger,
	}
}

// CastVote records caller's vote for one contestant. A caller votes at most
// once per poll; the check happens before anything is written. The voting
// window and the deleted flag are not enforced.
func (s *VotingService) CastVote(ctx context.Context, req domain.Vote, caller domain.Address) error {
	poll, err := s.polls.Get(ctx, req.PollID)
	if err != nil {
		return err
	}

	if poll.HasVoted(caller) {
		s.logger.Info("Duplicate vote rejected",
			zap.Uint64("poll_id", poll.ID),
			zap.String("voter", string(caller)))
		return errors.NewAlreadyVotedError(fmt.Sprintf("%s already voted in poll %d", caller, poll.ID))
	}

	contestant, err := s.contestants.Get(ctx, req.PollID, req.ContestantID)
	if err != nil {
		return err
	}

	poll.Votes++
	poll.Voters = append(poll.Voters, caller)
	contestant.Votes++
	contestant.Voters = append(contestant.Voters, caller)

	if err := s.polls.Save(ctx, poll); err != nil {
		return err
	}
	if err := s.contestants.Save(ctx, poll.ID, contestant); err != nil {
		return err
	}

	s.logger.Info("Vote recorded",
		zap.Uint64("poll_id", poll.ID),
		zap.Uint64("contestant_id", contestant.ID),
		zap.String("voter", string(caller)))
	return nil
}
