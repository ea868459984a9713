package service

import (
	"dappvotes/internal/repository"

	"go.uber.org/zap"
)

// Services aggregates the command and query handlers of one store view
type Services struct {
	Polls       *PollService
	Contestants *ContestantService
	Voting      *VotingService
	Query       *QueryService
}

// New wires every service to the same repositories
func New(repos *repository.Repositories, logger *zap.Logger) *Services {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Services{
		Polls:       NewPollService(repos, logger),
		Contestants: NewContestantService(repos, logger),
		Voting:      NewVotingService(repos, logger),
		Query:       NewQueryService(repos),
	}
}
