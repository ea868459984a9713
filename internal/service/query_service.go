package service

import (
	"context"
	"fmt"

	"dappvotes/internal/domain"
	"dappvotes/internal/repository"
)

// QueryService answers the read-only queries
type QueryService struct {
	polls       repository.PollRepository
	contestants repository.ContestantRepository
}

// NewQueryService creates a new query service
func NewQueryService(repos *repository.Repositories) *QueryService {
	return &QueryService{polls: repos.Polls, contestants: repos.Contestants}
}

// Run dispatches a query and returns its payload: a poll or contestant, or
// a slice of them.
func (s *QueryService) Run(ctx context.Context, q domain.Query) (any, error) {
	switch q := q.(type) {
	case domain.GetPolls:
		return s.polls.List(ctx)
	case domain.GetPoll:
		return s.polls.Get(ctx, q.ID)
	case domain.GetContestants:
		return s.contestants.List(ctx, q.PollID)
	case domain.GetContestant:
		return s.contestants.Get(ctx, q.PollID, q.ContestantID)
	default:
		return nil, fmt.Errorf("unhandled query %T", q)
	}
}
