package service

import (
	"context"
	"errors"

	"voting_app/internal/models"
	"voting_app/internal/repository"
)

// VoteResult is the outcome of a cast-vote attempt. AlreadyCast and
// UnknownCandidate are expected outcomes, not failures.
type VoteResult int

const (
	VoteAccepted VoteResult = iota
	VoteAlreadyCast
	VoteUnknownCandidate
)

func (r VoteResult) String() string {
	switch r {
	case VoteAccepted:
		return "ACCEPTED"
	case VoteAlreadyCast:
		return "ALREADY_VOTED"
	case VoteUnknownCandidate:
		return "UNKNOWN_CANDIDATE"
	default:
		return "UNKNOWN"
	}
}

type VoteService struct {
	votes      repository.Votes
	candidates repository.Candidates
}

func NewVoteService(votes repository.Votes, candidates repository.Candidates) *VoteService {
	return &VoteService{votes: votes, candidates: candidates}
}

// CastVote delegates to the ledger's atomic transition and maps its
// expected outcomes. The token's has_voted claim is never consulted here:
// the store is authoritative. Storage failures pass through untouched.
func (s *VoteService) CastVote(ctx context.Context, userID, candidateID int) (VoteResult, error) {
	err := s.votes.CastVote(ctx, userID, candidateID)
	switch {
	case err == nil:
		return VoteAccepted, nil
	case errors.Is(err, repository.ErrAlreadyVoted):
		return VoteAlreadyCast, nil
	case errors.Is(err, repository.ErrUnknownCandidate):
		return VoteUnknownCandidate, nil
	default:
		return 0, err
	}
}

// Candidates returns the ballot.
func (s *VoteService) Candidates(ctx context.Context) ([]models.Candidate, error) {
	return s.candidates.List(ctx)
}

// Voters returns the public roll of who voted for whom.
func (s *VoteService) Voters(ctx context.Context) ([]models.VoterEntry, error) {
	return s.votes.ListVoters(ctx)
}

// Results returns the per-candidate vote counts.
func (s *VoteService) Results(ctx context.Context) ([]models.CandidateTally, error) {
	return s.votes.Tally(ctx)
}
