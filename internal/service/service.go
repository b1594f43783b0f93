package service

import (
	"context"

	"voting_app/internal/models"
	"voting_app/internal/repository"
)

// Authorization covers registration, credential login and token handling.
type Authorization interface {
	SignUp(ctx context.Context, in SignUpInput) (*models.User, error)
	SignIn(ctx context.Context, username, password string) (*models.User, string, error)
	ParseToken(accessToken string) (*Claims, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
}

// Voting owns the vote ledger plus the read-only candidate/voter views.
type Voting interface {
	CastVote(ctx context.Context, userID, candidateID int) (VoteResult, error)
	Candidates(ctx context.Context) ([]models.Candidate, error)
	Voters(ctx context.Context) ([]models.VoterEntry, error)
	Results(ctx context.Context) ([]models.CandidateTally, error)
}

// Config holds process-wide settings injected at startup. The signing key
// must be present; main() refuses to start without it.
type Config struct {
	SigningKey []byte
	BcryptCost int
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Voting
}

func NewService(repos *repository.Repository, cfg Config) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Users, cfg),
		Voting:        NewVoteService(repos.Votes, repos.Candidates),
	}
}
