package repository

import (
	"context"
	"database/sql"
	"errors"

	"voting_app/internal/models"
	"voting_app/internal/repository/db"
)

// Outcomes of the atomic vote transition. Expected business results,
// distinct from infrastructure failures, which are returned wrapped.
var (
	ErrAlreadyVoted     = errors.New("user has already voted")
	ErrUnknownCandidate = errors.New("candidate does not exist")
)

type Users interface {
	Create(ctx context.Context, username, email, passwordHash string) (int, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
}

type Candidates interface {
	List(ctx context.Context) ([]models.Candidate, error)
}

// Votes owns the single-vote-per-user invariant. CastVote must be atomic:
// two concurrent calls for the same user cannot both succeed.
type Votes interface {
	CastVote(ctx context.Context, userID, candidateID int) error
	ListVoters(ctx context.Context) ([]models.VoterEntry, error)
	Tally(ctx context.Context) ([]models.CandidateTally, error)
}

type Repository struct {
	Users      Users
	Candidates Candidates
	Votes      Votes
}

func NewRepository(database *sql.DB) *Repository {
	return &Repository{
		Users:      NewUserRepository(database),
		Candidates: NewCandidateRepository(database),
		Votes:      NewVoteRepository(database),
	}
}

// InitDB opens the SQLite store and ensures the schema exists.
func InitDB(path string) (*sql.DB, error) {
	return db.InitDB(path)
}
