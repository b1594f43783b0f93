package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"voting_app/internal/models"

	"github.com/google/uuid"
)

type VoteRepository struct {
	db *sql.DB
}

func NewVoteRepository(db *sql.DB) *VoteRepository { return &VoteRepository{db: db} }

var _ Votes = (*VoteRepository)(nil)

const (
	selectHasVotedSQL    = `SELECT has_voted FROM users WHERE id = ?`
	selectCandidateIDSQL = `SELECT EXISTS(SELECT 1 FROM candidates WHERE id = ?)`
	insertVoteSQL        = `INSERT INTO votes (id, user_id, candidate_id, created_at) VALUES (?, ?, ?, ?)`
	markVotedSQL         = `UPDATE users SET has_voted = 1 WHERE id = ? AND has_voted = 0`

	selectVotersSQL = `
		SELECT u.username, c.name
		FROM votes v
		JOIN users u ON u.id = v.user_id
		JOIN candidates c ON c.id = v.candidate_id
		ORDER BY v.created_at ASC`

	selectTallySQL = `
		SELECT c.id, c.name, COUNT(v.id)
		FROM candidates c
		LEFT JOIN votes v ON v.candidate_id = c.id
		GROUP BY c.id, c.name
		ORDER BY c.id ASC`
)

// CastVote records a vote inside a single transaction:
// read has_voted, verify the candidate, insert the vote record, and flip
// has_voted with a compare-and-swap. The CAS guard plus UNIQUE(votes.user_id)
// ensure that of two concurrent calls for one user at most one commits.
// Returns ErrAlreadyVoted or ErrUnknownCandidate as expected outcomes;
// anything else is a storage failure, surfaced unchanged and never retried.
func (r *VoteRepository) CastVote(ctx context.Context, userID, candidateID int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin vote transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var hasVoted bool
	if err := tx.QueryRowContext(ctx, selectHasVotedSQL, userID).Scan(&hasVoted); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("vote for unknown user %d: %w", userID, err)
		}
		return fmt.Errorf("read has_voted for user %d: %w", userID, err)
	}
	if hasVoted {
		return ErrAlreadyVoted
	}

	var exists bool
	if err := tx.QueryRowContext(ctx, selectCandidateIDSQL, candidateID).Scan(&exists); err != nil {
		return fmt.Errorf("check candidate %d: %w", candidateID, err)
	}
	if !exists {
		return ErrUnknownCandidate
	}

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx, insertVoteSQL, uuid.NewString(), userID, candidateID, now); err != nil {
		return fmt.Errorf("insert vote for user %d: %w", userID, err)
	}

	res, err := tx.ExecContext(ctx, markVotedSQL, userID)
	if err != nil {
		return fmt.Errorf("mark user %d as voted: %w", userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected for user %d: %w", userID, err)
	}
	if affected == 0 {
		// Another transaction flipped the flag first; nothing here commits.
		return ErrAlreadyVoted
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit vote for user %d: %w", userID, err)
	}
	return nil
}

// ListVoters returns the public voter roll, oldest vote first.
func (r *VoteRepository) ListVoters(ctx context.Context) ([]models.VoterEntry, error) {
	rows, err := r.db.QueryContext(ctx, selectVotersSQL)
	if err != nil {
		return nil, fmt.Errorf("select voters: %w", err)
	}
	defer rows.Close()

	out := make([]models.VoterEntry, 0, 16)
	for rows.Next() {
		var e models.VoterEntry
		if err := rows.Scan(&e.Username, &e.CandidateName); err != nil {
			return nil, fmt.Errorf("scan voter row: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate voters: %w", err)
	}
	return out, nil
}

// Tally returns the vote count per candidate, including zero-vote candidates.
func (r *VoteRepository) Tally(ctx context.Context) ([]models.CandidateTally, error) {
	rows, err := r.db.QueryContext(ctx, selectTallySQL)
	if err != nil {
		return nil, fmt.Errorf("select tally: %w", err)
	}
	defer rows.Close()

	out := make([]models.CandidateTally, 0, 8)
	for rows.Next() {
		var t models.CandidateTally
		if err := rows.Scan(&t.Candidate.ID, &t.Candidate.Name, &t.Votes); err != nil {
			return nil, fmt.Errorf("scan tally row: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tally: %w", err)
	}
	return out, nil
}
