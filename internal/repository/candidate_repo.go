package repository

import (
	"context"
	"database/sql"
	"fmt"

	"voting_app/internal/models"
)

type CandidateRepository struct {
	db *sql.DB
}

func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

var _ Candidates = (*CandidateRepository)(nil)

const selectCandidatesSQL = `SELECT id, name FROM candidates ORDER BY id ASC`

// List returns all candidates on the ballot.
func (r *CandidateRepository) List(ctx context.Context) ([]models.Candidate, error) {
	rows, err := r.db.QueryContext(ctx, selectCandidatesSQL)
	if err != nil {
		return nil, fmt.Errorf("select candidates: %w", err)
	}
	defer rows.Close()

	out := make([]models.Candidate, 0, 8)
	for rows.Next() {
		var c models.Candidate
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, fmt.Errorf("scan candidate row: %w", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return out, nil
}
