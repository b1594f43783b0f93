package models

import "time"

// Vote links one user to one candidate. At most one per user, ever.
type Vote struct {
	ID          string    `json:"id"`
	UserID      int       `json:"user_id"`
	CandidateID int       `json:"candidate_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// VoterEntry is one row of the public voter roll.
type VoterEntry struct {
	Username      string `json:"username"`
	CandidateName string `json:"candidate_name"`
}
