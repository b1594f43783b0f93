package models

// Candidate is read-only in this system; the table is seeded at startup.
type Candidate struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// CandidateTally is one row of the results view: a candidate and how many
// votes it has received so far.
type CandidateTally struct {
	Candidate Candidate `json:"candidate"`
	Votes     int       `json:"votes"`
}
