package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
)

// Tests in this file run against a real SQLite database so the atomicity of
// the vote transition is exercised end to end, not just against sqlmock.

func newSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := InitDB(filepath.Join(t.TempDir(), "votes.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}

func createTestUser(t *testing.T, users *UserRepository, username, email string) int {
	t.Helper()

	id, err := users.Create(context.Background(), username, email, "test-hash")
	if err != nil {
		t.Fatalf("create user %q: %v", username, err)
	}
	return id
}

func TestVoteRepository_ConcurrentCastVote_ExactlyOneWins(t *testing.T) {
	database := newSQLiteDB(t)
	users := NewUserRepository(database)
	votes := NewVoteRepository(database)

	uid := createTestUser(t, users, "racer", "racer@x.com")

	const attempts = 8
	var (
		accepted atomic.Int32
		already  atomic.Int32
		wg       sync.WaitGroup
	)

	// All goroutines target the same user, spread over different candidates.
	// The invariant requires exactly one Accepted no matter the interleaving.
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(candidateID int) {
			defer wg.Done()
			err := votes.CastVote(context.Background(), uid, candidateID)
			switch {
			case err == nil:
				accepted.Add(1)
			case errors.Is(err, ErrAlreadyVoted):
				already.Add(1)
			default:
				t.Errorf("unexpected CastVote error: %v", err)
			}
		}(1 + i%3)
	}
	wg.Wait()

	if accepted.Load() != 1 {
		t.Fatalf("expected exactly 1 accepted vote, got %d", accepted.Load())
	}
	if already.Load() != attempts-1 {
		t.Fatalf("expected %d already-voted outcomes, got %d", attempts-1, already.Load())
	}

	var voteCount int
	if err := database.QueryRow(`SELECT COUNT(*) FROM votes WHERE user_id = ?`, uid).Scan(&voteCount); err != nil {
		t.Fatalf("count votes: %v", err)
	}
	if voteCount != 1 {
		t.Fatalf("expected exactly 1 vote record, got %d", voteCount)
	}

	var hasVoted bool
	if err := database.QueryRow(`SELECT has_voted FROM users WHERE id = ?`, uid).Scan(&hasVoted); err != nil {
		t.Fatalf("read has_voted: %v", err)
	}
	if !hasVoted {
		t.Fatalf("expected has_voted=true after accepted vote")
	}
}

func TestVoteRepository_CastVote_UnknownCandidateLeavesUserUntouched(t *testing.T) {
	database := newSQLiteDB(t)
	users := NewUserRepository(database)
	votes := NewVoteRepository(database)

	uid := createTestUser(t, users, "cautious", "cautious@x.com")

	if err := votes.CastVote(context.Background(), uid, 999); !errors.Is(err, ErrUnknownCandidate) {
		t.Fatalf("expected ErrUnknownCandidate, got: %v", err)
	}

	var hasVoted bool
	if err := database.QueryRow(`SELECT has_voted FROM users WHERE id = ?`, uid).Scan(&hasVoted); err != nil {
		t.Fatalf("read has_voted: %v", err)
	}
	if hasVoted {
		t.Fatalf("rejected vote must not set has_voted")
	}
}

func TestVoteRepository_SecondVoteRejected(t *testing.T) {
	database := newSQLiteDB(t)
	users := NewUserRepository(database)
	votes := NewVoteRepository(database)

	uid := createTestUser(t, users, "alice", "a@x.com")

	if err := votes.CastVote(context.Background(), uid, 1); err != nil {
		t.Fatalf("first vote should be accepted: %v", err)
	}
	// Second attempt for a different candidate still bounces.
	if err := votes.CastVote(context.Background(), uid, 2); !errors.Is(err, ErrAlreadyVoted) {
		t.Fatalf("expected ErrAlreadyVoted on second vote, got: %v", err)
	}

	voters, err := votes.ListVoters(context.Background())
	if err != nil {
		t.Fatalf("ListVoters: %v", err)
	}
	if len(voters) != 1 || voters[0].Username != "alice" {
		t.Fatalf("unexpected voter roll: %+v", voters)
	}

	tally, err := votes.Tally(context.Background())
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	total := 0
	for _, row := range tally {
		total += row.Votes
	}
	if total != 1 {
		t.Fatalf("expected 1 vote in tally, got %d (%+v)", total, tally)
	}
}

func TestCandidateRepository_ListSeeded(t *testing.T) {
	database := newSQLiteDB(t)
	cands := NewCandidateRepository(database)

	got, err := cands.List(context.Background())
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(got) == 0 {
		t.Fatalf("expected seeded candidates, got none")
	}
	for _, c := range got {
		if c.ID == 0 || c.Name == "" {
			t.Fatalf("invalid candidate row: %+v", c)
		}
	}
}

func TestUserRepository_UniqueConstraints(t *testing.T) {
	database := newSQLiteDB(t)
	users := NewUserRepository(database)

	createTestUser(t, users, "alice", "a@x.com")

	if _, err := users.Create(context.Background(), "alice", "other@x.com", "h"); err == nil {
		t.Fatalf("duplicate username must be rejected by the store")
	}
	if _, err := users.Create(context.Background(), "other", "a@x.com", "h"); err == nil {
		t.Fatalf("duplicate email must be rejected by the store")
	}
}
