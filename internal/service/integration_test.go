package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"voting_app/internal/repository"
)

// End-to-end flow over real repositories and a real SQLite file:
// register → login → vote → repeat vote bounces. Exercises the full wiring
// instead of per-layer mocks.

func newIntegrationService(t *testing.T) *Service {
	t.Helper()

	database, err := repository.InitDB(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	repos := repository.NewRepository(database)
	return NewService(repos, Config{SigningKey: []byte(testSigningKey), BcryptCost: 4})
}

func TestRegisterLoginVoteFlow(t *testing.T) {
	ctx := context.Background()
	svc := newIntegrationService(t)

	// Register alice.
	created, err := svc.SignUp(ctx, SignUpInput{
		Username:        "alice",
		Email:           "a@x.com",
		Password:        "pw123",
		ConfirmPassword: "pw123",
	})
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if created.HasVoted {
		t.Fatalf("new user must not have voted")
	}

	// Re-registering either unique field fails with the matching error.
	if _, err := svc.SignUp(ctx, SignUpInput{
		Username: "alice", Email: "fresh@x.com", Password: "pw", ConfirmPassword: "pw",
	}); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got: %v", err)
	}
	if _, err := svc.SignUp(ctx, SignUpInput{
		Username: "alice2", Email: "a@x.com", Password: "pw", ConfirmPassword: "pw",
	}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got: %v", err)
	}

	// Login returns a token whose snapshot says has_voted=false.
	user, token, err := svc.SignIn(ctx, "alice", "pw123")
	if err != nil {
		t.Fatalf("SignIn failed: %v", err)
	}
	claims, err := svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.HasVoted {
		t.Fatalf("token before voting must carry has_voted=false")
	}

	// First vote is accepted; the candidate table is seeded by InitDB.
	result, err := svc.CastVote(ctx, user.ID, 1)
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if result != VoteAccepted {
		t.Fatalf("expected VoteAccepted, got %v", result)
	}

	// Second vote, different candidate, bounces.
	result, err = svc.CastVote(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("CastVote failed: %v", err)
	}
	if result != VoteAlreadyCast {
		t.Fatalf("expected VoteAlreadyCast, got %v", result)
	}

	// The old token still parses with the stale snapshot, but the store —
	// which the ledger consulted above — now says voted.
	claims, err = svc.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken failed: %v", err)
	}
	if claims.HasVoted {
		t.Fatalf("issued token must keep its issuance-time snapshot")
	}
	current, err := svc.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if !current.HasVoted {
		t.Fatalf("store must report has_voted=true after an accepted vote")
	}

	// The roll shows the accepted vote only.
	voters, err := svc.Voters(ctx)
	if err != nil {
		t.Fatalf("Voters failed: %v", err)
	}
	if len(voters) != 1 || voters[0].Username != "alice" {
		t.Fatalf("unexpected voter roll: %+v", voters)
	}

	tally, err := svc.Results(ctx)
	if err != nil {
		t.Fatalf("Results failed: %v", err)
	}
	total := 0
	for _, row := range tally {
		total += row.Votes
	}
	if total != 1 {
		t.Fatalf("expected exactly one vote in tally, got %d", total)
	}
}
