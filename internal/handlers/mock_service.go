package handlers

import (
	"context"
	"errors"
	"net/http"

	"voting_app/internal/models"
	"voting_app/internal/service"

	"github.com/gin-gonic/gin"
)

// errDBDown stands in for an infrastructure failure in handler tests.
var errDBDown = errors.New("db down")

// ---- Service Mocks ----

type mockAuth struct {
	signUpUser  *models.User
	signUpErr   error
	signInUser  *models.User
	signInToken string
	signInErr   error
	parseClaims *service.Claims
	parseErr    error
	getUserUser *models.User
	getUserErr  error

	lastSignUpInput service.SignUpInput
	lastSignInUser  string
	lastSignInPass  string
	lastParseToken  string
	lastGetUserID   int
	signUpCalls     int
	signInCalls     int
	parseCalls      int
	getUserCalls    int
}

func (m *mockAuth) SignUp(ctx context.Context, in service.SignUpInput) (*models.User, error) {
	m.signUpCalls++
	m.lastSignUpInput = in
	return m.signUpUser, m.signUpErr
}

func (m *mockAuth) SignIn(ctx context.Context, username, password string) (*models.User, string, error) {
	m.signInCalls++
	m.lastSignInUser = username
	m.lastSignInPass = password
	return m.signInUser, m.signInToken, m.signInErr
}

func (m *mockAuth) ParseToken(token string) (*service.Claims, error) {
	m.parseCalls++
	m.lastParseToken = token
	return m.parseClaims, m.parseErr
}

func (m *mockAuth) GetUser(ctx context.Context, id int) (*models.User, error) {
	m.getUserCalls++
	m.lastGetUserID = id
	return m.getUserUser, m.getUserErr
}

type mockVoting struct {
	castResult    service.VoteResult
	castErr       error
	candidates    []models.Candidate
	candidatesErr error
	voters        []models.VoterEntry
	votersErr     error
	results       []models.CandidateTally
	resultsErr    error

	lastUserID      int
	lastCandidateID int
	castCalls       int
}

func (m *mockVoting) CastVote(ctx context.Context, userID, candidateID int) (service.VoteResult, error) {
	m.castCalls++
	m.lastUserID = userID
	m.lastCandidateID = candidateID
	return m.castResult, m.castErr
}

func (m *mockVoting) Candidates(ctx context.Context) ([]models.Candidate, error) {
	return m.candidates, m.candidatesErr
}

func (m *mockVoting) Voters(ctx context.Context) ([]models.VoterEntry, error) {
	return m.voters, m.votersErr
}

func (m *mockVoting) Results(ctx context.Context) ([]models.CandidateTally, error) {
	return m.results, m.resultsErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}
