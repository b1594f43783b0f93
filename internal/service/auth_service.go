package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"voting_app/internal/models"
	"voting_app/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// Tokens are valid for 24 hours from issuance.
const tokenTTL = 24 * time.Hour

// Domain errors for auth flows. Login deliberately collapses unknown-user
// and wrong-password into one error so usernames cannot be enumerated;
// registration keeps duplicate-username and duplicate-email distinct.
var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// SignUpInput carries the registration form fields.
type SignUpInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

// AuthService handles user auth logic
type AuthService struct {
	users      repository.Users
	signingKey []byte
	bcryptCost int
}

func NewAuthService(users repository.Users, cfg Config) *AuthService {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &AuthService{users: users, signingKey: cfg.SigningKey, bcryptCost: cost}
}

// SignUp validates the form, hashes the password and creates the user
// with has_voted=false.
func (s *AuthService) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if in.Password != in.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	existing, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}
	existing, err = s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := s.hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("invalid password: %w", err)
	}

	id, err := s.users.Create(ctx, in.Username, in.Email, hash)
	if err != nil {
		return nil, err
	}
	return &models.User{ID: id, Username: in.Username, Email: in.Email, HasVoted: false}, nil
}

// Claims defines JWT claims. The has_voted claim is a snapshot at issuance
// and may be stale; the vote ledger, not the token, decides whether a vote
// is still allowed.
type Claims struct {
	jwt.RegisteredClaims
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	HasVoted bool   `json:"has_voted"`
}

// SignIn validates credentials and returns the user plus a fresh JWT.
// Unknown username and wrong password yield the same error on purpose.
func (s *AuthService) SignIn(ctx context.Context, username, password string) (*models.User, string, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", err
	}
	if u == nil {
		return nil, "", ErrInvalidCredentials
	}

	if !verifyPassword(u.PasswordHash, password) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ParseToken verifies signature and expiry and returns the claims.
// Any failure collapses into ErrInvalidToken; verification is purely
// cryptographic and never touches the store.
func (s *AuthService) ParseToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// GetUser re-reads the authoritative user record, including has_voted.
func (s *AuthService) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// helper: hash password safely
func (s *AuthService) hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash. A malformed digest reads the same
// as a mismatch so callers cannot tell the cases apart.
func verifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// helper: issue a signed JWT snapshotting the user's vote status
func (s *AuthService) issueToken(u *models.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:   u.ID,
		Username: u.Username,
		HasVoted: u.HasVoted,
	})
	return token.SignedString(s.signingKey)
}
