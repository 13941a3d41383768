package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/nkiryanov/messagely/internal/apperrors"
	"github.com/nkiryanov/messagely/internal/metrics"
	"github.com/nkiryanov/messagely/internal/models"
	"github.com/nkiryanov/messagely/internal/repository"
)

// Interface to create or compare user password hashes
type PasswordHasher interface {
	// Generate Hash from password
	Hash(password string) (string, error)

	// Compare known hashedPassword and user provided password
	// Must be protected against timing attacks
	Compare(hashedPassword string, password string) error
}

// Interface to issue and check signed tokens
type TokenManager interface {
	Sign(username string) (string, error)
	Parse(token string) (username string, err error)
}

type userRepo interface {
	CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error)
	GetPasswordHash(ctx context.Context, username string) (string, error)
}

// Schedules last login update, must not block
type loginRecorder interface {
	Record(username string)
}

type authCounter interface {
	AuthAttempt(result string)
}

type Config struct {
	// Hasher to use during user registration or login process
	// If not set DefaultHasher is used
	Hasher PasswordHasher
}

type RegisterParams struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Auth service
type AuthService struct {
	hasher   PasswordHasher
	token    TokenManager
	userRepo userRepo
	recorder loginRecorder
	counter  authCounter

	// Hash compared against when user not exists
	dummyHash string
}

func NewService(cfg Config, tokenManager TokenManager, userRepo userRepo, recorder loginRecorder, counter authCounter) (*AuthService, error) {
	if tokenManager == nil || userRepo == nil || recorder == nil {
		return nil, errors.New("token manager, user repo and login recorder must not be nil")
	}

	hasher := cfg.Hasher
	if hasher == nil {
		hasher = DefaultHasher
	}

	if counter == nil {
		counter = noopCounter{}
	}

	dummyHash, err := hasher.Hash("not a password")
	if err != nil {
		return nil, fmt.Errorf("hasher does not work. Err: %w", err)
	}

	return &AuthService{
		hasher:   hasher,
		token:    tokenManager,
		userRepo: userRepo,
		recorder: recorder,
		counter:  counter,

		dummyHash: dummyHash,
	}, nil
}

// Register user and return signed token
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (string, error) {
	hash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return "", fmt.Errorf("can't use this as password, Err: %w", err)
	}

	user, err := s.userRepo.CreateUser(ctx, repository.CreateUserParams{
		Username:       p.Username,
		HashedPassword: hash,
		FirstName:      p.FirstName,
		LastName:       p.LastName,
		Phone:          p.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("can't create user. Err: %w", err)
	}

	return s.issue(user.Username)
}

// Login user with username and password and return signed token
// Wrong password or unknown user is apperrors.ErrBadCredentials
func (s *AuthService) Login(ctx context.Context, username string, password string) (string, error) {
	ok, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", err
	}

	if !ok {
		return "", apperrors.ErrBadCredentials
	}

	return s.issue(username)
}

// Authenticate checks username and password
// Unknown user and wrong password are both just false: caller can't tell which one happened
func (s *AuthService) Authenticate(ctx context.Context, username string, password string) (bool, error) {
	hash, err := s.userRepo.GetPasswordHash(ctx, username)

	switch {
	case err == nil:
	case errors.Is(err, apperrors.ErrUserNotFound):
		// Spend about the same time as for existing user
		_ = s.hasher.Compare(s.dummyHash, password)
		s.counter.AuthAttempt(metrics.AuthFailure)
		return false, nil
	default:
		return false, fmt.Errorf("can't authenticate user. Err: %w", err)
	}

	if err := s.hasher.Compare(hash, password); err != nil {
		s.counter.AuthAttempt(metrics.AuthFailure)
		return false, nil
	}

	s.counter.AuthAttempt(metrics.AuthSuccess)
	return true, nil
}

// UserFromToken returns username token was issued for
func (s *AuthService) UserFromToken(_ context.Context, token string) (string, error) {
	return s.token.Parse(token)
}

// Sign token and update last login in background
func (s *AuthService) issue(username string) (string, error) {
	token, err := s.token.Sign(username)
	if err != nil {
		return "", fmt.Errorf("token could not generated, sorry. %w", err)
	}

	s.recorder.Record(username)
	return token, nil
}

type noopCounter struct{}

func (noopCounter) AuthAttempt(string) {}
