package repository

import (
	"context"
	"time"

	"github.com/nkiryanov/messagely/internal/models"
)

type CreateUserParams struct {
	Username       string
	HashedPassword string
	FirstName      string
	LastName       string
	Phone          string
}

// User repository interface
type UserRepo interface {
	// Create user with join and last login time set to now
	// Any failure to insert the row (duplicate username too) has to return apperrors.ErrInvalidInput
	CreateUser(ctx context.Context, arg CreateUserParams) (models.User, error)

	// Return stored password hash
	// If user not found must return apperrors.ErrUserNotFound
	GetPasswordHash(ctx context.Context, username string) (string, error)

	// Set last login time to now. It must always move forward
	// If user not found must return apperrors.ErrInvalidInput
	UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error)

	// Basic info on all users, order is not specified
	ListUsers(ctx context.Context) ([]models.UserSummary, error)

	// Get user without password hash
	// If user not found must return apperrors.ErrUserNotFound
	GetUser(ctx context.Context, username string) (models.User, error)
}

// Message repository interface
type MessageRepo interface {
	// Create message sent now
	// If any of users not exists has to return apperrors.ErrInvalidInput
	CreateMessage(ctx context.Context, from string, to string, body string) (models.Message, error)

	// Messages sent by user, each with recipient contact (ToUser)
	// Ordered by sent time; empty if no messages
	MessagesFrom(ctx context.Context, username string) ([]models.Message, error)

	// Messages sent to user, each with sender contact (FromUser)
	// Ordered by sent time; empty if no messages
	MessagesTo(ctx context.Context, username string) ([]models.Message, error)
}

type Storage interface {
	User() UserRepo
	Message() MessageRepo
}
