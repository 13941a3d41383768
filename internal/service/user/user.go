package user

import (
	"context"
	"fmt"

	"github.com/nkiryanov/messagely/internal/models"
	"github.com/nkiryanov/messagely/internal/repository"
)

type UserService struct {
	storage repository.Storage
}

func NewService(storage repository.Storage) *UserService {
	return &UserService{storage: storage}
}

// Basic info on all users
func (s *UserService) All(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.storage.User().ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("can't list users. Err: %w", err)
	}

	return users, nil
}

// Get user details
// If user not exists return apperrors.ErrUserNotFound
func (s *UserService) Get(ctx context.Context, username string) (models.User, error) {
	user, err := s.storage.User().GetUser(ctx, username)
	if err != nil {
		return user, fmt.Errorf("can't get user. Err: %w", err)
	}

	return user, nil
}

// Messages sent by user
// Empty if user has no messages, apperrors.ErrUserNotFound if user not exists
func (s *UserService) MessagesFrom(ctx context.Context, username string) ([]models.Message, error) {
	return s.messages(ctx, username, s.storage.Message().MessagesFrom)
}

// Messages sent to user
// Empty if user has no messages, apperrors.ErrUserNotFound if user not exists
func (s *UserService) MessagesTo(ctx context.Context, username string) ([]models.Message, error) {
	return s.messages(ctx, username, s.storage.Message().MessagesTo)
}

func (s *UserService) messages(
	ctx context.Context,
	username string,
	list func(context.Context, string) ([]models.Message, error),
) ([]models.Message, error) {
	messages, err := list(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("can't list messages. Err: %w", err)
	}

	// Empty result is either no messages or no user: tell them apart
	if len(messages) == 0 {
		if _, err := s.Get(ctx, username); err != nil {
			return nil, err
		}
		return []models.Message{}, nil
	}

	return messages, nil
}
