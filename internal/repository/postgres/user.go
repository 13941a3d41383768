package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nkiryanov/messagely/internal/apperrors"
	"github.com/nkiryanov/messagely/internal/models"
	"github.com/nkiryanov/messagely/internal/repository"
)

type UserRepo struct {
	DB DBTX
}

const createUser = `-- name: CreateUser
INSERT INTO users (username, password, first_name, last_name, phone, join_at, last_login_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)
RETURNING username, password, first_name, last_name, phone, join_at, last_login_at
`

func (r *UserRepo) CreateUser(ctx context.Context, arg repository.CreateUserParams) (models.User, error) {
	now := time.Now()
	var user models.User
	rows, err := r.DB.Query(ctx, createUser, arg.Username, arg.HashedPassword, arg.FirstName, arg.LastName, arg.Phone, now)
	if err == nil {
		user, err = pgx.CollectOneRow(rows, rowToUserWithPassword)
	}

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, fmt.Errorf("user not created: %w", apperrors.ErrInvalidInput)
	case errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code):
		return user, fmt.Errorf("user not created, %s: %w", pgErr.ConstraintName, apperrors.ErrInvalidInput)
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

const getPasswordHash = `-- name: GetPasswordHash
SELECT password FROM users
WHERE username = $1
`

func (r *UserRepo) GetPasswordHash(ctx context.Context, username string) (string, error) {
	var hash string
	rows, err := r.DB.Query(ctx, getPasswordHash, username)
	if err == nil {
		hash, err = pgx.CollectOneRow(rows, pgx.RowTo[string])
	}

	switch {
	case err == nil:
		return hash, nil
	case errors.Is(err, pgx.ErrNoRows):
		return hash, apperrors.ErrUserNotFound
	default:
		return hash, fmt.Errorf("db error: %w", err)
	}
}

// Postgres keeps microseconds, so bump by one if the clock did not move since previous login
const updateLoginTimestamp = `-- name: UpdateLoginTimestamp
UPDATE users
SET last_login_at = GREATEST($2, last_login_at + interval '1 microsecond')
WHERE username = $1
RETURNING last_login_at
`

func (r *UserRepo) UpdateLoginTimestamp(ctx context.Context, username string) (time.Time, error) {
	var lastLoginAt time.Time
	rows, err := r.DB.Query(ctx, updateLoginTimestamp, username, time.Now())
	if err == nil {
		lastLoginAt, err = pgx.CollectOneRow(rows, pgx.RowTo[time.Time])
	}

	switch {
	case err == nil:
		return lastLoginAt, nil
	case errors.Is(err, pgx.ErrNoRows):
		return lastLoginAt, fmt.Errorf("user %q not exists: %w", username, apperrors.ErrInvalidInput)
	default:
		return lastLoginAt, fmt.Errorf("db error: %w", err)
	}
}

const listUsers = `-- name: ListUsers
SELECT username, first_name, last_name FROM users
`

func (r *UserRepo) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	rows, err := r.DB.Query(ctx, listUsers)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	users, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.UserSummary, error) {
		var u models.UserSummary
		err := row.Scan(&u.Username, &u.FirstName, &u.LastName)
		return u, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return users, nil
}

const getUser = `-- name: GetUser
SELECT username, first_name, last_name, phone, join_at, last_login_at FROM users
WHERE username = $1
`

func (r *UserRepo) GetUser(ctx context.Context, username string) (models.User, error) {
	var user models.User
	rows, err := r.DB.Query(ctx, getUser, username)
	if err == nil {
		user, err = pgx.CollectOneRow(rows, rowToUser)
	}

	switch {
	case err == nil:
		return user, nil
	case errors.Is(err, pgx.ErrNoRows):
		return user, apperrors.ErrUserNotFound
	default:
		return user, fmt.Errorf("db error: %w", err)
	}
}

func rowToUser(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.Username, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)
	return u, err
}

func rowToUserWithPassword(row pgx.CollectableRow) (models.User, error) {
	var u models.User
	err := row.Scan(&u.Username, &u.HashedPassword, &u.FirstName, &u.LastName, &u.Phone, &u.JoinAt, &u.LastLoginAt)
	return u, err
}
