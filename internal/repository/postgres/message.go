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
)

type MessageRepo struct {
	DB DBTX
}

const createMessage = `-- name: CreateMessage
INSERT INTO messages (from_username, to_username, body, sent_at)
VALUES ($1, $2, $3, $4)
RETURNING id, body, sent_at, read_at
`

func (r *MessageRepo) CreateMessage(ctx context.Context, from string, to string, body string) (models.Message, error) {
	var m models.Message
	rows, err := r.DB.Query(ctx, createMessage, from, to, body, time.Now())
	if err == nil {
		m, err = pgx.CollectOneRow(rows, func(row pgx.CollectableRow) (models.Message, error) {
			var m models.Message
			err := row.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt)
			return m, err
		})
	}

	var pgErr *pgconn.PgError
	switch {
	case err == nil:
		m.FromUser = &models.UserContact{Username: from}
		m.ToUser = &models.UserContact{Username: to}
		return m, nil
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.ForeignKeyViolation:
		return m, fmt.Errorf("message not created, %s: %w", pgErr.ConstraintName, apperrors.ErrInvalidInput)
	default:
		return m, fmt.Errorf("db error: %w", err)
	}
}

// Join to recipient: every message gets 'ToUser' contact
const messagesFrom = `-- name: MessagesFrom
SELECT m.id, m.body, m.sent_at, m.read_at, u.username, u.first_name, u.last_name, u.phone
FROM messages AS m
JOIN users AS u ON m.to_username = u.username
WHERE m.from_username = $1
ORDER BY m.sent_at, m.id
`

func (r *MessageRepo) MessagesFrom(ctx context.Context, username string) ([]models.Message, error) {
	return r.listMessages(ctx, messagesFrom, username, func(m *models.Message, u *models.UserContact) {
		m.ToUser = u
	})
}

// Join to sender: every message gets 'FromUser' contact
const messagesTo = `-- name: MessagesTo
SELECT m.id, m.body, m.sent_at, m.read_at, u.username, u.first_name, u.last_name, u.phone
FROM messages AS m
JOIN users AS u ON m.from_username = u.username
WHERE m.to_username = $1
ORDER BY m.sent_at, m.id
`

func (r *MessageRepo) MessagesTo(ctx context.Context, username string) ([]models.Message, error) {
	return r.listMessages(ctx, messagesTo, username, func(m *models.Message, u *models.UserContact) {
		m.FromUser = u
	})
}

func (r *MessageRepo) listMessages(
	ctx context.Context,
	query string,
	username string,
	attach func(*models.Message, *models.UserContact),
) ([]models.Message, error) {
	rows, err := r.DB.Query(ctx, query, username)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	messages, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Message, error) {
		var m models.Message
		var u models.UserContact
		err := row.Scan(&m.ID, &m.Body, &m.SentAt, &m.ReadAt, &u.Username, &u.FirstName, &u.LastName, &u.Phone)
		attach(&m, &u)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return messages, nil
}
