package handlers

import (
	"context"
	"net/http"

	"github.com/nkiryanov/messagely/internal/handlers/middleware"
	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/models"
	"github.com/nkiryanov/messagely/internal/service/auth"
)

// chain applies middlewares in the given order: m1(m2(...(h)))
func chain(h http.Handler, mds ...func(next http.Handler) http.Handler) http.Handler {
	for i := len(mds) - 1; i >= 0; i-- {
		h = mds[i](h)
	}
	return h
}

func NewRouter(
	authService authService,
	userService userService,
	metrics http.Handler,
	logger logger.Logger,
) http.Handler {
	withAuth := func(h http.Handler) http.Handler {
		return chain(h, middleware.AuthMiddleware(authService))
	}
	withCorrectUser := func(h http.Handler) http.Handler {
		return chain(h, middleware.AuthMiddleware(authService), ensureCorrectUser)
	}

	mux := http.NewServeMux()

	mux.Handle("POST /login", handleLogin(authService, logger))
	mux.Handle("POST /register", handleRegister(authService, logger))

	mux.Handle("GET /users", withAuth(handleListUsers(userService, logger)))
	mux.Handle("GET /users/{username}", withCorrectUser(handleGetUser(userService, logger)))
	mux.Handle("GET /users/{username}/from", withCorrectUser(handleMessagesFrom(userService, logger)))
	mux.Handle("GET /users/{username}/to", withCorrectUser(handleMessagesTo(userService, logger)))

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}

	handler := chain(mux,
		middleware.LoggerMiddleware(logger),
	)

	return handler
}

type authService interface {
	// Register user and return token
	// Has to return apperrors.ErrInvalidInput if user already exists
	Register(ctx context.Context, p auth.RegisterParams) (string, error)

	// Login user with username and password
	// Has to return apperrors.ErrBadCredentials if password wrong or user not exists
	Login(ctx context.Context, username string, password string) (string, error)

	// Username token was issued for
	// Has to return apperrors.ErrTokenInvalid if token is not valid
	UserFromToken(ctx context.Context, token string) (string, error)
}

type userService interface {
	All(ctx context.Context) ([]models.UserSummary, error)
	Get(ctx context.Context, username string) (models.User, error)
	MessagesFrom(ctx context.Context, username string) ([]models.Message, error)
	MessagesTo(ctx context.Context, username string) ([]models.Message, error)
}
