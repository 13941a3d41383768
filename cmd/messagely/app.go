package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nkiryanov/messagely/internal/db"
	"github.com/nkiryanov/messagely/internal/handlers"
	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/metrics"
	"github.com/nkiryanov/messagely/internal/repository/postgres"
	"github.com/nkiryanov/messagely/internal/service/auth"
	"github.com/nkiryanov/messagely/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/messagely/internal/service/loginrecorder"
	"github.com/nkiryanov/messagely/internal/service/user"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger   logger.Logger
	pool     *pgxpool.Pool
	recorder *loginrecorder.Recorder
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseURI())
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	storage := postgres.NewStorage(pool)
	m := metrics.New()

	tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: c.SecretKey})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	recorder := loginrecorder.New(loginrecorder.Config{}, storage.User(), m, logger)
	authService, err := auth.NewService(
		auth.Config{Hasher: auth.BcryptHasher{Cost: c.WorkFactor}},
		tokenManager,
		storage.User(),
		recorder,
		m,
	)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error while creating auth service. Err: %w", err)
	}
	userService := user.NewService(storage)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    handlers.NewRouter(authService, userService, m.Handler(), logger),

		logger:   logger,
		pool:     pool,
		recorder: recorder,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
// Login recorder is stopped after server, so updates scheduled by in flight requests are applied
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	recorderCtx, stopRecorder := context.WithCancel(context.Background())
	recorderStopped := s.recorder.Run(recorderCtx)
	defer func() {
		stopRecorder()
		<-recorderStopped
	}()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
