package handlers

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/metrics"
	"github.com/nkiryanov/messagely/internal/repository"
	"github.com/nkiryanov/messagely/internal/repository/postgres"
	"github.com/nkiryanov/messagely/internal/service/auth"
	"github.com/nkiryanov/messagely/internal/service/auth/tokenmanager"
	"github.com/nkiryanov/messagely/internal/service/user"
	"github.com/nkiryanov/messagely/internal/testutil"
)

// Remembers users login was recorded for
type recorderSpy struct {
	mu    sync.Mutex
	users []string
}

func (r *recorderSpy) Record(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users = append(r.users, username)
}

func (r *recorderSpy) Recorded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.users...)
}

type testEnv struct {
	URL      string
	Auth     *auth.AuthService
	Storage  repository.Storage
	Recorder *recorderSpy
}

// Register user with default fields and return token
func (e testEnv) register(t *testing.T, username string, password string) string {
	token, err := e.Auth.Register(t.Context(), auth.RegisterParams{
		Username:  username,
		Password:  password,
		FirstName: "First " + username,
		LastName:  "Last " + username,
		Phone:     "+100" + username,
	})
	require.NoError(t, err)
	return token
}

// Start http server with production router and services in rolled back transaction
func withServer(t *testing.T, pg testutil.PostgresContainer, fn func(env testEnv)) {
	testutil.InTx(pg.Pool, t, func(tx pgx.Tx) {
		storage := postgres.NewStorage(tx)

		tokenManager, err := tokenmanager.New(tokenmanager.Config{SecretKey: "test-secret"})
		require.NoError(t, err, "token manager should be created without errors")

		m := metrics.New()
		recorder := &recorderSpy{}
		authService, err := auth.NewService(auth.Config{Hasher: auth.BcryptHasher{Cost: bcrypt.MinCost}}, tokenManager, storage.User(), recorder, m)
		require.NoError(t, err, "auth service starting error")

		router := NewRouter(authService, user.NewService(storage), m.Handler(), logger.NewNoOpLogger())
		srv := httptest.NewServer(router)
		defer srv.Close()

		fn(testEnv{URL: srv.URL, Auth: authService, Storage: storage, Recorder: recorder})
	})
}

// Make request and return status with body
func doRequest(t *testing.T, method string, url string, body string, token string) (int, string) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode, string(respBody)
}
