package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkiryanov/messagely/internal/testutil"
)

func Test_UserHandlers(t *testing.T) {
	t.Parallel()

	pg := testutil.StartPostgresContainer(t)
	t.Cleanup(pg.Terminate)

	t.Run("list users", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			token := env.register(t, "alice", "secret1")
			env.register(t, "bob", "secret2")

			code, body := doRequest(t, http.MethodGet, env.URL+"/users", "", token)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			var resp struct {
				Users []map[string]string `json:"users"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			require.ElementsMatch(t, []map[string]string{
				{"username": "alice", "first_name": "First alice", "last_name": "Last alice"},
				{"username": "bob", "first_name": "First bob", "last_name": "Last bob"},
			}, resp.Users, "listing should not include phone or password")
		})
	})

	t.Run("token in query", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			token := env.register(t, "alice", "secret1")

			code, body := doRequest(t, http.MethodGet, env.URL+"/users?_token="+token, "", "")

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
		})
	})

	t.Run("unauthorized without token", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			env.register(t, "alice", "secret1")

			for _, path := range []string{"/users", "/users/alice", "/users/alice/from", "/users/alice/to"} {
				code, body := doRequest(t, http.MethodGet, env.URL+path, "", "")

				require.Equalf(t, http.StatusUnauthorized, code, "path %s should require token. Body: %s", path, body)
			}
		})
	})

	t.Run("only the same user allowed", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			env.register(t, "alice", "secret1")
			bobToken := env.register(t, "bob", "secret2")

			for _, path := range []string{"/users/alice", "/users/alice/from", "/users/alice/to"} {
				code, body := doRequest(t, http.MethodGet, env.URL+path, "", bobToken)

				require.Equalf(t, http.StatusUnauthorized, code, "bob should not see %s. Body: %s", path, body)
				require.JSONEq(t, `{"error": "service_error", "message": "Unauthorized"}`, body)
			}
		})
	})

	t.Run("get user", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			token := env.register(t, "alice", "secret1")

			code, body := doRequest(t, http.MethodGet, env.URL+"/users/alice", "", token)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			var resp struct {
				User map[string]any `json:"user"`
			}
			require.NoError(t, json.Unmarshal([]byte(body), &resp))
			assert.Equal(t, "alice", resp.User["username"])
			assert.Equal(t, "First alice", resp.User["first_name"])
			assert.Equal(t, "Last alice", resp.User["last_name"])
			assert.Equal(t, "+100alice", resp.User["phone"])
			assert.NotEmpty(t, resp.User["join_at"])
			assert.NotEmpty(t, resp.User["last_login_at"])
			assert.NotContains(t, resp.User, "password")
		})
	})

	t.Run("messages", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			aliceToken := env.register(t, "alice", "secret1")
			bobToken := env.register(t, "bob", "secret2")
			_, err := env.Storage.Message().CreateMessage(t.Context(), "alice", "bob", "hi bob")
			require.NoError(t, err)

			type contact struct {
				Username  string `json:"username"`
				FirstName string `json:"first_name"`
				LastName  string `json:"last_name"`
				Phone     string `json:"phone"`
			}
			type message struct {
				ID       int64    `json:"id"`
				Body     string   `json:"body"`
				SentAt   string   `json:"sent_at"`
				ReadAt   *string  `json:"read_at"`
				FromUser *contact `json:"from_user"`
				ToUser   *contact `json:"to_user"`
			}
			type response struct {
				Messages []message `json:"messages"`
			}

			code, body := doRequest(t, http.MethodGet, env.URL+"/users/alice/from", "", aliceToken)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			var from response
			require.NoError(t, json.Unmarshal([]byte(body), &from))
			require.Len(t, from.Messages, 1)
			assert.Equal(t, "hi bob", from.Messages[0].Body)
			assert.Nil(t, from.Messages[0].ReadAt)
			assert.Nil(t, from.Messages[0].FromUser)
			require.NotNil(t, from.Messages[0].ToUser)
			assert.Equal(t, contact{"bob", "First bob", "Last bob", "+100bob"}, *from.Messages[0].ToUser)

			code, body = doRequest(t, http.MethodGet, env.URL+"/users/bob/to", "", bobToken)
			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			var to response
			require.NoError(t, json.Unmarshal([]byte(body), &to))
			require.Len(t, to.Messages, 1)
			assert.Equal(t, from.Messages[0].ID, to.Messages[0].ID)
			assert.Nil(t, to.Messages[0].ToUser)
			require.NotNil(t, to.Messages[0].FromUser)
			assert.Equal(t, contact{"alice", "First alice", "Last alice", "+100alice"}, *to.Messages[0].FromUser)
		})
	})

	t.Run("no messages is empty list", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			token := env.register(t, "alice", "secret1")

			code, body := doRequest(t, http.MethodGet, env.URL+"/users/alice/to", "", token)

			require.Equalf(t, http.StatusOK, code, "not expected code. Body: %s", body)
			require.JSONEq(t, `{"messages": []}`, body)
		})
	})

	t.Run("metrics", func(t *testing.T) {
		withServer(t, pg, func(env testEnv) {
			env.register(t, "alice", "secret1")
			_, _ = doRequest(t, http.MethodPost, env.URL+"/login", `{"username": "alice", "password": "wrong"}`, "")

			code, body := doRequest(t, http.MethodGet, env.URL+"/metrics", "", "")

			require.Equal(t, http.StatusOK, code)
			require.Contains(t, body, "messagely_auth_attempts_total")
		})
	})
}
