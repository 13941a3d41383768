package handlers

import (
	"net/http"
	"time"

	"github.com/nkiryanov/messagely/internal/handlers/render"
	"github.com/nkiryanov/messagely/internal/handlers/userctx"
	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/models"
)

type userContactResponse struct {
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type messageResponse struct {
	ID       int64                `json:"id"`
	Body     string               `json:"body"`
	SentAt   time.Time            `json:"sent_at"`
	ReadAt   *time.Time           `json:"read_at"`
	FromUser *userContactResponse `json:"from_user,omitempty"`
	ToUser   *userContactResponse `json:"to_user,omitempty"`
}

type messagesResponse struct {
	Messages []messageResponse `json:"messages"`
}

// Only the token owner may look at their own details and messages
func ensureCorrectUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := userctx.FromContext(r.Context())
		if !ok || username != r.PathValue("username") {
			render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func handleListUsers(userService userService, logger logger.Logger) http.Handler {
	type userResponse struct {
		Username  string `json:"username"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	type response struct {
		Users []userResponse `json:"users"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		users, err := userService.All(r.Context())
		if err != nil {
			serviceError(w, err, logger)
			return
		}

		resp := response{Users: make([]userResponse, 0, len(users))}
		for _, u := range users {
			resp.Users = append(resp.Users, userResponse{
				Username:  u.Username,
				FirstName: u.FirstName,
				LastName:  u.LastName,
			})
		}

		render.JSON(w, resp)
	})
}

func handleGetUser(userService userService, logger logger.Logger) http.Handler {
	type userResponse struct {
		Username    string    `json:"username"`
		FirstName   string    `json:"first_name"`
		LastName    string    `json:"last_name"`
		Phone       string    `json:"phone"`
		JoinAt      time.Time `json:"join_at"`
		LastLoginAt time.Time `json:"last_login_at"`
	}
	type response struct {
		User userResponse `json:"user"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := userService.Get(r.Context(), r.PathValue("username"))
		if err != nil {
			serviceError(w, err, logger)
			return
		}

		render.JSON(w, response{User: userResponse{
			Username:    user.Username,
			FirstName:   user.FirstName,
			LastName:    user.LastName,
			Phone:       user.Phone,
			JoinAt:      user.JoinAt,
			LastLoginAt: user.LastLoginAt,
		}})
	})
}

func handleMessagesFrom(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		messages, err := userService.MessagesFrom(r.Context(), r.PathValue("username"))
		if err != nil {
			serviceError(w, err, logger)
			return
		}

		render.JSON(w, newMessagesResponse(messages))
	})
}

func handleMessagesTo(userService userService, logger logger.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		messages, err := userService.MessagesTo(r.Context(), r.PathValue("username"))
		if err != nil {
			serviceError(w, err, logger)
			return
		}

		render.JSON(w, newMessagesResponse(messages))
	})
}

func newMessagesResponse(messages []models.Message) messagesResponse {
	resp := messagesResponse{Messages: make([]messageResponse, 0, len(messages))}
	for _, m := range messages {
		resp.Messages = append(resp.Messages, messageResponse{
			ID:       m.ID,
			Body:     m.Body,
			SentAt:   m.SentAt,
			ReadAt:   m.ReadAt,
			FromUser: newContactResponse(m.FromUser),
			ToUser:   newContactResponse(m.ToUser),
		})
	}
	return resp
}

func newContactResponse(c *models.UserContact) *userContactResponse {
	if c == nil {
		return nil
	}
	return &userContactResponse{
		Username:  c.Username,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Phone:     c.Phone,
	}
}
