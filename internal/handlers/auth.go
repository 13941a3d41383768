package handlers

import (
	"errors"
	"net/http"

	"github.com/nkiryanov/messagely/internal/apperrors"
	"github.com/nkiryanov/messagely/internal/handlers/render"
	"github.com/nkiryanov/messagely/internal/logger"
	"github.com/nkiryanov/messagely/internal/service/auth"
)

type tokenResponse struct {
	Token string `json:"token"`
}

func handleLogin(authService authService, logger logger.Logger) http.Handler {
	type request struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		token, err := authService.Login(r.Context(), data.Username, data.Password)
		if err != nil {
			if errors.Is(err, apperrors.ErrBadCredentials) {
				render.ServiceError(w, "Invalid username/password", http.StatusUnauthorized)
				return
			}
			serviceError(w, err, logger)
			return
		}

		render.JSON(w, tokenResponse{Token: token})
	})
}

func handleRegister(authService authService, logger logger.Logger) http.Handler {
	type request struct {
		Username  string `json:"username" validate:"required,username,max=50"`
		Password  string `json:"password" validate:"required"`
		FirstName string `json:"first_name" validate:"required"`
		LastName  string `json:"last_name" validate:"required"`
		Phone     string `json:"phone" validate:"required"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		token, err := authService.Register(r.Context(), auth.RegisterParams{
			Username:  data.Username,
			Password:  data.Password,
			FirstName: data.FirstName,
			LastName:  data.LastName,
			Phone:     data.Phone,
		})
		if err != nil {
			serviceError(w, err, logger)
			return
		}

		render.JSON(w, tokenResponse{Token: token})
	})
}
