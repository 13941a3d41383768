package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/nkiryanov/messagely/internal/handlers/render"
	"github.com/nkiryanov/messagely/internal/handlers/userctx"
)

const (
	bearerPrefix = "Bearer "
	queryToken   = "_token"
)

type authService interface {
	UserFromToken(ctx context.Context, token string) (string, error)
}

// AuthMiddleware puts the username the request token was issued for into the context
// Requests without valid token are rejected with 401
func AuthMiddleware(as authService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			username, err := as.UserFromToken(r.Context(), token)
			if err != nil {
				render.ServiceError(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := userctx.New(r.Context(), username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Header has priority over query parameter
func tokenFromRequest(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, bearerPrefix); ok {
		return strings.TrimSpace(token)
	}

	return r.URL.Query().Get(queryToken)
}
