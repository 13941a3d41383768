package handlers

import (
	"net/http"

	"github.com/nkiryanov/messagely/internal/apperrors"
	"github.com/nkiryanov/messagely/internal/handlers/render"
	"github.com/nkiryanov/messagely/internal/logger"
)

// Render service error according to its kind
// Internal details never leak to client, they are logged instead
func serviceError(w http.ResponseWriter, err error, logger logger.Logger) {
	kind := apperrors.KindOf(err)

	var message string
	switch kind {
	case apperrors.KindInvalidInput:
		message = "Invalid input"
	case apperrors.KindNotFound:
		message = "Not found"
	case apperrors.KindUnauthorized:
		message = "Unauthorized"
	default:
		logger.Error("request failed", "error", err)
		message = "Internal server error"
	}

	render.ServiceError(w, message, kind.HTTPStatus())
}
