package handler

import (
	"errors"
	"net/http"

	"deckboard/internal/apperr"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error    ErrorBody `json:"error"`
	Desynced bool      `json:"desynced"`
}

func statusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindAuth:
		return http.StatusUnauthorized
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindStore:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse. desynced tells the client
// that its board view is no longer known to match the store.
func respondError(c *gin.Context, err error, desynced bool) {
	_ = c.Error(err)

	kind := apperr.KindOf(err)
	message := "Internal server error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.UserMessage()
	}

	c.JSON(statusFor(kind), ErrorResponse{
		Error:    ErrorBody{Code: kind.String(), Message: message},
		Desynced: desynced,
	})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error: ErrorBody{Code: apperr.KindValidation.String(), Message: message},
	})
}
