// Package httpx provides HTTP response utilities and the console's error
// taxonomy for failures coming back from the HR API.
package httpx

import (
	"errors"
	"net/http"
)

// Sentinel errors shared between the HR API client and the handlers.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrValidation         = errors.New("validation failed")
	ErrForbidden          = errors.New("forbidden")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrServiceUnavailable = errors.New("service unavailable")
)

// RespondError maps sentinel errors to RFC7807 problem responses. Service
// unavailability carries a retry hint; unknown errors stay opaque.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, ErrValidation):
		Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
	case errors.Is(err, ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, ErrUnauthorized):
		Problem(w, http.StatusUnauthorized, "Unauthorized", err.Error())
	case errors.Is(err, ErrServiceUnavailable):
		Problem(w, http.StatusBadGateway, "Upstream Unavailable", "the HR service is unavailable, try again shortly")
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
