// Package httpapi is the thin HTTP transport over the identity core. It
// binds requests, delegates to the services and maps the service error
// taxonomy onto status codes; no business rule lives here.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mkalvans/userhub/internal/common"
	"github.com/mkalvans/userhub/internal/logging"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps the service
// sentinels to deterministic status codes, logs unexpected errors and renders
// the {"error": "..."} envelope.
func NewHTTPErrorHandler(log logging.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log logging.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from the router, ...).
	var httpError *echo.HTTPError
	if errors.As(err, &httpError) {
		return httpError.Code, fmt.Sprintf("%v", httpError.Message)
	}

	switch {
	case errors.Is(err, common.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, common.ErrRoleNotFound):
		return http.StatusNotFound, "role not found"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, common.ErrDuplicateIdentity):
		return http.StatusConflict, "username or email already exists"
	case errors.Is(err, common.ErrIntegrity):
		return http.StatusUnprocessableEntity, "referenced entity does not exist"
	case errors.Is(err, common.ErrStoreUnavailable):
		return http.StatusServiceUnavailable, "store unavailable"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error(context.Background(), "unhandled error",
		"error", err, "method", c.Request().Method, "path", c.Path())

	return http.StatusInternalServerError, "internal server error"
}
