package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/nagrathcare/clinic-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors: a
// human-readable message plus, where available, a machine detail string.
type errorResponse struct {
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"message": ..., "detail": ...}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Message: fmt.Sprintf("%v", he.Message)}
	}

	// Known domain errors map to deterministic HTTP codes. The sentinel text
	// is the message; anything wrapped around it becomes the detail.
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, envelope(err, domain.ErrInvalidInput)
	case errors.Is(err, domain.ErrInvalidSection):
		return http.StatusBadRequest, envelope(err, domain.ErrInvalidSection)
	case errors.Is(err, domain.ErrInvalidUpload):
		return http.StatusBadRequest, envelope(err, domain.ErrInvalidUpload)
	case errors.Is(err, domain.ErrSuperAdminExists):
		return http.StatusBadRequest, envelope(err, domain.ErrSuperAdminExists)
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Message: "invalid email or password"}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, envelope(err, domain.ErrUnauthenticated)
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, envelope(err, domain.ErrForbidden)
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, errorResponse{Message: "user not found"}
	case errors.Is(err, domain.ErrPatientNotFound):
		return http.StatusNotFound, errorResponse{Message: "patient not found"}
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, envelope(err, domain.ErrEmailTaken)
	case errors.Is(err, domain.ErrDuplicateAadhar):
		return http.StatusConflict, envelope(err, domain.ErrDuplicateAadhar)
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, errorResponse{Message: domain.ErrUploadFailed.Error()}
	case errors.Is(err, domain.ErrQREncodingFailed):
		return http.StatusInternalServerError, errorResponse{Message: domain.ErrQREncodingFailed.Error()}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Message: "internal server error"}
}

// envelope splits a wrapped sentinel into message (the sentinel text) and
// detail (the wrapping context), so clients get both a stable message and
// the field-level hint when one exists.
func envelope(err error, sentinel error) errorResponse {
	resp := errorResponse{Message: sentinel.Error()}
	if full := err.Error(); full != resp.Message {
		resp.Detail = full
	}
	return resp
}
